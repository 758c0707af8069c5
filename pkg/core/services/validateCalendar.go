package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/psantana/sanctuary-scheduler/internal/config"
	"github.com/psantana/sanctuary-scheduler/pkg/core/calendar"
	"github.com/psantana/sanctuary-scheduler/pkg/core/model"
	"github.com/psantana/sanctuary-scheduler/pkg/db"
)

// ValidateCalendarResult contains the generated slots and any rule findings
type ValidateCalendarResult struct {
	Month    int
	Year     int
	Slots    []model.MassSlot
	Findings []calendar.Finding
	Errors   int
	Warnings int
}

// ValidateCalendarStore defines the database operations needed to validate
// a calendar
type ValidateCalendarStore interface {
	GetMassTimeConfig(ctx context.Context) ([]db.MassTimeConfig, error)
}

// ValidateCalendar builds the month's calendar and checks it against the
// sanctuary rules without touching availability or assignments. Useful for
// verifying October before generation.
func ValidateCalendar(
	ctx context.Context,
	database ValidateCalendarStore,
	cfg *config.Config,
	logger *zap.Logger,
	month, year int,
) (*ValidateCalendarResult, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	massTimes, err := database.GetMassTimeConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mass time config: %w", err)
	}

	extras, err := toExtraMasses(cfg.ExtraMasses)
	if err != nil {
		return nil, err
	}

	slots, err := calendar.NewBuilder(toTimeConfigs(massTimes), extras, logger).BuildMonth(year, monthOf(month))
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar: %w", err)
	}

	result := &ValidateCalendarResult{
		Month:    month,
		Year:     year,
		Slots:    slots,
		Findings: calendar.ValidateOctober(slots),
	}
	for _, finding := range result.Findings {
		if finding.Severity == calendar.SeverityError {
			result.Errors++
		} else {
			result.Warnings++
		}
	}

	logger.Info("Calendar validated",
		zap.Int("slots", len(slots)),
		zap.Int("errors", result.Errors),
		zap.Int("warnings", result.Warnings))

	return result, nil
}
