package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/psantana/sanctuary-scheduler/internal/config"
	"github.com/psantana/sanctuary-scheduler/pkg/core/assigner"
	"github.com/psantana/sanctuary-scheduler/pkg/core/availability"
	"github.com/psantana/sanctuary-scheduler/pkg/core/calendar"
	"github.com/psantana/sanctuary-scheduler/pkg/core/family"
	"github.com/psantana/sanctuary-scheduler/pkg/core/model"
	"github.com/psantana/sanctuary-scheduler/pkg/core/saints"
	"github.com/psantana/sanctuary-scheduler/pkg/db"
)

// GenerationStats summarizes one generation run
type GenerationStats struct {
	TotalSlots         int
	FilledSlots        int
	UnderfilledSlots   int
	VacantPositions    int
	TotalAssignments   int
	MinistersUsed      int
	ZeroAssignmentRate float64
	AverageConfidence  float64
}

// GenerateScheduleResult contains the generated month
type GenerateScheduleResult struct {
	Month     int
	Year      int
	Preview   bool
	Schedules []model.GeneratedSchedule
	Stats     GenerationStats
	Findings  []calendar.Finding
}

// GenerateScheduleStore defines the database operations needed to generate
// a schedule
type GenerateScheduleStore interface {
	GetActiveMinisters(ctx context.Context) ([]db.Minister, error)
	GetFamilies(ctx context.Context, ids []string) ([]db.Family, error)
	GetMassTimeConfig(ctx context.Context) ([]db.MassTimeConfig, error)
	GetQuestionnaireForPeriod(ctx context.Context, month, year int) (*db.Questionnaire, error)
	GetQuestionnaireResponses(ctx context.Context, questionnaireID string) ([]db.QuestionnaireResponse, error)
	GetSaintsByFeastDay(ctx context.Context) (map[string][]db.Saint, error)
}

// GenerateSchedule builds the full mass calendar for (month, year) and
// assigns ministers to every slot. In preview mode a missing questionnaire
// degrades to an availability-free run; in final mode it is an error.
// Nothing is persisted; PublishSchedule saves an accepted result.
func GenerateSchedule(
	ctx context.Context,
	database GenerateScheduleStore,
	cfg *config.Config,
	logger *zap.Logger,
	month, year int,
	preview bool,
) (*GenerateScheduleResult, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	logger.Debug("Starting generateSchedule",
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Bool("preview", preview))

	// Step 1: DB queries - ministers, families, mass-time config
	logger.Debug("Fetching active ministers")
	ministerRows, err := database.GetActiveMinisters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ministers: %w", err)
	}
	logger.Debug("Found ministers", zap.Int("count", len(ministerRows)))

	if len(ministerRows) == 0 {
		return nil, fmt.Errorf("no active ministers found - nothing to schedule")
	}
	ministers := toCoreMinisters(ministerRows)

	familyRows, err := database.GetFamilies(ctx, familyIDsOf(ministers))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch families: %w", err)
	}
	groups := family.Resolve(ministers, toFamilyInfos(familyRows), logger)
	logger.Debug("Resolved family groups", zap.Int("count", len(groups)))

	massTimes, err := database.GetMassTimeConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mass time config: %w", err)
	}
	if len(massTimes) == 0 {
		return nil, fmt.Errorf("no active mass time configuration found - configure mass times first")
	}

	// Step 2: Build the month's calendar
	extras, err := toExtraMasses(cfg.ExtraMasses)
	if err != nil {
		return nil, err
	}
	slots, err := calendar.NewBuilder(toTimeConfigs(massTimes), extras, logger).BuildMonth(year, monthOf(month))
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar: %w", err)
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("calendar produced no mass slots for %d/%d", month, year)
	}
	logger.Debug("Built calendar", zap.Int("slots", len(slots)))

	findings := calendar.ValidateOctober(slots)
	for _, finding := range findings {
		logger.Warn("Calendar rule violation",
			zap.String("severity", string(finding.Severity)),
			zap.String("time", finding.Time),
			zap.String("message", finding.Message))
	}

	// Step 3: Load and normalize availability
	records, err := loadAvailability(ctx, database, logger, month, year, preview)
	if err != nil {
		return nil, err
	}

	// Step 4: Saints calendar for name bonuses. Losing it disables the bonus
	// for the run but does not stop generation.
	saintsByDay, err := database.GetSaintsByFeastDay(ctx)
	if err != nil {
		logger.Warn("Saints calendar unavailable, name bonuses disabled for this run", zap.Error(err))
		saintsByDay = map[string][]db.Saint{}
	}

	// Step 5: Run the assignment engine
	engine := assigner.New(ministers, records, groups,
		saints.NewCache(toSaintsCalendar(saintsByDay)),
		assigner.Options{Preview: preview}, logger)
	schedules := engine.Run(slots)

	result := &GenerateScheduleResult{
		Month:     month,
		Year:      year,
		Preview:   preview,
		Schedules: schedules,
		Stats:     computeStats(ministers, schedules),
		Findings:  findings,
	}

	logger.Info("Schedule generated",
		zap.Int("slots", result.Stats.TotalSlots),
		zap.Int("filled", result.Stats.FilledSlots),
		zap.Int("underfilled", result.Stats.UnderfilledSlots),
		zap.Int("ministers_used", result.Stats.MinistersUsed),
		zap.Float64("zero_assignment_rate", result.Stats.ZeroAssignmentRate),
		zap.Float64("avg_confidence", result.Stats.AverageConfidence))

	return result, nil
}

// loadAvailability fetches and normalizes the period's questionnaire
// responses. Ministers who did not respond get no record and are treated as
// unavailable by the engine.
func loadAvailability(
	ctx context.Context,
	database GenerateScheduleStore,
	logger *zap.Logger,
	month, year int,
	preview bool,
) (map[string]model.AvailabilityRecord, error) {
	questionnaire, err := database.GetQuestionnaireForPeriod(ctx, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch questionnaire: %w", err)
	}

	if questionnaire == nil {
		if !preview {
			return nil, fmt.Errorf("no questionnaire found for %d/%d - run with preview to inspect a hypothetical schedule", month, year)
		}
		logger.Warn("No questionnaire for period, preview will assume availability",
			zap.Int("month", month),
			zap.Int("year", year))
		return map[string]model.AvailabilityRecord{}, nil
	}

	if !preview && questionnaire.Status != "closed" {
		return nil, fmt.Errorf("questionnaire for %d/%d is %q, close it before generating a final schedule", month, year, questionnaire.Status)
	}

	responses, err := database.GetQuestionnaireResponses(ctx, questionnaire.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch questionnaire responses: %w", err)
	}
	if !preview && len(responses) == 0 {
		return nil, fmt.Errorf("questionnaire for %d/%d has no responses", month, year)
	}
	logger.Debug("Found questionnaire responses",
		zap.String("questionnaire_id", questionnaire.ID),
		zap.Int("count", len(responses)))

	records := make(map[string]model.AvailabilityRecord, len(responses))
	for _, response := range responses {
		records[response.MinisterID] = availability.Normalize(
			response.MinisterID, response.Responses, month, year, logger)
	}
	return records, nil
}

func computeStats(ministers []model.Minister, schedules []model.GeneratedSchedule) GenerationStats {
	stats := GenerationStats{TotalSlots: len(schedules)}

	perMinister := make(map[string]int)
	confidenceSum := 0.0
	for _, schedule := range schedules {
		if schedule.Filled() {
			stats.FilledSlots++
		} else {
			stats.UnderfilledSlots++
			stats.VacantPositions += schedule.Slot.MinMinisters - len(schedule.Assignments)
		}
		stats.TotalAssignments += len(schedule.Assignments)
		for _, assignment := range schedule.Assignments {
			perMinister[assignment.Minister.ID]++
		}
		confidenceSum += schedule.Confidence
	}

	stats.MinistersUsed = len(perMinister)
	schedulable := 0
	for _, minister := range ministers {
		if minister.Role.Schedulable() {
			schedulable++
		}
	}
	if schedulable > 0 {
		stats.ZeroAssignmentRate = float64(schedulable-stats.MinistersUsed) / float64(schedulable)
	}
	if len(schedules) > 0 {
		stats.AverageConfidence = confidenceSum / float64(len(schedules))
	}
	return stats
}
