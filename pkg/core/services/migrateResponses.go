package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/psantana/sanctuary-scheduler/pkg/core/availability"
	"github.com/psantana/sanctuary-scheduler/pkg/db"
)

// MigrateResponsesResult summarizes one migration run
type MigrateResponsesResult struct {
	Total     int
	Migrated  int
	AlreadyV2 int
	Skipped   int
	DryRun    bool
}

// MigrateResponsesStore defines the database operations needed to migrate
// questionnaire responses
type MigrateResponsesStore interface {
	GetQuestionnaireForPeriod(ctx context.Context, month, year int) (*db.Questionnaire, error)
	GetQuestionnaireResponses(ctx context.Context, questionnaireID string) ([]db.QuestionnaireResponse, error)
	UpdateQuestionnaireResponse(ctx context.Context, responseID string, payload []byte) error
}

// MigrateResponses rewrites a period's legacy questionnaire responses in the
// v2 format. Normalization is idempotent over the rewritten payloads, so
// re-running a migration is harmless. Unparseable rows are left untouched.
func MigrateResponses(
	ctx context.Context,
	database MigrateResponsesStore,
	logger *zap.Logger,
	month, year int,
	dryRun bool,
) (*MigrateResponsesResult, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	questionnaire, err := database.GetQuestionnaireForPeriod(ctx, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch questionnaire: %w", err)
	}
	if questionnaire == nil {
		return nil, fmt.Errorf("no questionnaire found for %d/%d", month, year)
	}

	responses, err := database.GetQuestionnaireResponses(ctx, questionnaire.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch questionnaire responses: %w", err)
	}

	result := &MigrateResponsesResult{Total: len(responses), DryRun: dryRun}

	for _, response := range responses {
		decoded, err := availability.DecodePayload(response.Responses)
		if err != nil {
			logger.Warn("Skipping unparseable response",
				zap.String("response_id", response.ID),
				zap.Error(err))
			result.Skipped++
			continue
		}
		if availability.DetectFormat(decoded) == availability.FormatV2 {
			result.AlreadyV2++
			continue
		}

		record := availability.Normalize(response.MinisterID, response.Responses, month, year, logger)
		payload, err := availability.EncodeV2(record)
		if err != nil {
			return nil, fmt.Errorf("failed to encode response %s: %w", response.ID, err)
		}

		if !dryRun {
			if err := database.UpdateQuestionnaireResponse(ctx, response.ID, payload); err != nil {
				return nil, err
			}
		}
		result.Migrated++
		logger.Debug("Migrated response",
			zap.String("response_id", response.ID),
			zap.String("minister_id", response.MinisterID),
			zap.Bool("dry_run", dryRun))
	}

	logger.Info("Response migration finished",
		zap.Int("total", result.Total),
		zap.Int("migrated", result.Migrated),
		zap.Int("already_v2", result.AlreadyV2),
		zap.Int("skipped", result.Skipped),
		zap.Bool("dry_run", dryRun))

	return result, nil
}
