package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GetQuestionnaireForPeriod retrieves the questionnaire covering (month, year).
// Returns (nil, nil) when no questionnaire exists for the period.
func (db *DB) GetQuestionnaireForPeriod(ctx context.Context, month, year int) (*Questionnaire, error) {
	var q Questionnaire
	err := db.pool.QueryRow(ctx, `
		SELECT id, month, year, status
		FROM questionnaires
		WHERE month = $1 AND year = $2
		LIMIT 1`, month, year).Scan(&q.ID, &q.Month, &q.Year, &q.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query questionnaire for %d/%d: %w", month, year, err)
	}

	return &q, nil
}

// GetQuestionnaireResponses retrieves all raw response payloads for a questionnaire
func (db *DB) GetQuestionnaireResponses(ctx context.Context, questionnaireID string) ([]QuestionnaireResponse, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT id, questionnaire_id, user_id, responses
		FROM questionnaire_responses
		WHERE questionnaire_id = $1 AND responses IS NOT NULL`, questionnaireID)
	if err != nil {
		return nil, fmt.Errorf("failed to query questionnaire responses: %w", err)
	}
	defer rows.Close()

	var responses []QuestionnaireResponse
	for rows.Next() {
		var r QuestionnaireResponse
		if err := rows.Scan(&r.ID, &r.QuestionnaireID, &r.MinisterID, &r.Responses); err != nil {
			return nil, fmt.Errorf("failed to scan response row: %w", err)
		}
		responses = append(responses, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read response rows: %w", err)
	}

	return responses, nil
}

// UpdateQuestionnaireResponse replaces one response's raw payload. Used by
// the response-migration tooling to rewrite legacy rows in the v2 format.
func (db *DB) UpdateQuestionnaireResponse(ctx context.Context, responseID string, payload []byte) error {
	tag, err := db.pool.Exec(ctx, `
		UPDATE questionnaire_responses
		SET responses = $2
		WHERE id = $1`, responseID, payload)
	if err != nil {
		return fmt.Errorf("failed to update response %s: %w", responseID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("response %s not found", responseID)
	}

	return nil
}
