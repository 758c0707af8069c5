package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/psantana/sanctuary-scheduler/pkg/core/availability"
	"github.com/psantana/sanctuary-scheduler/pkg/db"
)

// mockMigrateStore implements MigrateResponsesStore for testing
type mockMigrateStore struct {
	questionnaire *db.Questionnaire
	responses     []db.QuestionnaireResponse
	updates       map[string][]byte
}

func (m *mockMigrateStore) GetQuestionnaireForPeriod(ctx context.Context, month, year int) (*db.Questionnaire, error) {
	return m.questionnaire, nil
}

func (m *mockMigrateStore) GetQuestionnaireResponses(ctx context.Context, questionnaireID string) ([]db.QuestionnaireResponse, error) {
	return m.responses, nil
}

func (m *mockMigrateStore) UpdateQuestionnaireResponse(ctx context.Context, responseID string, payload []byte) error {
	if m.updates == nil {
		m.updates = make(map[string][]byte)
	}
	m.updates[responseID] = payload
	return nil
}

func TestMigrateResponsesRewritesLegacyRows(t *testing.T) {
	store := &mockMigrateStore{
		questionnaire: &db.Questionnaire{ID: "q1", Month: 10, Year: 2025},
		responses: []db.QuestionnaireResponse{
			{
				ID:         "r1",
				MinisterID: "m1",
				Responses:  []byte(`[{"questionId": "available_sundays", "answer": ["Domingo 05/10"]}]`),
			},
			{
				ID:         "r2",
				MinisterID: "m2",
				Responses:  []byte(`{"format_version": "2.0", "masses": {}}`),
			},
			{
				ID:         "r3",
				MinisterID: "m3",
				Responses:  []byte(`{{{not json`),
			},
		},
	}

	result, err := MigrateResponses(context.Background(), store, zap.NewNop(), 10, 2025, false)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.Migrated)
	assert.Equal(t, 1, result.AlreadyV2)
	assert.Equal(t, 1, result.Skipped)

	require.Contains(t, store.updates, "r1")
	assert.NotContains(t, store.updates, "r2")
	assert.NotContains(t, store.updates, "r3")

	// the rewritten payload still means the same availability
	record := availability.Normalize("m1", store.updates["r1"], 10, 2025, zap.NewNop())
	assert.True(t, availability.MatchesSunday(record, "2025-10-05", "10:00"))
}

func TestMigrateResponsesDryRun(t *testing.T) {
	store := &mockMigrateStore{
		questionnaire: &db.Questionnaire{ID: "q1"},
		responses: []db.QuestionnaireResponse{
			{ID: "r1", MinisterID: "m1", Responses: []byte(`[{"questionId": "can_substitute", "answer": "Sim"}]`)},
		},
	}

	result, err := MigrateResponses(context.Background(), store, zap.NewNop(), 10, 2025, true)
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Migrated)
	assert.Empty(t, store.updates)
}

func TestMigrateResponsesRequiresQuestionnaire(t *testing.T) {
	_, err := MigrateResponses(context.Background(), &mockMigrateStore{}, zap.NewNop(), 10, 2025, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no questionnaire")
}
