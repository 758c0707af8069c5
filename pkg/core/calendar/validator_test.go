package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/psantana/sanctuary-scheduler/pkg/core/model"
)

func octoberSlot(date, timeStr string, massType model.MassType) model.MassSlot {
	parsed, _ := time.Parse("2006-01-02", date)
	return model.MassSlot{
		ID:        date + "_" + timeStr,
		Date:      parsed,
		Time:      timeStr,
		DayOfWeek: parsed.Weekday(),
		Type:      massType,
	}
}

func TestValidateOctoberAcceptsGeneratedCalendar(t *testing.T) {
	slots, err := NewBuilder(nil, nil, zap.NewNop()).BuildMonth(2025, time.October)
	require.NoError(t, err)
	assert.Empty(t, ValidateOctober(slots))
}

func TestValidateOctoberFlagsRegularSaturdayDaily(t *testing.T) {
	findings := ValidateOctober([]model.MassSlot{
		octoberSlot("2025-10-11", "06:30", model.MassDaily),
	})
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityError, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "regular October Saturday")
}

func TestValidateOctoberFlagsMorningMassDuringNovena(t *testing.T) {
	findings := ValidateOctober([]model.MassSlot{
		octoberSlot("2025-10-21", "06:30", model.MassDaily),
	})
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityError, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "novena window")
}

func TestValidateOctoberFlagsWrongNovenaTimes(t *testing.T) {
	// Saturday novena at the weekday time
	findings := ValidateOctober([]model.MassSlot{
		octoberSlot("2025-10-25", "19:30", model.MassStJudeNovena),
	})
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)

	// weekday novena at the Saturday time
	findings = ValidateOctober([]model.MassSlot{
		octoberSlot("2025-10-22", "19:00", model.MassStJudeNovena),
	})
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
}

func TestValidateOctoberFlagsIncompleteFeastDay(t *testing.T) {
	findings := ValidateOctober([]model.MassSlot{
		octoberSlot("2025-10-28", "07:00", model.MassStJudeFeast),
		octoberSlot("2025-10-28", "10:00", model.MassStJudeFeast),
	})
	require.Len(t, findings, 4)
	for _, finding := range findings {
		assert.Equal(t, SeverityError, finding.Severity)
		assert.Contains(t, finding.Message, "missing")
	}
}

func TestValidateOctoberIgnoresOtherMonths(t *testing.T) {
	findings := ValidateOctober([]model.MassSlot{
		octoberSlot("2025-03-15", "06:30", model.MassDaily),
	})
	assert.Empty(t, findings)
}
