package assigner

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/psantana/sanctuary-scheduler/pkg/core/model"
	"github.com/psantana/sanctuary-scheduler/pkg/core/saints"
)

func sundaySlot(date string, timeStr string, min, max int) model.MassSlot {
	parsed, _ := time.Parse("2006-01-02", date)
	return model.MassSlot{
		ID:           date + "_" + timeStr,
		Date:         parsed,
		Time:         timeStr,
		DayOfWeek:    parsed.Weekday(),
		Type:         model.MassSunday,
		MinMinisters: min,
		MaxMinisters: max,
	}
}

func minister(id string) model.Minister {
	return model.Minister{ID: id, Name: "Minister " + id, Role: model.RoleMinister}
}

// availableEverySunday marks the minister available for any Sunday slot in
// October 2025
func availableEverySunday(ministerID string) model.AvailabilityRecord {
	record := model.EmptyAvailability(ministerID)
	for _, day := range []int{5, 12, 19, 26} {
		record.Sundays[fmt.Sprintf("2025-10-%02d", day)] = true
	}
	return record
}

func newTestEngine(ministers []model.Minister, records map[string]model.AvailabilityRecord, groups []model.FamilyGroup, opts Options) *Engine {
	return New(ministers, records, groups, saints.NewCache(saints.Calendar{}), opts, zap.NewNop())
}

func TestRunPrefersLeastServedMinisters(t *testing.T) {
	served := time.Date(2025, 9, 14, 0, 0, 0, 0, time.UTC)
	ministers := []model.Minister{
		{ID: "m1", Role: model.RoleMinister, TotalServices: 30, LastService: &served},
		{ID: "m2", Role: model.RoleMinister, TotalServices: 2},
		{ID: "m3", Role: model.RoleMinister, TotalServices: 10, LastService: &served},
	}
	records := map[string]model.AvailabilityRecord{
		"m1": availableEverySunday("m1"),
		"m2": availableEverySunday("m2"),
		"m3": availableEverySunday("m3"),
	}

	engine := newTestEngine(ministers, records, nil, Options{})
	schedules := engine.Run([]model.MassSlot{sundaySlot("2025-10-05", "10:00", 2, 3)})

	require.Len(t, schedules, 1)
	require.Len(t, schedules[0].Assignments, 2)
	// m2 never served so sorts to the zero time; m3 ties with m1 on last
	// service but has fewer lifetime services
	assert.Equal(t, "m2", schedules[0].Assignments[0].Minister.ID)
	assert.Equal(t, "m3", schedules[0].Assignments[1].Minister.ID)
	assert.Equal(t, 1, schedules[0].Assignments[0].Position)
	assert.Equal(t, 2, schedules[0].Assignments[1].Position)
}

func TestRunNeverDoubleBooksSameDay(t *testing.T) {
	ministers := []model.Minister{minister("m1")}
	records := map[string]model.AvailabilityRecord{"m1": availableEverySunday("m1")}

	engine := newTestEngine(ministers, records, nil, Options{})
	schedules := engine.Run([]model.MassSlot{
		sundaySlot("2025-10-05", "08:00", 1, 2),
		sundaySlot("2025-10-05", "10:00", 1, 2),
		sundaySlot("2025-10-12", "10:00", 1, 2),
	})

	require.Len(t, schedules[0].Assignments, 1)
	assert.Empty(t, schedules[1].Assignments, "same-day second slot must stay vacant")
	require.Len(t, schedules[2].Assignments, 1)
}

func TestRunEnforcesMonthlyCap(t *testing.T) {
	ministers := []model.Minister{minister("m1")}
	records := map[string]model.AvailabilityRecord{"m1": availableEverySunday("m1")}

	slots := []model.MassSlot{
		sundaySlot("2025-10-05", "10:00", 1, 2),
		sundaySlot("2025-10-12", "10:00", 1, 2),
		sundaySlot("2025-10-19", "10:00", 1, 2),
		sundaySlot("2025-10-26", "10:00", 1, 2),
	}
	engine := newTestEngine(ministers, records, nil, Options{})
	schedules := engine.Run(slots)

	for _, schedule := range schedules {
		require.Len(t, schedule.Assignments, 1)
	}

	// the cap is now reached; a new engine run confirms indirectly through
	// cappedCount
	assert.Equal(t, monthlyCap, engine.ledger.cappedCount("m1"))

	fifth := engine.scheduleSlot(sundaySlot("2025-11-02", "10:00", 1, 2))
	assert.Empty(t, fifth.Assignments)
}

func TestRunDailyMassesExemptFromCap(t *testing.T) {
	record := model.EmptyAvailability("m1")
	record.Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}

	ministers := []model.Minister{minister("m1")}
	engine := newTestEngine(ministers, map[string]model.AvailabilityRecord{"m1": record}, nil, Options{})

	var slots []model.MassSlot
	for day := 6; day <= 17; day++ { // two full working weeks of October 2025
		date := time.Date(2025, 10, day, 0, 0, 0, 0, time.UTC)
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			continue
		}
		slots = append(slots, model.MassSlot{
			ID:           date.Format("2006-01-02") + "_06:30",
			Date:         date,
			Time:         "06:30",
			DayOfWeek:    date.Weekday(),
			Type:         model.MassDaily,
			MinMinisters: 1,
			MaxMinisters: 1,
		})
	}
	require.Len(t, slots, 10)

	schedules := engine.Run(slots)
	for _, schedule := range schedules {
		assert.Len(t, schedule.Assignments, 1)
	}
	assert.Equal(t, 10, engine.ledger.monthlyCount("m1"))
	assert.Zero(t, engine.ledger.cappedCount("m1"))
}

func TestRunAssignsFamiliesTogether(t *testing.T) {
	ministers := []model.Minister{
		withFamily(minister("m1"), "f1"),
		withFamily(minister("m2"), "f1"),
		minister("m3"),
		minister("m4"),
	}
	records := map[string]model.AvailabilityRecord{
		"m1": availableEverySunday("m1"),
		"m2": availableEverySunday("m2"),
		"m3": availableEverySunday("m3"),
		"m4": availableEverySunday("m4"),
	}
	groups := []model.FamilyGroup{
		{ID: "f1", MemberIDs: []string{"m1", "m2"}, PreferServeTogether: true},
	}

	engine := newTestEngine(ministers, records, groups, Options{})
	schedules := engine.Run([]model.MassSlot{sundaySlot("2025-10-05", "10:00", 3, 4)})

	require.Len(t, schedules[0].Assignments, 3)
	assert.Equal(t, "m1", schedules[0].Assignments[0].Minister.ID)
	assert.Equal(t, "m2", schedules[0].Assignments[1].Minister.ID)
	assert.Equal(t, "m3", schedules[0].Assignments[2].Minister.ID)
}

func TestRunFamilyMemberServesAloneWhenRelativeUnavailable(t *testing.T) {
	ministers := []model.Minister{
		withFamily(minister("m1"), "f1"),
		withFamily(minister("m2"), "f1"),
		minister("m3"),
	}
	// m2 returned no questionnaire
	records := map[string]model.AvailabilityRecord{
		"m1": availableEverySunday("m1"),
		"m3": availableEverySunday("m3"),
	}
	groups := []model.FamilyGroup{
		{ID: "f1", MemberIDs: []string{"m1", "m2"}, PreferServeTogether: true},
	}

	engine := newTestEngine(ministers, records, groups, Options{})
	slots := []model.MassSlot{
		sundaySlot("2025-10-05", "10:00", 2, 4),
		sundaySlot("2025-10-12", "10:00", 2, 4),
		sundaySlot("2025-10-19", "10:00", 2, 4),
		sundaySlot("2025-10-26", "10:00", 2, 4),
	}
	schedules := engine.Run(slots)

	// the family is processed with only m1 available, so m1 serves alone
	// instead of sitting the month out
	require.Len(t, schedules[0].Assignments, 2)
	assert.Equal(t, "m1", schedules[0].Assignments[0].Minister.ID)
	assert.Equal(t, "m3", schedules[0].Assignments[1].Minister.ID)
	assert.Positive(t, engine.ledger.monthlyCount("m1"))
}

func TestRunTreatsNonTogetherFamilyAsIndividuals(t *testing.T) {
	ministers := []model.Minister{
		withFamily(minister("m1"), "f1"),
		withFamily(minister("m2"), "f1"),
	}
	records := map[string]model.AvailabilityRecord{
		"m1": availableEverySunday("m1"),
	}
	groups := []model.FamilyGroup{
		{ID: "f1", MemberIDs: []string{"m1", "m2"}, PreferServeTogether: false},
	}

	engine := newTestEngine(ministers, records, groups, Options{})
	schedules := engine.Run([]model.MassSlot{sundaySlot("2025-10-05", "10:00", 1, 2)})

	require.Len(t, schedules[0].Assignments, 1)
	assert.Equal(t, "m1", schedules[0].Assignments[0].Minister.ID)
}

func TestRunFamilyPlacementBoundedBySlotMaximum(t *testing.T) {
	ministers := []model.Minister{
		withFamily(minister("m1"), "f1"),
		withFamily(minister("m2"), "f1"),
		withFamily(minister("m3"), "f1"),
		minister("m4"),
	}
	records := map[string]model.AvailabilityRecord{}
	for _, m := range ministers {
		records[m.ID] = availableEverySunday(m.ID)
	}
	groups := []model.FamilyGroup{
		{ID: "f1", MemberIDs: []string{"m1", "m2", "m3"}, PreferServeTogether: true},
	}

	engine := newTestEngine(ministers, records, groups, Options{})
	schedules := engine.Run([]model.MassSlot{sundaySlot("2025-10-05", "10:00", 1, 2)})

	// the family fills up to the slot maximum; m3 does not fit
	require.Len(t, schedules[0].Assignments, 2)
	assert.Equal(t, "m1", schedules[0].Assignments[0].Minister.ID)
	assert.Equal(t, "m2", schedules[0].Assignments[1].Minister.ID)
}

func TestRunPicksBackups(t *testing.T) {
	ministers := []model.Minister{
		minister("m1"), minister("m2"), minister("m3"), minister("m4"), minister("m5"),
	}
	records := map[string]model.AvailabilityRecord{}
	for _, m := range ministers {
		record := availableEverySunday(m.ID)
		record.CanSubstitute = m.ID != "m5"
		if m.ID == "m4" {
			record.PreferredTimes = []string{"10:00"}
		}
		records[m.ID] = record
	}

	engine := newTestEngine(ministers, records, nil, Options{})
	schedules := engine.Run([]model.MassSlot{sundaySlot("2025-10-05", "10:00", 2, 3)})

	require.Len(t, schedules[0].Assignments, 2)
	backups := schedules[0].BackupMinisters
	require.Len(t, backups, 2)
	// m4's preferred time puts it first; m3's substitute offer outranks m5
	assert.Equal(t, "m4", backups[0].ID)
	assert.Equal(t, "m3", backups[1].ID)
}

func TestRunBackupsDoNotRequireSubstituteOffer(t *testing.T) {
	ministers := []model.Minister{minister("m1"), minister("m2"), minister("m3")}
	records := map[string]model.AvailabilityRecord{}
	for _, m := range ministers {
		records[m.ID] = availableEverySunday(m.ID) // nobody offers to substitute
	}

	engine := newTestEngine(ministers, records, nil, Options{})
	schedules := engine.Run([]model.MassSlot{sundaySlot("2025-10-05", "10:00", 2, 2)})

	require.Len(t, schedules[0].Assignments, 2)
	require.Len(t, schedules[0].BackupMinisters, 1)
	assert.Equal(t, "m3", schedules[0].BackupMinisters[0].ID)
}

func TestRunAnnotatesUnderfilledSlots(t *testing.T) {
	ministers := []model.Minister{minister("m1")}
	records := map[string]model.AvailabilityRecord{"m1": availableEverySunday("m1")}

	engine := newTestEngine(ministers, records, nil, Options{})
	schedules := engine.Run([]model.MassSlot{sundaySlot("2025-10-05", "10:00", 5, 8)})

	require.Len(t, schedules[0].Assignments, 1)
	assignment := schedules[0].Assignments[0]
	assert.True(t, assignment.ScheduleIncomplete)
	assert.Equal(t, 5, assignment.RequiredCount)
	assert.Equal(t, 1, assignment.ActualCount)
	assert.False(t, schedules[0].Filled())
	assert.LessOrEqual(t, schedules[0].Confidence, underfilledCap)
}

func TestRunConfidenceBounds(t *testing.T) {
	ministers := []model.Minister{minister("m1"), minister("m2"), minister("m3")}
	records := map[string]model.AvailabilityRecord{}
	for _, m := range ministers {
		record := availableEverySunday(m.ID)
		record.CanSubstitute = true
		record.PreferredTimes = []string{"10:00"}
		records[m.ID] = record
	}

	engine := newTestEngine(ministers, records, nil, Options{})
	schedules := engine.Run([]model.MassSlot{
		sundaySlot("2025-10-05", "10:00", 1, 2),
		sundaySlot("2025-10-12", "07:00", 10, 12),
	})

	filled := schedules[0]
	assert.True(t, filled.Filled())
	assert.GreaterOrEqual(t, filled.Confidence, filledBase)
	assert.LessOrEqual(t, filled.Confidence, 1.0)

	empty := engine.scheduleSlot(sundaySlot("2025-11-02", "23:00", 2, 3))
	assert.Empty(t, empty.Assignments)
	assert.Zero(t, empty.Confidence)
}

func TestRunIgnoresNonSchedulableRoles(t *testing.T) {
	ministers := []model.Minister{
		{ID: "c1", Role: model.RoleCoordinator},
		{ID: "g1", Role: model.RoleManager},
		minister("m1"),
	}
	records := map[string]model.AvailabilityRecord{
		"c1": availableEverySunday("c1"),
		"g1": availableEverySunday("g1"),
		"m1": availableEverySunday("m1"),
	}

	engine := newTestEngine(ministers, records, nil, Options{})
	schedules := engine.Run([]model.MassSlot{sundaySlot("2025-10-05", "10:00", 2, 3)})

	require.Len(t, schedules[0].Assignments, 1)
	assert.Equal(t, "m1", schedules[0].Assignments[0].Minister.ID)
}

func TestRunPreviewAssumesAvailabilityOnlyWhenDatasetEmpty(t *testing.T) {
	ministers := []model.Minister{minister("m1"), minister("m2")}

	// no questionnaire data at all: preview treats everyone as available
	engine := newTestEngine(ministers, map[string]model.AvailabilityRecord{}, nil, Options{Preview: true})
	schedules := engine.Run([]model.MassSlot{sundaySlot("2025-10-05", "10:00", 2, 3)})
	assert.Len(t, schedules[0].Assignments, 2)

	// with any data present, preview applies the same availability rules
	records := map[string]model.AvailabilityRecord{"m1": availableEverySunday("m1")}
	engine = newTestEngine(ministers, records, nil, Options{Preview: true})
	schedules = engine.Run([]model.MassSlot{sundaySlot("2025-10-05", "10:00", 2, 3)})
	require.Len(t, schedules[0].Assignments, 1)
	assert.Equal(t, "m1", schedules[0].Assignments[0].Minister.ID)

	// final mode never assumes availability
	engine = newTestEngine(ministers, map[string]model.AvailabilityRecord{}, nil, Options{})
	schedules = engine.Run([]model.MassSlot{sundaySlot("2025-10-05", "10:00", 2, 3)})
	assert.Empty(t, schedules[0].Assignments)
}

func TestRunSaintNameBonusBreaksFairnessTies(t *testing.T) {
	calendar := saints.Calendar{
		"10-28": {{Name: "São Judas Tadeu", Rank: "SOLEMNITY"}},
	}
	ministers := []model.Minister{
		{ID: "m1", Name: "Carlos Pereira", Role: model.RoleMinister},
		{ID: "m2", Name: "Judas Tadeu", Role: model.RoleMinister},
	}
	feast := model.EmptyAvailability("")
	records := map[string]model.AvailabilityRecord{}
	for _, m := range ministers {
		record := feast
		record.MinisterID = m.ID
		record.SpecialEvents = map[string]any{
			"saint_judas_feast": map[string]bool{"2025-10-28_10:00": true},
		}
		records[m.ID] = record
	}

	slot := sundaySlot("2025-10-28", "10:00", 1, 2)
	slot.Type = model.MassStJudeFeast

	engine := New(ministers, records, nil, saints.NewCache(calendar), Options{}, zap.NewNop())
	schedules := engine.Run([]model.MassSlot{slot})

	require.Len(t, schedules[0].Assignments, 1)
	assert.Equal(t, "m2", schedules[0].Assignments[0].Minister.ID)
}

func TestConfidenceBackupPreferenceAndServiceSpread(t *testing.T) {
	backup := minister("b1")
	backupRecord := model.EmptyAvailability("b1")
	backupRecord.PreferredTimes = []string{"10:00"}
	engine := newTestEngine([]model.Minister{backup},
		map[string]model.AvailabilityRecord{"b1": backupRecord}, nil, Options{})

	slot := sundaySlot("2025-10-05", "10:00", 2, 3)
	even := model.GeneratedSchedule{
		Slot: slot,
		Assignments: []model.Assignment{
			{Minister: model.Minister{ID: "m1"}, Position: 1},
			{Minister: model.Minister{ID: "m2"}, Position: 2},
		},
	}

	// filled, even service spread, no backups: 0.6 base + 0.15 balance
	assert.InDelta(t, 0.75, engine.confidence(even), 0.001)

	// a backup on its preferred time adds the full backup term
	withBackup := even
	withBackup.BackupMinisters = []model.Minister{backup}
	assert.InDelta(t, 1.0, engine.confidence(withBackup), 0.001)

	// a wide spread of lifetime service counts erodes the balance term
	uneven := even
	uneven.Assignments = []model.Assignment{
		{Minister: model.Minister{ID: "m1"}, Position: 1},
		{Minister: model.Minister{ID: "m2", TotalServices: 40}, Position: 2},
	}
	assert.InDelta(t, filledBase, engine.confidence(uneven), 0.001)
}

func TestRunFairnessOutranksSaintBonus(t *testing.T) {
	calendar := saints.Calendar{
		"10-28": {{Name: "São Judas Tadeu", Rank: "SOLEMNITY"}},
	}
	ministers := []model.Minister{
		{ID: "m1", Name: "Judas Tadeu", Role: model.RoleMinister, TotalServices: 12},
		{ID: "m2", Name: "Carlos Pereira", Role: model.RoleMinister},
	}
	records := map[string]model.AvailabilityRecord{}
	for _, m := range ministers {
		record := model.EmptyAvailability(m.ID)
		record.SpecialEvents = map[string]any{
			"saint_judas_feast": map[string]bool{"2025-10-28_10:00": true},
		}
		records[m.ID] = record
	}

	slot := sundaySlot("2025-10-28", "10:00", 1, 2)
	slot.Type = model.MassStJudeFeast

	engine := New(ministers, records, nil, saints.NewCache(calendar), Options{}, zap.NewNop())
	schedules := engine.Run([]model.MassSlot{slot})

	// m1 carries the feast-day name but has served far more; the lighter
	// record wins, the bonus only settles exact ties
	require.Len(t, schedules[0].Assignments, 1)
	assert.Equal(t, "m2", schedules[0].Assignments[0].Minister.ID)
}

func withFamily(m model.Minister, familyID string) model.Minister {
	m.FamilyID = familyID
	return m
}
