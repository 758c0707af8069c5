package model

import "time"

type Role string

const (
	RoleMinister    Role = "ministro"
	RoleCoordinator Role = "coordenador"
	RoleManager     Role = "gestor"
)

func (r Role) IsValid() bool {
	return r == RoleMinister || r == RoleCoordinator || r == RoleManager
}

// Schedulable reports whether users with this role may be assigned to masses.
// Coordinators and managers run the schedule; they are never on it.
func (r Role) Schedulable() bool {
	return r == RoleMinister
}

// MassType identifies the liturgical kind of a slot. Types carry an integer
// priority used by the calendar conflict-resolution pass: when two slots share
// a (date, time) pair, the higher-priority type survives.
type MassType string

const (
	MassDaily           MassType = "missa_diaria"
	MassSunday          MassType = "missa_dominical"
	MassHealing         MassType = "cura_libertacao"
	MassSacredHeart     MassType = "sagrado_coracao"
	MassImmaculateHeart MassType = "imaculado_coracao"
	MassStJudeNovena    MassType = "novena_sao_judas"
	MassStJudeFeast     MassType = "festa_sao_judas"
	MassStJudeWeekday   MassType = "sao_judas_semana"
	MassStJudeSaturday  MassType = "sao_judas_sabado"
	MassStJudeSunday    MassType = "sao_judas_domingo"
)

// typePriority ranks mass types for conflict resolution. Higher wins.
var typePriority = map[MassType]int{
	MassStJudeFeast:     70,
	MassStJudeNovena:    60,
	MassStJudeWeekday:   55,
	MassStJudeSaturday:  55,
	MassStJudeSunday:    55,
	MassHealing:         40,
	MassSacredHeart:     30,
	MassImmaculateHeart: 20,
	MassSunday:          10,
	MassDaily:           0,
}

// Priority returns the conflict-resolution rank of the type. Unknown types
// rank below daily masses.
func (t MassType) Priority() int {
	p, ok := typePriority[t]
	if !ok {
		return -1
	}
	return p
}

// IsStJude reports whether the type is one of the St. Jude variants
// (novena, feast, or a day-28 set).
func (t MassType) IsStJude() bool {
	switch t {
	case MassStJudeNovena, MassStJudeFeast, MassStJudeWeekday, MassStJudeSaturday, MassStJudeSunday:
		return true
	}
	return false
}

// IsDaily reports whether assignments to this type are exempt from the
// monthly cap.
func (t MassType) IsDaily() bool {
	return t == MassDaily
}

// Minister represents an active parish minister eligible for assignment
type Minister struct {
	ID               string
	Name             string
	Role             Role
	TotalServices    int
	LastService      *time.Time
	PreferredTimes   []string
	CanServeAsCouple bool
	SpouseMinisterID string // empty if none
	FamilyID         string // empty if none
}

// MassSlot is one required serving opportunity
type MassSlot struct {
	ID           string
	Date         time.Time
	Time         string // "15:04"
	DayOfWeek    time.Weekday
	Type         MassType
	MinMinisters int
	MaxMinisters int
}

// DateString returns the slot date as an ISO date string
func (s MassSlot) DateString() string {
	return s.Date.Format("2006-01-02")
}

// Key returns the (date, time) identity of the slot
func (s MassSlot) Key() string {
	return s.DateString() + "_" + s.Time
}

// FamilyGroup is a set of ministers sharing a family id
type FamilyGroup struct {
	ID                  string
	Name                string
	MemberIDs           []string
	PreferServeTogether bool
}

// AvailabilityRecord is the canonical, normalized availability of one
// minister for one questionnaire period. Always produced by the availability
// normalizer; unknown payload shapes yield the zero-availability record.
type AvailabilityRecord struct {
	MinisterID string

	// Sundays maps slot keys to availability. Keys may be "date time"
	// ("2025-10-05 10:00") or date-only ("2025-10-05"), tolerant of the
	// legacy encodings the matcher understands.
	Sundays map[string]bool

	// PreferredTimes holds mass times ranked by response frequency,
	// normalized to HH:MM.
	PreferredTimes   []string
	AlternativeTimes []string

	// Weekdays lists lowercase English weekday names available for the
	// daily mass ("monday".."friday").
	Weekdays []string

	// WeekdaySlots optionally lists exact per-date weekday availabilities
	// ("2025-10-14 06:30"); an exact hit short-circuits the weekday check.
	WeekdaySlots []string

	// SpecialEvents maps event question keys to their raw normalized
	// answers: bool for yes/no events, []string for the novena date list,
	// map[string]bool for the feast time grid.
	SpecialEvents map[string]any

	CanSubstitute bool
}

// EmptyAvailability returns the degraded no-availability record for a minister
func EmptyAvailability(ministerID string) AvailabilityRecord {
	return AvailabilityRecord{
		MinisterID:    ministerID,
		Sundays:       map[string]bool{},
		SpecialEvents: map[string]any{},
	}
}

// Assignment tags one selected minister with a 1-based slot position
type Assignment struct {
	Minister Minister
	Position int

	// Under-fill annotations; set on every assignment of an incomplete slot
	ScheduleIncomplete bool
	RequiredCount      int
	ActualCount        int
}

// GeneratedSchedule is the output unit for one slot
type GeneratedSchedule struct {
	Slot            MassSlot
	Assignments     []Assignment
	BackupMinisters []Minister // ordered, up to 2
	Confidence      float64    // [0, 1]
}

// Filled reports whether the slot reached its minimum
func (g GeneratedSchedule) Filled() bool {
	return len(g.Assignments) >= g.Slot.MinMinisters
}
