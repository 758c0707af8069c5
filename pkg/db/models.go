package db

import "time"

// Minister is a scheduling-eligible user row
type Minister struct {
	ID               string
	Name             string
	Role             string
	Status           string
	TotalServices    int
	LastService      *time.Time
	PreferredTimes   []string
	CanServeAsCouple bool
	SpouseMinisterID string
	FamilyID         string
}

// Family is a family_relationships row
type Family struct {
	ID                  string
	Name                string
	PreferServeTogether bool
}

// MassTimeConfig is one recurring mass-time configuration row
type MassTimeConfig struct {
	ID           string
	DayOfWeek    int // 0=Sunday
	Time         string
	MinMinisters int
	MaxMinisters int
	IsActive     bool
}

// Questionnaire is availability-questionnaire metadata for one period
type Questionnaire struct {
	ID     string
	Month  int
	Year   int
	Status string // "open", "sent", "closed", ...
}

// QuestionnaireResponse is one minister's raw response payload. Responses is
// stored as JSONB and may hold an object, an array, or a JSON-encoded string
// depending on the questionnaire generation that produced it.
type QuestionnaireResponse struct {
	ID              string
	QuestionnaireID string
	MinisterID      string
	Responses       []byte
}

// Saint is one saints-calendar row
type Saint struct {
	ID       string
	Name     string
	FeastDay string // "MM-DD"
	Rank     string // "SOLEMNITY", "FEAST", "MEMORIAL", ...
}

// ScheduleEntry is one persisted per-minister assignment row
type ScheduleEntry struct {
	ID         string
	Date       string
	Time       string
	MassType   string
	MinisterID string // empty for vacant positions
	Position   int    // 1-based
	Status     string // "scheduled", "backup", "vacant"
}
