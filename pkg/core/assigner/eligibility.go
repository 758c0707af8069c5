package assigner

import (
	"fmt"
	"strings"
	"time"

	"github.com/psantana/sanctuary-scheduler/pkg/core/availability"
	"github.com/psantana/sanctuary-scheduler/pkg/core/model"
)

var weekdayKeys = map[time.Weekday]string{
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
}

// availableFor reports whether the record marks the minister available for
// the slot, by the slot's mass type.
func availableFor(record model.AvailabilityRecord, slot model.MassSlot) bool {
	date := slot.DateString()

	switch slot.Type {
	case model.MassSunday:
		if availability.MatchesSunday(record, date, slot.Time) {
			return true
		}
		// ministers who answered a questionnaire generation without
		// per-Sunday questions only declared a mass time
		return len(record.Sundays) == 0 && availability.HasPreferredTime(record, slot.Time)

	case model.MassDaily:
		if eventBool(record, "daily_mass_declined") {
			return false
		}
		for _, key := range record.WeekdaySlots {
			if key == date+" "+slot.Time {
				return true
			}
		}
		return hasWeekday(record, slot.Date.Weekday())

	case model.MassHealing:
		return eventBool(record, "healing_liberation")
	case model.MassSacredHeart:
		return eventBool(record, "first_friday")
	case model.MassImmaculateHeart:
		return eventBool(record, "first_saturday")

	case model.MassStJudeNovena:
		return matchesNovena(record, slot)

	case model.MassStJudeFeast:
		return feastGridHas(record, date, slot.Time)

	case model.MassStJudeSunday:
		if feastGridHas(record, date, slot.Time) {
			return true
		}
		return availability.MatchesSunday(record, date, slot.Time)

	case model.MassStJudeWeekday, model.MassStJudeSaturday:
		if feastGridHas(record, date, slot.Time) {
			return true
		}
		return hasWeekday(record, slot.Date.Weekday())
	}

	return false
}

func hasWeekday(record model.AvailabilityRecord, weekday time.Weekday) bool {
	name := weekdayKeys[weekday]
	for _, day := range record.Weekdays {
		if day == name {
			return true
		}
	}
	return false
}

// matchesNovena checks the minister's novena answers against the slot.
// Entries may be canonical "date time" strings, bare dates, or verbatim
// legacy text that still carries a DD/MM fragment.
func matchesNovena(record model.AvailabilityRecord, slot model.MassSlot) bool {
	date := slot.DateString()
	dayMonth := fmt.Sprintf("%02d/%02d", slot.Date.Day(), int(slot.Date.Month()))

	for _, entry := range eventStrings(record, "saint_judas_novena") {
		if entry == date+" "+slot.Time || entry == date {
			return true
		}
		if strings.Contains(entry, dayMonth) {
			return true
		}
	}
	return false
}

// feastGridHas checks the per-time feast availability grid. The grid is
// keyed either flat ("date_time") or nested (date, then time); values
// survive JSON round trips as either bool maps or generic maps.
func feastGridHas(record model.AvailabilityRecord, date, timeStr string) bool {
	key := date + "_" + timeStr

	switch grid := record.SpecialEvents["saint_judas_feast"].(type) {
	case map[string]bool:
		return grid[key]
	case map[string]any:
		if truthyValue(grid[key]) {
			return true
		}
		switch times := grid[date].(type) {
		case map[string]bool:
			return times[timeStr]
		case map[string]any:
			return truthyValue(times[timeStr])
		}
	}
	return false
}

// eventBool reads a yes/no special-event answer, tolerant of the types a
// JSON round trip can produce
func eventBool(record model.AvailabilityRecord, key string) bool {
	return truthyValue(record.SpecialEvents[key])
}

func eventStrings(record model.AvailabilityRecord, key string) []string {
	switch v := record.SpecialEvents[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func truthyValue(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "sim" || s == "true"
	case float64:
		return v == 1
	}
	return false
}
