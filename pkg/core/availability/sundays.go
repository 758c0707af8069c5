package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/psantana/sanctuary-scheduler/pkg/core/model"
)

// MatchesSunday reports whether the record marks the minister available for
// the Sunday slot at (date, time). Matching tolerates every historical
// encoding, from most to least specific:
//
//  1. exact "date time" key
//  2. date-only key
//  3. any key containing the DD/MM rendering of the date
//  4. the legacy week-number label, computed as ceil(dayOfMonth / 7)
//
// The week-number fallback is a heuristic carried over from the original
// questionnaires; it can disagree with other week-numbering conventions for
// edge-of-month Sundays and is intentionally left as-is because stored
// responses rely on it.
func MatchesSunday(record model.AvailabilityRecord, date, timeStr string) bool {
	if record.Sundays[slotKey(date, timeStr)] {
		return true
	}
	if record.Sundays[date] {
		return true
	}

	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}

	dayMonth := fmt.Sprintf("%02d/%02d", parsed.Day(), int(parsed.Month()))
	for key, available := range record.Sundays {
		if available && strings.Contains(key, dayMonth) {
			return true
		}
	}

	week := (parsed.Day() + 6) / 7
	return record.Sundays[strconv.Itoa(week)]
}

// HasPreferredTime reports whether timeStr is among the minister's preferred
// or alternative mass times. Used as the lesser fallback when no explicit
// Sunday availability matched.
func HasPreferredTime(record model.AvailabilityRecord, timeStr string) bool {
	for _, t := range record.PreferredTimes {
		if t == timeStr {
			return true
		}
	}
	for _, t := range record.AlternativeTimes {
		if t == timeStr {
			return true
		}
	}
	return false
}
