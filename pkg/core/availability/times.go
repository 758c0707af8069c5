package availability

import (
	"fmt"
	"regexp"
	"strings"
)

var timePattern = regexp.MustCompile(`^(\d{1,2})(?:h|:)?(\d{2})?$`)

// NormalizeTime converts legacy time notations to "HH:MM".
// Accepted inputs: "8h", "08h00", "8:00", "19h30", "10:00".
// Unrecognized values fall back to the main Sunday mass time.
func NormalizeTime(raw string) string {
	trimmed := strings.TrimSpace(raw)
	m := timePattern.FindStringSubmatch(trimmed)
	if m == nil {
		return "10:00"
	}

	hour := m[1]
	if len(hour) == 1 {
		hour = "0" + hour
	}
	minute := m[2]
	if minute == "" {
		minute = "00"
	}

	return hour + ":" + minute
}

// slotKey builds the canonical "date time" availability key
func slotKey(date, timeStr string) string {
	return date + " " + timeStr
}

// isoDate formats (year, month, day) as an ISO date string
func isoDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// truthy normalizes boolean-like questionnaire answers. The questionnaires
// historically produced true, "Sim", "sim", "true" and 1 for yes; anything
// else (including "Não", empty and absent) is no.
func truthy(answer any) bool {
	switch v := answer.(type) {
	case bool:
		return v
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "sim" || s == "true"
	case float64:
		return v == 1
	case int:
		return v == 1
	}
	return false
}
