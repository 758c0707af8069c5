package availability

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/psantana/sanctuary-scheduler/pkg/core/model"
)

var (
	isoDatePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dayMonthPattern  = regexp.MustCompile(`(\d{1,2})/(\d{2})`)
	novenaPattern    = regexp.MustCompile(`(\d{1,2})/(\d{2}).*?(\d{1,2})h(\d{2})?`)
	weekLabelPattern = regexp.MustCompile(`^[1-5]$`)
)

// feastQuestionTimes maps the bespoke October 2025 feast question ids to
// their mass times
var feastQuestionTimes = map[string]string{
	"saint_judas_feast_7h":      "07:00",
	"saint_judas_feast_10h":     "10:00",
	"saint_judas_feast_12h":     "12:00",
	"saint_judas_feast_15h":     "15:00",
	"saint_judas_feast_17h":     "17:00",
	"saint_judas_feast_evening": "19:30",
}

// weekdayNames maps Portuguese weekday labels (lowercased) to the canonical
// English names the record carries
var weekdayNames = []struct {
	fragment string
	name     string
}{
	{"segunda", "monday"},
	{"terça", "tuesday"},
	{"terca", "tuesday"},
	{"quarta", "wednesday"},
	{"quinta", "thursday"},
	{"sexta", "friday"},
	{"sábado", "saturday"},
	{"sabado", "saturday"},
}

// splitSlotKey decomposes a canonical availability key. Returns the date,
// the time and whether a time component was present. Week-number labels and
// other non-date keys return an empty date.
func splitSlotKey(key string) (date, timeStr string, hasTime bool) {
	parts := strings.SplitN(key, " ", 2)
	if !isoDatePattern.MatchString(parts[0]) {
		return "", "", false
	}
	if len(parts) == 2 {
		return parts[0], parts[1], true
	}
	return parts[0], "", false
}

// parseV2 converts a v2.0 structured payload. The v2 shape maps directly
// onto the canonical record, so this parser mostly copies sub-objects and
// fills absent ones with empty defaults.
func parseV2(ministerID string, payload map[string]any) model.AvailabilityRecord {
	record := model.EmptyAvailability(ministerID)

	if masses, ok := payload["masses"].(map[string]any); ok {
		timeCounts := make(map[string]int)
		for date, times := range masses {
			timesMap, ok := times.(map[string]any)
			if !ok {
				continue
			}
			for timeStr, answer := range timesMap {
				if !truthy(answer) {
					continue
				}
				key := slotKey(date, timeStr)
				record.Sundays[key] = true
				record.WeekdaySlots = append(record.WeekdaySlots, key)
				timeCounts[timeStr]++
			}
		}
		if prefs := stringList(payload["preferred_times"]); len(prefs) > 0 {
			record.PreferredTimes = prefs
		} else {
			record.PreferredTimes = rankTimesByFrequency(timeCounts)
		}
	}
	sort.Strings(record.WeekdaySlots)

	if alts := stringList(payload["alternative_times"]); len(alts) > 0 {
		record.AlternativeTimes = alts
	}

	if weekdays, ok := payload["weekdays"].(map[string]any); ok {
		for day, answer := range weekdays {
			if truthy(answer) {
				record.Weekdays = append(record.Weekdays, day)
			}
		}
		sort.Strings(record.Weekdays)
	}

	if events, ok := payload["special_events"].(map[string]any); ok {
		for key, value := range events {
			record.SpecialEvents[key] = value
		}
	}

	record.CanSubstitute = truthy(payload["can_substitute"])

	return record
}

// parseLegacyArray converts the flat array of {questionId, answer} items.
// This covers both the generic legacy questionnaires and the bespoke
// October 2025 format with its per-time feast questions.
func parseLegacyArray(ministerID string, items []any, month, year int) model.AvailabilityRecord {
	record := model.EmptyAvailability(ministerID)

	// First pass: the monthly gate and the main Sunday time, both of which
	// change how later answers are interpreted.
	availableThisMonth := true
	mainTime := "10:00"
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		switch item["questionId"] {
		case "monthly_availability":
			availableThisMonth = truthy(item["answer"])
		case "main_service_time", "primary_mass_time":
			if s, ok := item["answer"].(string); ok && s != "" {
				mainTime = NormalizeTime(s)
			}
		}
	}

	var novena []string
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		questionID, _ := item["questionId"].(string)
		answer := item["answer"]

		if timeStr, ok := feastQuestionTimes[questionID]; ok {
			feast := feastMap(record.SpecialEvents)
			feast[isoDate(year, month, 28)+"_"+timeStr] = truthy(answer)
			continue
		}

		switch questionID {
		case "available_sundays":
			if !availableThisMonth {
				continue
			}
			for _, sunday := range stringList(answer) {
				addLegacySunday(&record, sunday, mainTime, month, year)
			}

		case "daily_mass_availability":
			if !availableThisMonth {
				continue
			}
			switch v := answer.(type) {
			case string:
				if truthy(v) {
					record.Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}
				} else {
					record.SpecialEvents["daily_mass_declined"] = true
				}
			default:
				for _, day := range stringList(answer) {
					if name := weekdayName(day); name != "" {
						record.Weekdays = appendUnique(record.Weekdays, name)
					}
				}
			}

		case "saint_judas_novena":
			for _, entry := range stringList(answer) {
				if strings.EqualFold(strings.TrimSpace(entry), "Nenhum dia") {
					continue
				}
				novena = append(novena, parseNovenaEntry(entry, year))
			}

		case "healing_liberation_mass", "healing_liberation":
			record.SpecialEvents["healing_liberation"] = truthy(answer)
		case "sacred_heart_mass", "first_friday":
			record.SpecialEvents["first_friday"] = truthy(answer)
		case "immaculate_heart_mass", "first_saturday":
			record.SpecialEvents["first_saturday"] = truthy(answer)

		case "alternative_times":
			for _, t := range stringList(answer) {
				record.AlternativeTimes = appendUnique(record.AlternativeTimes, NormalizeTime(t))
			}

		case "can_substitute":
			record.CanSubstitute = truthy(answer)
		}
	}

	if len(novena) > 0 {
		record.SpecialEvents["saint_judas_novena"] = novena
	}
	record.PreferredTimes = []string{mainTime}

	return record
}

// parseLegacyFields converts the oldest object shape with direct fields,
// tolerating both snake_case and camelCase spellings.
func parseLegacyFields(ministerID string, payload map[string]any, month, year int) model.AvailabilityRecord {
	record := model.EmptyAvailability(ministerID)

	mainTime := "10:00"
	if prefs := stringList(firstOf(payload, "preferred_mass_times", "preferredMassTimes")); len(prefs) > 0 {
		for _, t := range prefs {
			record.PreferredTimes = appendUnique(record.PreferredTimes, NormalizeTime(t))
		}
		mainTime = record.PreferredTimes[0]
	} else {
		record.PreferredTimes = []string{mainTime}
	}

	for _, sunday := range stringList(firstOf(payload, "available_sundays", "availableSundays")) {
		addLegacySunday(&record, sunday, mainTime, month, year)
	}

	for _, day := range stringList(firstOf(payload, "daily_mass_availability", "dailyMassAvailability")) {
		if name := weekdayName(day); name != "" {
			record.Weekdays = appendUnique(record.Weekdays, name)
		}
	}

	for _, t := range stringList(firstOf(payload, "alternative_times", "alternativeTimes")) {
		record.AlternativeTimes = appendUnique(record.AlternativeTimes, NormalizeTime(t))
	}

	record.CanSubstitute = truthy(firstOf(payload, "can_substitute", "canSubstitute"))

	return record
}

// addLegacySunday records one legacy Sunday answer. "Domingo 05/10" style
// dates get both a dated slot key and a date-only key; bare week numbers
// ("1".."5") are kept verbatim for the Nth-Sunday fallback match.
func addLegacySunday(record *model.AvailabilityRecord, sunday, mainTime string, month, year int) {
	trimmed := strings.TrimSpace(sunday)
	if strings.EqualFold(trimmed, "Nenhum domingo") {
		return
	}

	if weekLabelPattern.MatchString(trimmed) {
		record.Sundays[trimmed] = true
		return
	}

	m := dayMonthPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return
	}
	day, _ := strconv.Atoi(m[1])
	date := isoDate(year, month, day)
	record.Sundays[slotKey(date, mainTime)] = true
	record.Sundays[date] = true
}

// parseNovenaEntry converts "Segunda 20/10 às 19h30" to "2025-10-20 19:30".
// Entries that don't carry a parseable date are kept verbatim so the legacy
// day-number match can still see them.
func parseNovenaEntry(entry string, year int) string {
	m := novenaPattern.FindStringSubmatch(entry)
	if m == nil {
		return strings.TrimSpace(entry)
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	hour := m[3]
	if len(hour) == 1 {
		hour = "0" + hour
	}
	minute := m[4]
	if minute == "" {
		minute = "30"
	}

	return isoDate(year, month, day) + " " + hour + ":" + minute
}

// feastMap returns (creating if needed) the feast availability grid
func feastMap(events map[string]any) map[string]bool {
	if existing, ok := events["saint_judas_feast"].(map[string]bool); ok {
		return existing
	}
	created := map[string]bool{}
	events["saint_judas_feast"] = created
	return created
}

func weekdayName(label string) string {
	lower := strings.ToLower(label)
	for _, w := range weekdayNames {
		if strings.Contains(lower, w.fragment) {
			return w.name
		}
	}
	return ""
}

func rankTimesByFrequency(counts map[string]int) []string {
	times := make([]string, 0, len(counts))
	for t := range counts {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool {
		if counts[times[i]] != counts[times[j]] {
			return counts[times[i]] > counts[times[j]]
		}
		return times[i] < times[j]
	})
	return times
}

func stringList(value any) []string {
	switch v := value.(type) {
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

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

func firstOf(payload map[string]any, keys ...string) any {
	for _, key := range keys {
		if value, ok := payload[key]; ok {
			return value
		}
	}
	return nil
}
