package availability

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/psantana/sanctuary-scheduler/pkg/core/model"
)

// Format identifies the shape of a raw questionnaire response payload
type Format int

const (
	FormatUnknown Format = iota
	FormatV2
	FormatLegacyArray
	FormatLegacyFields
)

func (f Format) String() string {
	switch f {
	case FormatV2:
		return "v2.0"
	case FormatLegacyArray:
		return "legacy-array"
	case FormatLegacyFields:
		return "legacy-fields"
	}
	return "unknown"
}

// DetectFormat sniffs the decoded payload shape. A structured object carrying
// format_version == "2.0" is the current format; a flat array of
// question/answer items is the legacy array format; an object exposing the
// old direct fields is the legacy flat format.
func DetectFormat(payload any) Format {
	switch v := payload.(type) {
	case map[string]any:
		if version, _ := v["format_version"].(string); version == "2.0" {
			return FormatV2
		}
		if _, ok := v["available_sundays"]; ok {
			return FormatLegacyFields
		}
		if _, ok := v["availableSundays"]; ok {
			return FormatLegacyFields
		}
		if _, ok := v["daily_mass_availability"]; ok {
			return FormatLegacyFields
		}
		return FormatUnknown
	case []any:
		return FormatLegacyArray
	}
	return FormatUnknown
}

// Normalize converts one raw questionnaire response payload, of unknown
// legacy or current shape, into the canonical availability record. It never
// fails: payloads that cannot be decoded or matched to a known format
// degrade to the empty-availability record with a logged warning.
//
// The payload may be a JSON object, a JSON array, or a JSON string that
// itself encodes either (double-encoded rows exist in older questionnaires).
func Normalize(ministerID string, payload []byte, month, year int, logger *zap.Logger) model.AvailabilityRecord {
	decoded, err := DecodePayload(payload)
	if err != nil {
		logger.Warn("Unparseable questionnaire response, treating minister as unavailable",
			zap.String("minister_id", ministerID),
			zap.Error(err))
		return model.EmptyAvailability(ministerID)
	}

	format := DetectFormat(decoded)
	switch format {
	case FormatV2:
		return parseV2(ministerID, decoded.(map[string]any))
	case FormatLegacyArray:
		return parseLegacyArray(ministerID, decoded.([]any), month, year)
	case FormatLegacyFields:
		return parseLegacyFields(ministerID, decoded.(map[string]any), month, year)
	default:
		logger.Warn("Unknown questionnaire response format, treating minister as unavailable",
			zap.String("minister_id", ministerID))
		return model.EmptyAvailability(ministerID)
	}
}

// DecodePayload unwraps the raw bytes, following one level of
// string-encoding if present
func DecodePayload(payload []byte) (any, error) {
	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, err
	}

	if inner, ok := decoded.(string); ok {
		if err := json.Unmarshal([]byte(inner), &decoded); err != nil {
			return nil, err
		}
	}

	return decoded, nil
}

// EncodeV2 renders a canonical availability record in the v2.0 response
// format. Used by the response-migration tooling to rewrite legacy rows;
// Normalize(EncodeV2(r)) reproduces r, which is what keeps normalization
// idempotent for v2 payloads.
func EncodeV2(record model.AvailabilityRecord) ([]byte, error) {
	masses := make(map[string]map[string]bool)
	for key, ok := range record.Sundays {
		if !ok {
			continue
		}
		date, timeStr, hasTime := splitSlotKey(key)
		if date == "" {
			continue // week-number labels have no v2 representation
		}
		if masses[date] == nil {
			masses[date] = map[string]bool{}
		}
		if hasTime {
			masses[date][timeStr] = true
		}
	}
	for _, key := range record.WeekdaySlots {
		date, timeStr, hasTime := splitSlotKey(key)
		if date == "" || !hasTime {
			continue
		}
		if masses[date] == nil {
			masses[date] = map[string]bool{}
		}
		masses[date][timeStr] = true
	}

	weekdays := map[string]bool{
		"monday": false, "tuesday": false, "wednesday": false,
		"thursday": false, "friday": false,
	}
	for _, day := range record.Weekdays {
		weekdays[day] = true
	}

	specialEvents := record.SpecialEvents
	if specialEvents == nil {
		specialEvents = map[string]any{}
	}

	payload := map[string]any{
		"format_version":    "2.0",
		"masses":            masses,
		"weekdays":          weekdays,
		"special_events":    specialEvents,
		"can_substitute":    record.CanSubstitute,
		"preferred_times":   record.PreferredTimes,
		"alternative_times": record.AlternativeTimes,
	}

	return json.Marshal(payload)
}
