package calendar

import (
	"fmt"
	"time"

	"github.com/psantana/sanctuary-scheduler/pkg/core/model"
)

type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Finding is one calendar rule violation reported by the October validator
type Finding struct {
	Severity Severity
	Date     time.Time
	Time     string
	Message  string
}

// ValidateOctober checks an October slot set against the sanctuary's
// novena and feast rules. It returns nothing for non-October slot sets.
func ValidateOctober(slots []model.MassSlot) []Finding {
	var findings []Finding
	feastTimes := make(map[string]bool)

	for _, slot := range slots {
		if slot.Date.Month() != time.October {
			continue
		}

		if slot.Type == model.MassDaily && isRegularSaturday(slot.Date) {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Date:     slot.Date,
				Time:     slot.Time,
				Message:  "daily mass scheduled on a regular October Saturday",
			})
		}

		if inNovenaWindow(slot.Date) && slot.Date.Weekday() != time.Sunday && slot.Time < "12:00" {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Date:     slot.Date,
				Time:     slot.Time,
				Message:  "morning mass scheduled during the novena window",
			})
		}

		if slot.Type == model.MassStJudeNovena {
			switch {
			case slot.Date.Weekday() == time.Saturday && slot.Time != "19:00":
				findings = append(findings, Finding{
					Severity: SeverityWarning,
					Date:     slot.Date,
					Time:     slot.Time,
					Message:  "Saturday novena mass expected at 19:00",
				})
			case slot.Date.Weekday() != time.Saturday && slot.Date.Weekday() != time.Sunday && slot.Time != "19:30":
				findings = append(findings, Finding{
					Severity: SeverityWarning,
					Date:     slot.Date,
					Time:     slot.Time,
					Message:  "weekday novena mass expected at 19:30",
				})
			}
		}

		if slot.Date.Day() == stJudeDay {
			if slot.Type == model.MassDaily {
				findings = append(findings, Finding{
					Severity: SeverityError,
					Date:     slot.Date,
					Time:     slot.Time,
					Message:  "daily mass scheduled on the feast day",
				})
			}
			if slot.Type == model.MassStJudeFeast {
				feastTimes[slot.Time] = true
			}
		}
	}

	if len(feastTimes) > 0 {
		for _, fs := range octoberFeastSlots {
			if !feastTimes[fs.time] {
				findings = append(findings, Finding{
					Severity: SeverityError,
					Time:     fs.time,
					Message:  fmt.Sprintf("feast day is missing the %s mass", fs.time),
				})
			}
		}
	}

	return findings
}
