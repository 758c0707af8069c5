package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/psantana/sanctuary-scheduler/pkg/core/model"
)

// TimeConfig is a parish-configured regular mass time. DayOfWeek follows
// time.Weekday numbering with Sunday as 0.
type TimeConfig struct {
	DayOfWeek    int
	Time         string
	MinMinisters int
	MaxMinisters int
}

// ExtraMass is an operator-configured additional mass expanded from a
// recurrence rule, for one-off or seasonal celebrations the built-in rules
// do not know about.
type ExtraMass struct {
	Rule         string
	Time         string
	Type         model.MassType
	MinMinisters int
	MaxMinisters int
}

// Builder generates the month's mass slots from the sanctuary rules, the
// parish mass-time configuration and any extra-mass overrides.
type Builder struct {
	times  []TimeConfig
	extras []ExtraMass
	logger *zap.Logger
}

func NewBuilder(times []TimeConfig, extras []ExtraMass, logger *zap.Logger) *Builder {
	return &Builder{times: times, extras: extras, logger: logger}
}

// BuildMonth generates every mass slot for the month and resolves
// collisions between regular and special masses. The returned slice is
// sorted by date then time.
func (b *Builder) BuildMonth(year int, month time.Month) ([]model.MassSlot, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("invalid month %d", month)
	}

	var slots []model.MassSlot
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for date := first; date.Month() == month; date = date.AddDate(0, 0, 1) {
		slots = append(slots, b.slotsForDay(date)...)
	}

	extra, err := b.expandExtras(year, month)
	if err != nil {
		return nil, err
	}
	slots = append(slots, extra...)

	slots = ResolveConflicts(slots)

	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		return slots[i].Time < slots[j].Time
	})
	return slots, nil
}

func (b *Builder) slotsForDay(date time.Time) []model.MassSlot {
	var slots []model.MassSlot

	if date.Day() == stJudeDay {
		set, massType := stJudeDaySlots(date)
		for _, fs := range set {
			slots = append(slots, b.newSlot(date, fs.time, massType, fs.min, fs.max))
		}
		// day 28 has no daily mass, but a Sunday day 28 still gets its
		// regular Sunday masses so the conflict pass can rank them
		if date.Weekday() == time.Sunday {
			slots = append(slots, b.sundaySlots(date)...)
		}
		return slots
	}

	switch {
	case date.Weekday() == time.Sunday:
		// novena-window Sundays fold the novena into the regular 19:00
		// evening mass; no separate slot is generated
		slots = append(slots, b.sundaySlots(date)...)
	case inNovenaWindow(date):
		// weekday and Saturday novena masses; no morning mass these days
		novenaTime := "19:30"
		if date.Weekday() == time.Saturday {
			novenaTime = "19:00"
		}
		slots = append(slots, b.newSlot(date, novenaTime, model.MassStJudeNovena, novenaMinisters, novenaMaxMinisters))
	case !isRegularSaturday(date):
		min, max := b.dailyCounts(date.Weekday())
		slots = append(slots, b.newSlot(date, dailyMassTime, model.MassDaily, min, max))
	}

	if isFirstWeekdayOfMonth(date) {
		switch date.Weekday() {
		case time.Thursday:
			healingTime := "19:30"
			if isPublicHoliday(date) {
				healingTime = "19:00"
			}
			slots = append(slots, b.newSlot(date, healingTime, model.MassHealing, healingMinisters, healingMinisters+4))
		case time.Friday:
			slots = append(slots, b.newSlot(date, sacredHeartTime, model.MassSacredHeart, sacredHeartMin, sacredHeartMax))
		case time.Saturday:
			slots = append(slots, b.newSlot(date, immaculateHeartTime, model.MassImmaculateHeart, immaculateHeartMin, immaculateHeartMax))
		}
	}

	return slots
}

// sundaySlots builds the regular Sunday masses from the parish mass-time
// configuration, falling back to the sanctuary defaults when no Sunday rows
// are configured.
func (b *Builder) sundaySlots(date time.Time) []model.MassSlot {
	var slots []model.MassSlot
	for _, tc := range b.times {
		if tc.DayOfWeek != int(time.Sunday) {
			continue
		}
		slots = append(slots, b.newSlot(date, tc.Time, model.MassSunday, tc.MinMinisters, tc.MaxMinisters))
	}
	if len(slots) > 0 {
		return slots
	}
	for _, sd := range sundayDefaults {
		slots = append(slots, b.newSlot(date, sd.time, model.MassSunday, sd.min, sd.max))
	}
	return slots
}

// dailyCounts returns the daily mass slot size, honouring a configured
// override for the weekday's 06:30 mass when one exists.
func (b *Builder) dailyCounts(weekday time.Weekday) (int, int) {
	for _, tc := range b.times {
		if tc.DayOfWeek == int(weekday) && tc.Time == dailyMassTime {
			return tc.MinMinisters, tc.MaxMinisters
		}
	}
	return dailyMassMinisters, dailyMassMinisters
}

func (b *Builder) expandExtras(year int, month time.Month) ([]model.MassSlot, error) {
	if len(b.extras) == 0 {
		return nil, nil
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)

	var slots []model.MassSlot
	for _, extra := range b.extras {
		rule, err := rrule.StrToRRule(extra.Rule)
		if err != nil {
			return nil, fmt.Errorf("parsing extra mass rule %q: %w", extra.Rule, err)
		}
		for _, occurrence := range rule.Between(start, end, true) {
			date := time.Date(occurrence.Year(), occurrence.Month(), occurrence.Day(), 0, 0, 0, 0, time.UTC)
			slots = append(slots, b.newSlot(date, extra.Time, extra.Type, extra.MinMinisters, extra.MaxMinisters))
			b.logger.Debug("added extra mass",
				zap.String("date", date.Format("2006-01-02")),
				zap.String("time", extra.Time),
				zap.String("type", string(extra.Type)))
		}
	}
	return slots, nil
}

func (b *Builder) newSlot(date time.Time, timeStr string, massType model.MassType, min, max int) model.MassSlot {
	return model.MassSlot{
		ID:           fmt.Sprintf("%s_%s", date.Format("2006-01-02"), timeStr),
		Date:         date,
		Time:         timeStr,
		DayOfWeek:    date.Weekday(),
		Type:         massType,
		MinMinisters: min,
		MaxMinisters: max,
	}
}
