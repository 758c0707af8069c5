package calendar

import (
	"time"

	"github.com/psantana/sanctuary-scheduler/pkg/core/model"
)

// Slot size constants for the built-in sanctuary rules. Regular Sunday and
// daily masses can be overridden by mass-time configuration rows; the
// devotional and St. Jude slot sizes are fixed by the sanctuary.
const (
	dailyMassTime      = "06:30"
	dailyMassMinisters = 5

	healingMinisters    = 26
	sacredHeartTime     = "06:30"
	sacredHeartMin      = 6
	sacredHeartMax      = 8
	immaculateHeartTime = "06:30"
	immaculateHeartMin  = 6
	immaculateHeartMax  = 8

	novenaMinisters    = 26
	novenaMaxMinisters = 30

	// October novena window: days 19-27, folded into the Sunday evening mass
	// on Sundays
	novenaFirstDay = 19
	novenaLastDay  = 27

	stJudeDay = 28
)

// sundayDefault describes one of the three regular Sunday masses
type sundayDefault struct {
	time string
	min  int
	max  int
}

var sundayDefaults = []sundayDefault{
	{"08:00", 15, 20},
	{"10:00", 20, 25},
	{"19:00", 20, 25},
}

// feastSlot describes one mass of the October 28 feast set
type feastSlot struct {
	time string
	min  int
	max  int
}

// October 28 feast schedule, fixed by the sanctuary
var octoberFeastSlots = []feastSlot{
	{"07:00", 10, 12},
	{"10:00", 15, 18},
	{"12:00", 10, 12},
	{"15:00", 10, 12},
	{"17:00", 10, 12},
	{"19:30", 20, 24},
}

// Day-28 St. Jude sets outside October, by weekday class
var stJudeWeekdaySlots = []feastSlot{
	{"07:00", 8, 10},
	{"12:00", 8, 10},
	{"15:00", 8, 10},
	{"19:30", 12, 15},
}

var stJudeSaturdaySlots = []feastSlot{
	{"07:00", 8, 10},
	{"12:00", 8, 10},
	{"15:00", 8, 10},
	{"19:00", 12, 15},
}

var stJudeSundaySlots = []feastSlot{
	{"08:00", 15, 18},
	{"10:00", 20, 24},
	{"12:00", 10, 12},
	{"19:00", 20, 24},
}

// fixedHolidays lists the fixed-date national public holidays ("MM-DD").
// Movable feasts are out of scope; only the first-Thursday healing mass
// consults this table.
var fixedHolidays = map[string]bool{
	"01-01": true, // Confraternização Universal
	"04-21": true, // Tiradentes
	"05-01": true, // Dia do Trabalho
	"09-07": true, // Independência
	"10-12": true, // Nossa Senhora Aparecida
	"11-02": true, // Finados
	"11-15": true, // Proclamação da República
	"12-25": true, // Natal
}

func isPublicHoliday(date time.Time) bool {
	return fixedHolidays[date.Format("01-02")]
}

// inNovenaWindow reports whether the date falls inside the October novena
func inNovenaWindow(date time.Time) bool {
	return date.Month() == time.October &&
		date.Day() >= novenaFirstDay && date.Day() <= novenaLastDay
}

// isRegularSaturday reports whether the date is a Saturday outside the
// first-Saturday devotion window. Regular Saturdays have no morning mass.
func isRegularSaturday(date time.Time) bool {
	return date.Weekday() == time.Saturday && date.Day() > 7
}

// isFirstWeekdayOfMonth reports whether the date is the first occurrence of
// its weekday in the month
func isFirstWeekdayOfMonth(date time.Time) bool {
	return date.Day() <= 7
}

func stJudeDaySlots(date time.Time) ([]feastSlot, model.MassType) {
	if date.Month() == time.October {
		return octoberFeastSlots, model.MassStJudeFeast
	}
	switch date.Weekday() {
	case time.Sunday:
		return stJudeSundaySlots, model.MassStJudeSunday
	case time.Saturday:
		return stJudeSaturdaySlots, model.MassStJudeSaturday
	default:
		return stJudeWeekdaySlots, model.MassStJudeWeekday
	}
}
