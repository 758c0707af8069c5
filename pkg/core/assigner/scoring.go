package assigner

import (
	"math"

	"github.com/psantana/sanctuary-scheduler/pkg/core/availability"
	"github.com/psantana/sanctuary-scheduler/pkg/core/model"
)

// Fitness weights for backup ranking. Time preference dominates; the
// substitute offer, rest and service balance refine the order, and the
// saint-name bonus shifts close calls.
const (
	preferredTimeWeight   = 0.3
	alternativeTimeWeight = 0.15
	substituteBonus       = 0.2
	serviceBalanceWeight  = 0.15
	recencyWeight         = 0.15
	recencyHorizonDays    = 90
	saintBonusWeight      = 0.2
	sameDayPenalty        = 0.3
)

// fitness scores how good a fit the minister is for the slot, independent of
// the fairness ordering used for primary assignment. Used to rank backups.
func (e *Engine) fitness(minister model.Minister, slot model.MassSlot) float64 {
	record := e.recordFor(minister.ID)

	score := 0.0
	if containsTime(record.PreferredTimes, slot.Time) || containsTime(minister.PreferredTimes, slot.Time) {
		score += preferredTimeWeight
	} else if containsTime(record.AlternativeTimes, slot.Time) {
		score += alternativeTimeWeight
	}

	if record.CanSubstitute {
		score += substituteBonus
	}

	// lightly used ministers make better backups
	load := minister.TotalServices + e.ledger.monthlyCount(minister.ID)
	score += serviceBalanceWeight / float64(1+load)

	// the longer since the last service, the better; never-served scores full
	if last := e.lastService(minister); last.IsZero() {
		score += recencyWeight
	} else if rested := slot.Date.Sub(last).Hours() / 24; rested > 0 {
		score += recencyWeight * math.Min(1, rested/recencyHorizonDays)
	}

	if e.ledger.servesOn(minister.ID, slot.Date) {
		score -= sameDayPenalty
	}

	if e.bonuses != nil {
		score += e.bonuses.Bonus(minister.Name, slot.Date) * saintBonusWeight
	}

	return score
}

// hasPreferredTime reports whether the slot time matches the minister's
// declared preferences, from the questionnaire record or the profile
func (e *Engine) hasPreferredTime(minister model.Minister, slot model.MassSlot) bool {
	if containsTime(minister.PreferredTimes, slot.Time) {
		return true
	}
	return availability.HasPreferredTime(e.recordFor(minister.ID), slot.Time)
}

// preferenceScore grades a backup candidate's time fit for the confidence
// calculation: full for a preferred time, half for an alternative one.
func (e *Engine) preferenceScore(minister model.Minister, slot model.MassSlot) float64 {
	if e.hasPreferredTime(minister, slot) {
		return 1
	}
	if containsTime(e.recordFor(minister.ID).AlternativeTimes, slot.Time) {
		return 0.5
	}
	return 0
}

func containsTime(times []string, timeStr string) bool {
	for _, t := range times {
		if t == timeStr {
			return true
		}
	}
	return false
}
