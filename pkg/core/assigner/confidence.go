package assigner

import (
	"math"

	"github.com/psantana/sanctuary-scheduler/pkg/core/model"
)

// Confidence component weights. The fill component carries the most signal;
// backup quality and the service-count spread of the selected ministers
// refine it.
const (
	filledBase         = 0.6
	overfillBonus      = 0.05
	underfillWeight    = 0.3
	backupWeight       = 0.25
	balanceWeight      = 0.15
	balanceSpreadScale = 10.0
	underfilledCap     = 0.5
)

// confidence scores how trustworthy the generated slot is, in [0, 1].
// A filled slot with well-matched backups and an even service spread among
// the selected ministers approaches 1; an empty slot scores 0.
func (e *Engine) confidence(schedule model.GeneratedSchedule) float64 {
	required := schedule.Slot.MinMinisters
	actual := len(schedule.Assignments)
	if required <= 0 || actual == 0 {
		if actual == 0 {
			return 0
		}
		required = actual
	}

	var score float64
	filled := actual >= required
	if filled {
		score = filledBase
		if actual > required {
			overfill := float64(actual-required) / float64(required)
			score += overfillBonus * math.Min(1, overfill)
		}
	} else {
		score = float64(actual) / float64(required) * underfillWeight
	}

	if len(schedule.BackupMinisters) > 0 {
		preference := 0.0
		for _, backup := range schedule.BackupMinisters {
			preference += e.preferenceScore(backup, schedule.Slot)
		}
		preference /= float64(len(schedule.BackupMinisters))
		score += backupWeight * math.Min(1, preference)
	}

	score += balanceWeight * balanceFactor(selectedServiceCounts(schedule.Assignments))

	if !filled && score > underfilledCap {
		score = underfilledCap
	}
	return math.Max(0, math.Min(1, score))
}

func selectedServiceCounts(assignments []model.Assignment) []float64 {
	counts := make([]float64, len(assignments))
	for i, assignment := range assignments {
		counts[i] = float64(assignment.Minister.TotalServices)
	}
	return counts
}

// balanceFactor maps the spread of the selected ministers' lifetime service
// counts to [0, 1]: 1 for a perfectly even spread, falling toward 0 as the
// standard deviation grows.
func balanceFactor(counts []float64) float64 {
	if len(counts) == 0 {
		return 0
	}

	mean := 0.0
	for _, count := range counts {
		mean += count
	}
	mean /= float64(len(counts))

	variance := 0.0
	for _, count := range counts {
		variance += (count - mean) * (count - mean)
	}
	stddev := math.Sqrt(variance / float64(len(counts)))

	return math.Max(0, 1-stddev/balanceSpreadScale)
}
