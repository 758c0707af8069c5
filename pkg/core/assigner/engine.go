package assigner

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/psantana/sanctuary-scheduler/pkg/core/family"
	"github.com/psantana/sanctuary-scheduler/pkg/core/model"
	"github.com/psantana/sanctuary-scheduler/pkg/core/saints"
)

const (
	// monthlyCap bounds non-daily assignments per minister per run. Daily
	// masses are exempt: the handful of ministers who attend every morning
	// would otherwise starve the Sunday pool.
	monthlyCap = 4
	maxBackups = 2
)

// Options tunes one generation run
type Options struct {
	// Preview relaxes the availability requirement when no questionnaire
	// data exists at all, so operators can inspect a hypothetical schedule
	// before responses arrive.
	Preview bool
}

// Engine assigns ministers to a month of mass slots. Each engine instance
// runs once; all mutable state lives in the run's ledger, never on the
// shared minister records.
type Engine struct {
	ministers     []model.Minister
	availability  map[string]model.AvailabilityRecord
	groupsByID    map[string]model.FamilyGroup
	groupByMember map[string]string
	bonuses       *saints.Cache
	ledger        *ledger
	logger        *zap.Logger

	// assumeAvailable is set in preview runs with an empty availability
	// dataset; everyone is then treated as available.
	assumeAvailable bool
}

func New(
	ministers []model.Minister,
	records map[string]model.AvailabilityRecord,
	groups []model.FamilyGroup,
	bonuses *saints.Cache,
	opts Options,
	logger *zap.Logger,
) *Engine {
	schedulable := make([]model.Minister, 0, len(ministers))
	for _, minister := range ministers {
		if minister.Role.Schedulable() {
			schedulable = append(schedulable, minister)
		}
	}

	groupsByID := make(map[string]model.FamilyGroup, len(groups))
	groupByMember := make(map[string]string)
	for _, group := range groups {
		groupsByID[group.ID] = group
		if !group.PreferServeTogether {
			continue
		}
		for _, memberID := range group.MemberIDs {
			groupByMember[memberID] = group.ID
		}
	}

	return &Engine{
		ministers:       schedulable,
		availability:    records,
		groupsByID:      groupsByID,
		groupByMember:   groupByMember,
		bonuses:         bonuses,
		ledger:          newLedger(),
		logger:          logger,
		assumeAvailable: opts.Preview && len(records) == 0,
	}
}

// Run generates one schedule per slot, in slot order. Slot order matters:
// the ledger accumulates as slots are processed, so earlier slots see a
// fresher pool.
func (e *Engine) Run(slots []model.MassSlot) []model.GeneratedSchedule {
	schedules := make([]model.GeneratedSchedule, 0, len(slots))
	for _, slot := range slots {
		schedules = append(schedules, e.scheduleSlot(slot))
	}
	return schedules
}

func (e *Engine) scheduleSlot(slot model.MassSlot) model.GeneratedSchedule {
	eligible := e.eligibleMinisters(slot)
	e.sortByPriority(eligible, slot)

	assigned, processed := e.assignFamilies(slot, eligible)
	assigned = e.assignIndividuals(slot, eligible, assigned, processed)

	schedule := model.GeneratedSchedule{Slot: slot, Assignments: assigned}

	if len(assigned) < slot.MinMinisters {
		for i := range schedule.Assignments {
			schedule.Assignments[i].ScheduleIncomplete = true
			schedule.Assignments[i].RequiredCount = slot.MinMinisters
			schedule.Assignments[i].ActualCount = len(assigned)
		}
		e.logger.Warn("Slot under minimum",
			zap.String("slot", slot.Key()),
			zap.String("mass_type", string(slot.Type)),
			zap.Int("required", slot.MinMinisters),
			zap.Int("assigned", len(assigned)))
	}

	for _, assignment := range schedule.Assignments {
		e.ledger.record(assignment.Minister.ID, slot.Date, slot.Type.IsDaily())
	}

	schedule.BackupMinisters = e.pickBackups(slot, eligible, schedule.Assignments)
	schedule.Confidence = e.confidence(schedule)
	return schedule
}

// eligibleMinisters filters the pool down to ministers who can serve the
// slot: available for its mass type, not serving elsewhere that day, and
// under the monthly cap for non-daily masses.
func (e *Engine) eligibleMinisters(slot model.MassSlot) []model.Minister {
	eligible := make([]model.Minister, 0, len(e.ministers))
	for _, minister := range e.ministers {
		if e.ledger.servesOn(minister.ID, slot.Date) {
			continue
		}
		if !slot.Type.IsDaily() && e.ledger.cappedCount(minister.ID) >= monthlyCap {
			continue
		}
		if !e.assumeAvailable {
			record, ok := e.availability[minister.ID]
			if !ok || !availableFor(record, slot) {
				continue
			}
		}
		eligible = append(eligible, minister)
	}
	return eligible
}

// sortByPriority orders candidates for primary assignment: fewest
// assignments this run, then longest-rested, then fewest lifetime services.
// The saint-name bonus only breaks remaining ties, so fairness holds even on
// feast days. Minister id breaks the final tie so runs are reproducible.
func (e *Engine) sortByPriority(ministers []model.Minister, slot model.MassSlot) {
	sort.SliceStable(ministers, func(i, j int) bool {
		a, b := ministers[i], ministers[j]

		countA, countB := e.ledger.monthlyCount(a.ID), e.ledger.monthlyCount(b.ID)
		if countA != countB {
			return countA < countB
		}

		lastA, lastB := e.lastService(a), e.lastService(b)
		if !lastA.Equal(lastB) {
			return lastA.Before(lastB)
		}

		if a.TotalServices != b.TotalServices {
			return a.TotalServices < b.TotalServices
		}

		if e.bonuses != nil {
			bonusA := e.bonuses.Bonus(a.Name, slot.Date)
			bonusB := e.bonuses.Bonus(b.Name, slot.Date)
			if bonusA != bonusB {
				return bonusA > bonusB
			}
		}
		return a.ID < b.ID
	})
}

// lastService combines the profile's last service date with anything
// assigned earlier in this run. Ministers who never served sort to the
// zero time, ahead of everyone.
func (e *Engine) lastService(minister model.Minister) time.Time {
	var last time.Time
	if minister.LastService != nil {
		last = *minister.LastService
	}
	if assigned := e.ledger.lastAssigned[minister.ID]; assigned.After(last) {
		last = assigned
	}
	return last
}

// assignFamilies is the first assignment phase: walking the sorted pool, the
// first member of a serve-together family pulls in every still-eligible
// relative, bounded by the slot maximum. The family counts as processed
// either way, so a member whose relatives are unavailable still serves
// rather than sitting the month out.
func (e *Engine) assignFamilies(slot model.MassSlot, eligible []model.Minister) ([]model.Assignment, map[string]bool) {
	eligibleByID := make(map[string]model.Minister, len(eligible))
	for _, minister := range eligible {
		eligibleByID[minister.ID] = minister
	}

	processed := make(map[string]bool)
	var assignments []model.Assignment
	for _, minister := range eligible {
		if len(assignments) >= slot.MinMinisters {
			break
		}
		groupID, together := e.groupByMember[minister.ID]
		if !together || processed[groupID] {
			continue
		}
		processed[groupID] = true

		members := family.MembersOf(e.groupsByID[groupID], eligibleByID)
		placed := 0
		for _, member := range members {
			if len(assignments) >= slot.MaxMinisters {
				break
			}
			assignments = append(assignments, model.Assignment{
				Minister: member,
				Position: len(assignments) + 1,
			})
			placed++
		}
		e.logger.Debug("Assigned family",
			zap.String("slot", slot.Key()),
			zap.String("family_id", groupID),
			zap.Int("members", placed))
	}
	return assignments, processed
}

// assignIndividuals fills the remaining positions one minister at a time.
// Members of serve-together families not reached in the first phase are
// skipped, so an unprocessed family is never split by an individual pick.
func (e *Engine) assignIndividuals(slot model.MassSlot, eligible []model.Minister, assignments []model.Assignment, processed map[string]bool) []model.Assignment {
	taken := make(map[string]bool, len(assignments))
	for _, assignment := range assignments {
		taken[assignment.Minister.ID] = true
	}

	for _, minister := range eligible {
		if len(assignments) >= slot.MinMinisters {
			break
		}
		if taken[minister.ID] {
			continue
		}
		if groupID, together := e.groupByMember[minister.ID]; together && !processed[groupID] {
			continue
		}

		assignments = append(assignments, model.Assignment{
			Minister: minister,
			Position: len(assignments) + 1,
		})
		taken[minister.ID] = true
	}
	return assignments
}

// pickBackups ranks the leftover eligible ministers by fitness and keeps
// the best two. Offering to substitute raises the score but is not required.
func (e *Engine) pickBackups(slot model.MassSlot, eligible []model.Minister, assignments []model.Assignment) []model.Minister {
	assigned := make(map[string]bool, len(assignments))
	for _, assignment := range assignments {
		assigned[assignment.Minister.ID] = true
	}

	var candidates []model.Minister
	for _, minister := range eligible {
		if assigned[minister.ID] {
			continue
		}
		candidates = append(candidates, minister)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		fitnessI, fitnessJ := e.fitness(candidates[i], slot), e.fitness(candidates[j], slot)
		if fitnessI != fitnessJ {
			return fitnessI > fitnessJ
		}
		return candidates[i].ID < candidates[j].ID
	})

	if len(candidates) > maxBackups {
		candidates = candidates[:maxBackups]
	}
	return candidates
}

func (e *Engine) recordFor(ministerID string) model.AvailabilityRecord {
	if record, ok := e.availability[ministerID]; ok {
		return record
	}
	return model.EmptyAvailability(ministerID)
}
