package calendar

import (
	"time"

	"github.com/psantana/sanctuary-scheduler/pkg/core/model"
)

// ResolveConflicts applies the sanctuary suppression rules and then, for any
// date and time still claimed by more than one mass, keeps the highest
// priority one.
func ResolveConflicts(slots []model.MassSlot) []model.MassSlot {
	kept := make([]model.MassSlot, 0, len(slots))
	for _, slot := range slots {
		if suppressed(slot) {
			continue
		}
		kept = append(kept, slot)
	}

	byKey := make(map[string]model.MassSlot, len(kept))
	order := make([]string, 0, len(kept))
	for _, slot := range kept {
		key := slot.Key()
		existing, ok := byKey[key]
		if !ok {
			byKey[key] = slot
			order = append(order, key)
			continue
		}
		if slot.Type.Priority() > existing.Type.Priority() {
			byKey[key] = slot
		}
	}

	resolved := make([]model.MassSlot, 0, len(byKey))
	for _, key := range order {
		resolved = append(resolved, byKey[key])
	}
	return resolved
}

// suppressed reports whether the slot is removed outright by the sanctuary
// rules, regardless of what else is scheduled that day.
func suppressed(slot model.MassSlot) bool {
	// no daily mass on the St. Jude day
	if slot.Type == model.MassDaily && slot.Date.Day() == stJudeDay {
		return true
	}
	// no daily mass on regular October Saturdays
	if slot.Type == model.MassDaily && slot.Date.Month() == 10 && isRegularSaturday(slot.Date) {
		return true
	}
	// the novena window has no weekday morning masses; Sundays keep theirs
	if inNovenaWindow(slot.Date) && slot.Date.Weekday() != time.Sunday &&
		slot.Time < "12:00" && !slot.Type.IsStJude() {
		return true
	}
	return false
}
