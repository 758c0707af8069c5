package assigner

import "time"

// ledger tracks what one generation run has assigned so far. Runs are
// self-contained: two runs over the same inputs see identical ledgers and
// produce identical schedules, and concurrent runs never observe each
// other's assignments.
type ledger struct {
	monthly      map[string]int             // all assignments this run
	nonDaily     map[string]int             // assignments subject to the monthly cap
	lastAssigned map[string]time.Time       // most recent slot date this run
	byDate       map[string]map[string]bool // date -> minister ids serving that day
}

func newLedger() *ledger {
	return &ledger{
		monthly:      make(map[string]int),
		nonDaily:     make(map[string]int),
		lastAssigned: make(map[string]time.Time),
		byDate:       make(map[string]map[string]bool),
	}
}

func (l *ledger) record(ministerID string, date time.Time, daily bool) {
	l.monthly[ministerID]++
	if !daily {
		l.nonDaily[ministerID]++
	}
	if date.After(l.lastAssigned[ministerID]) {
		l.lastAssigned[ministerID] = date
	}

	key := date.Format("2006-01-02")
	if l.byDate[key] == nil {
		l.byDate[key] = make(map[string]bool)
	}
	l.byDate[key][ministerID] = true
}

func (l *ledger) servesOn(ministerID string, date time.Time) bool {
	return l.byDate[date.Format("2006-01-02")][ministerID]
}

// monthlyCount counts every assignment this run, daily masses included, so
// the fairness ordering sees the minister's full load.
func (l *ledger) monthlyCount(ministerID string) int {
	return l.monthly[ministerID]
}

// cappedCount counts only the assignments the monthly cap applies to
func (l *ledger) cappedCount(ministerID string) int {
	return l.nonDaily[ministerID]
}
