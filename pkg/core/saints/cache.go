package saints

import (
	"sync"
	"time"
)

// Cache memoizes name-bonus scores per minister and feast day. A month's
// generation run scores every minister against every slot date, so the same
// (name, day) pair comes up dozens of times.
type Cache struct {
	calendar Calendar

	mu     sync.RWMutex
	scores map[string]float64
}

func NewCache(calendar Calendar) *Cache {
	return &Cache{
		calendar: calendar,
		scores:   make(map[string]float64),
	}
}

// Bonus returns the minister's best name bonus for the date
func (c *Cache) Bonus(ministerName string, date time.Time) float64 {
	feastDay := date.Format("01-02")
	celebrated, ok := c.calendar[feastDay]
	if !ok {
		return 0
	}

	key := ministerName + "|" + feastDay

	c.mu.RLock()
	score, hit := c.scores[key]
	c.mu.RUnlock()
	if hit {
		return score
	}

	score = BestBonus(ministerName, celebrated)

	c.mu.Lock()
	c.scores[key] = score
	c.mu.Unlock()
	return score
}
