package saints

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNameBonusExactMatch(t *testing.T) {
	saint := Saint{Name: "São Judas Tadeu", Rank: "FEAST"}

	// both saint tokens match exactly: 2 over max(3, 2) tokens, times 1.3
	assert.InDelta(t, 2.0/3.0*1.3, NameBonus("Judas Tadeu Oliveira", saint), 0.001)

	// with no surname the match is total and the multiplier caps at 1.0
	assert.InDelta(t, 1.0, NameBonus("Judas Tadeu", saint), 0.001)
}

func TestNameBonusPartialMatch(t *testing.T) {
	saint := Saint{Name: "São Judas Tadeu", Rank: ""}

	// one exact token out of max(3, 2) tokens
	bonus := NameBonus("Maria Judas Silva", saint)
	assert.InDelta(t, 1.0/3.0, bonus, 0.001)
}

func TestNameBonusSubstringMatch(t *testing.T) {
	saint := Saint{Name: "Santa Maria", Rank: ""}

	// "maria" is a substring of "mariana": 0.5 over one token
	assert.InDelta(t, 0.5, NameBonus("Mariana", saint), 0.001)

	// containment works in both directions
	assert.InDelta(t, 0.5, NameBonus("Maria", Saint{Name: "Santa Mariana", Rank: ""}), 0.001)
}

func TestNameBonusFuzzyMatch(t *testing.T) {
	saint := Saint{Name: "Santo Antônio", Rank: ""}

	// "antonio" vs "antonia": distance 1 over 7 runes, similarity 0.857
	assert.InDelta(t, 0.3, NameBonus("Antonia", saint), 0.001)
}

func TestNameBonusRankMultipliers(t *testing.T) {
	// half-score base so the multiplier is visible before the cap
	base := NameBonus("Mariana", Saint{Name: "Santa Maria", Rank: ""})
	assert.InDelta(t, 0.5, base, 0.001)

	assert.InDelta(t, base*1.5, NameBonus("Mariana", Saint{Name: "Santa Maria", Rank: "SOLEMNITY"}), 0.001)
	assert.InDelta(t, base*1.3, NameBonus("Mariana", Saint{Name: "Santa Maria", Rank: "FEAST"}), 0.001)
	assert.InDelta(t, base*1.2, NameBonus("Mariana", Saint{Name: "Santa Maria", Rank: "MEMORIAL"}), 0.001)
}

func TestNameBonusNoMatch(t *testing.T) {
	saint := Saint{Name: "São Judas Tadeu", Rank: "SOLEMNITY"}

	assert.Zero(t, NameBonus("Carlos Eduardo Pereira", saint))
}

func TestNameBonusIgnoresTitlesAndConnectives(t *testing.T) {
	saint := Saint{Name: "São Judas Tadeu", Rank: ""}

	// "dos" and "de" are dropped, "Santos" does not match the "São" title
	assert.Zero(t, NameBonus("Carlos dos Santos", saint))

	withConnectives := NameBonus("Judas de Tadeu", saint)
	assert.InDelta(t, 1.0, withConnectives, 0.001)
}

func TestNameBonusAccentInsensitive(t *testing.T) {
	saint := Saint{Name: "Santo Antônio", Rank: ""}

	assert.InDelta(t, 1.0, NameBonus("Antonio", saint), 0.001)
	assert.InDelta(t, 1.0, NameBonus("Antônio", saint), 0.001)
}

func TestBestBonusPicksStrongestSaint(t *testing.T) {
	celebrated := []Saint{
		{Name: "Santa Teresinha", Rank: ""},
		{Name: "Santo Antônio", Rank: ""},
	}

	// the Antônio match scores 1 token over 2; Teresinha matches nothing,
	// "teresa" being neither a substring nor close enough for the fuzzy tier
	assert.InDelta(t, 0.5, BestBonus("Antonio Teresa", celebrated), 0.001)
}

func TestCacheBonus(t *testing.T) {
	calendar := Calendar{
		"10-28": {{Name: "São Judas Tadeu", Rank: "SOLEMNITY"}},
	}
	cache := NewCache(calendar)

	feastDay := time.Date(2025, 10, 28, 0, 0, 0, 0, time.UTC)
	ordinaryDay := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	first := cache.Bonus("Judas Tadeu Oliveira", feastDay)
	assert.InDelta(t, 1.0, first, 0.001)
	assert.Equal(t, first, cache.Bonus("Judas Tadeu Oliveira", feastDay))

	assert.Zero(t, cache.Bonus("Judas Tadeu Oliveira", ordinaryDay))
	assert.Zero(t, cache.Bonus("Carlos Pereira", feastDay))
}
