package saints

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Saint is one saints-calendar entry relevant to name matching
type Saint struct {
	Name string
	Rank string // "SOLEMNITY", "FEAST", "MEMORIAL", ...
}

// Calendar maps feast days ("MM-DD") to the saints celebrated on them
type Calendar map[string][]Saint

// Liturgical rank multipliers. Unranked celebrations score at face value.
var rankMultipliers = map[string]float64{
	"SOLEMNITY": 1.5,
	"FEAST":     1.3,
	"MEMORIAL":  1.2,
}

const (
	exactTokenScore     = 1.0
	substringTokenScore = 0.5
	fuzzyTokenScore     = 0.3
	fuzzyThreshold      = 0.7
	minTokenLength      = 3
)

// NameBonus scores how strongly a minister's name evokes the saint,
// weighted by the celebration's liturgical rank. The result is in [0, 1].
func NameBonus(ministerName string, saint Saint) float64 {
	score := matchTokens(nameTokens(ministerName), nameTokens(saint.Name))
	if score == 0 {
		return 0
	}

	if multiplier, ok := rankMultipliers[strings.ToUpper(saint.Rank)]; ok {
		score *= multiplier
	}
	if score > 1 {
		score = 1
	}
	return score
}

// BestBonus returns the highest name bonus across all saints of the day
func BestBonus(ministerName string, celebrated []Saint) float64 {
	best := 0.0
	for _, saint := range celebrated {
		if bonus := NameBonus(ministerName, saint); bonus > best {
			best = bonus
		}
	}
	return best
}

// matchTokens scores each minister token against its best saint token and
// normalizes by the larger token count, so long compound names don't score
// higher than short exact ones.
func matchTokens(ministerTokens, saintTokens []string) float64 {
	if len(ministerTokens) == 0 || len(saintTokens) == 0 {
		return 0
	}

	total := 0.0
	for _, mt := range ministerTokens {
		best := 0.0
		for _, st := range saintTokens {
			score := tokenScore(mt, st)
			if score > best {
				best = score
			}
		}
		total += best
	}

	denominator := len(ministerTokens)
	if len(saintTokens) > denominator {
		denominator = len(saintTokens)
	}
	return total / float64(denominator)
}

func tokenScore(a, b string) float64 {
	if a == b {
		return exactTokenScore
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return substringTokenScore
	}
	if similarity(a, b) > fuzzyThreshold {
		return fuzzyTokenScore
	}
	return 0
}

func similarity(a, b string) float64 {
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1 - float64(distance)/float64(longest)
}

// accentReplacer folds the Portuguese diacritics that appear in minister
// and saint names
var accentReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
)

// saintTitles are honorifics that would otherwise match the common
// "Santos" surname on every feast day
var saintTitles = map[string]bool{
	"sao":   true,
	"santo": true,
	"santa": true,
}

// nameTokens lowercases, strips accents and splits the name, dropping saint
// titles and the short connective words ("de", "da", "dos") that carry no
// signal.
func nameTokens(name string) []string {
	normalized := accentReplacer.Replace(strings.ToLower(name))
	fields := strings.Fields(normalized)

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if len([]rune(field)) < minTokenLength || saintTitles[field] {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}
