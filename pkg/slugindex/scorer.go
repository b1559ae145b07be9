package slugindex

import (
	"sort"
	"strings"

	edlib "github.com/hbollon/go-edlib"
)

// Substring match tiers, highest wins.
const (
	tierExact     = 4 // name equals the query
	tierWholeWord = 3 // query delimited by word boundaries on both sides
	tierWordEdge  = 2 // word boundary on exactly one side
	tierSubstring = 1 // bare substring anywhere else
)

// All similarity values in this package live on a single 0-1 scale.
const partialAlignmentWeight = 0.9

// substringMatch scores one catalog entry containing the query
// literally.
type substringMatch struct {
	id   uint32
	tier int
	pos  int
}

// scoreSubstring tiers a literal occurrence of query inside name.
// Returns false when name does not contain query at all.
func scoreSubstring(name, query string) (substringMatch, bool) {
	pos := strings.Index(name, query)
	if pos < 0 {
		return substringMatch{}, false
	}
	if name == query {
		return substringMatch{tier: tierExact}, true
	}
	// Normalized names delimit words with plain ASCII spaces, so byte
	// comparisons around the match are safe for multi-byte scripts.
	end := pos + len(query)
	left := pos == 0 || name[pos-1] == ' '
	right := end == len(name) || name[end] == ' '
	switch {
	case left && right:
		return substringMatch{tier: tierWholeWord, pos: pos}, true
	case left || right:
		return substringMatch{tier: tierWordEdge, pos: pos}, true
	default:
		return substringMatch{tier: tierSubstring, pos: pos}, true
	}
}

// sortSubstringMatches orders matches by tier descending, earliest match
// position, shortest name, then lexical order. Names are unique per
// entry, so the order is fully deterministic.
func sortSubstringMatches(matches []substringMatch, names []string) {
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.tier != b.tier {
			return a.tier > b.tier
		}
		if a.pos != b.pos {
			return a.pos < b.pos
		}
		na, nb := names[a.id], names[b.id]
		if len(na) != len(nb) {
			return len(na) < len(nb)
		}
		return na < nb
	})
}

// fuzzyMatch scores one candidate from the trigram/BK-tree pool.
type fuzzyMatch struct {
	id         uint32
	similarity float64
	distance   int
}

func sortFuzzyMatches(matches []fuzzyMatch, names []string) {
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.similarity != b.similarity {
			return a.similarity > b.similarity
		}
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		return names[a.id] < names[b.id]
	})
}

// similarityScore rates name against query as the maximum of an
// order-independent token-set ratio and a weighted whole-string ratio
// that still rewards partial alignment.
func similarityScore(query, name string) float64 {
	score := tokenSetRatio(query, name)
	if w := weightedRatio(query, name); w > score {
		score = w
	}
	return score
}

// ratio is the plain normalized Levenshtein similarity of two strings.
func ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	sim, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return float64(sim)
}

// tokenSetRatio compares the whitespace-delimited token sets of both
// strings regardless of word order: the shared tokens form a common
// base, and the best ratio among base-vs-base+leftovers combinations
// wins. Identical token sets score 1 no matter how they are ordered.
func tokenSetRatio(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var common, onlyA, onlyB []string
	for tok := range setA {
		if _, shared := setB[tok]; shared {
			common = append(common, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range setB {
		if _, shared := setA[tok]; !shared {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(common, " ")
	combinedA := joinTokens(base, strings.Join(onlyA, " "))
	combinedB := joinTokens(base, strings.Join(onlyB, " "))

	best := ratio(combinedA, combinedB)
	if r := ratio(base, combinedA); r > best {
		best = r
	}
	if r := ratio(base, combinedB); r > best {
		best = r
	}
	return best
}

// weightedRatio compares the whole strings but, when the candidate and
// query differ in length, also slides the shorter across the longer and
// keeps the best window alignment at a small discount.
func weightedRatio(a, b string) float64 {
	full := ratio(a, b)
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if shorter == "" {
		return full
	}
	if p := partialRatio(shorter, longer) * partialAlignmentWeight; p > full {
		return p
	}
	return full
}

// partialRatio returns the best ratio between shorter and any
// rune-window of equal length in longer.
func partialRatio(shorter, longer string) float64 {
	sr := []rune(shorter)
	lr := []rune(longer)
	if len(sr) >= len(lr) {
		return ratio(shorter, longer)
	}
	best := 0.0
	for i := 0; i+len(sr) <= len(lr); i++ {
		if r := ratio(shorter, string(lr[i:i+len(sr)])); r > best {
			best = r
			if best == 1 {
				break
			}
		}
	}
	return best
}

func tokenSet(s string) map[string]struct{} {
	tokens := tokenize(s)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

func joinTokens(base, rest string) string {
	if base == "" {
		return rest
	}
	if rest == "" {
		return base
	}
	return base + " " + rest
}
