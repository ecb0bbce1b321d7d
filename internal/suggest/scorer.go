package suggest

import "strings"

// ScoreOptions carries the curated lists that boost a candidate. Membership
// checks are done on normalized strings.
type ScoreOptions struct {
	Popular  map[string]bool
	Trending map[string]bool
	Featured map[string]bool
}

// Tuning constants. The point values are arbitrary; what matters is the
// resulting order: exact > prefix > substring > token overlap.
const (
	exactScore     = 1000.0
	prefixBase     = 400.0
	prefixTaperLen = 20
	substringBase  = 150.0
	tokenScore     = 40.0

	popularBonus  = 60.0
	trendingBonus = 80.0
	featuredBonus = 50.0

	maxFreeLen   = 40
	lenPenalty   = 1.5 // per rune past maxFreeLen
	maxFreeWords = 5
	wordPenalty  = 10.0
)

// Normalize lower-cases and collapses whitespace; it is the cache key and the
// comparison form for scoring.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Score ranks a candidate suggestion against a partial query. Zero means the
// candidate is unrelated and should be dropped.
func Score(query, candidate string, opts ScoreOptions) float64 {
	q := Normalize(query)
	c := Normalize(candidate)
	if q == "" || c == "" {
		return 0
	}

	var score float64
	matched := false

	switch {
	case c == q:
		score += exactScore
		matched = true
	case strings.HasPrefix(c, q):
		// the closer in length, the stronger the prefix match; taper past
		// prefixTaperLen so absurdly long candidates don't zero out entirely
		diff := len(c) - len(q)
		if diff > prefixTaperLen {
			diff = prefixTaperLen
		}
		score += prefixBase * float64(prefixTaperLen-diff+1) / float64(prefixTaperLen+1)
		matched = true
	default:
		if pos := strings.Index(c, q); pos >= 0 {
			// earlier occurrences weigh more
			score += substringBase / float64(pos+1)
			matched = true
		}
	}

	// per-word token overlap
	qTokens := strings.Fields(q)
	cTokens := map[string]bool{}
	for _, t := range strings.Fields(c) {
		cTokens[t] = true
	}
	for _, t := range qTokens {
		if cTokens[t] {
			score += tokenScore
			matched = true
		}
	}

	if !matched {
		return 0
	}

	if opts.Popular[c] {
		score += popularBonus
	}
	if opts.Trending[c] {
		score += trendingBonus
	}
	if opts.Featured[c] {
		score += featuredBonus
	}

	if n := len([]rune(c)); n > maxFreeLen {
		score -= float64(n-maxFreeLen) * lenPenalty
	}
	if w := len(strings.Fields(c)); w > maxFreeWords {
		score -= float64(w-maxFreeWords) * wordPenalty
	}

	if score < 0 {
		return 0
	}
	return score
}
