// Package dedupe assigns near-duplicate names to a canonical representative
// using token-set similarity. The grouping is greedy and order-sensitive:
// the first name seen in a similarity group becomes its representative.
package dedupe

import (
	"strings"

	"github.com/rotisserie/eris"
)

// TokenSetRatio scores the similarity of two strings on a 0–100 scale using
// Jaccard overlap of their deduplicated, lowercased token sets. Word order
// and repeated words do not affect the score.
func TokenSetRatio(a, b string) float64 {
	return ratio(tokenSet(a), tokenSet(b))
}

// ValidateThreshold rejects similarity thresholds outside [0,100]. Callers
// check this at the boundary, before any row is processed.
func ValidateThreshold(threshold int) error {
	if threshold < 0 || threshold > 100 {
		return eris.Errorf("dedupe: similarity threshold %d out of range [0,100]", threshold)
	}
	return nil
}

// Registry is the append-only ordered list of canonical representatives
// accumulated during one grouping pass.
type Registry struct {
	reps []rep
}

type rep struct {
	name   string
	tokens map[string]bool
}

// Add registers a new representative.
func (r *Registry) Add(name string) {
	r.reps = append(r.reps, rep{name: name, tokens: tokenSet(name)})
}

// Len returns the number of registered representatives.
func (r *Registry) Len() int { return len(r.reps) }

// Best returns the highest-scoring representative for name. Ties break to
// the earliest-registered representative, never on map iteration order.
// With an empty registry it returns ("", 0).
func (r *Registry) Best(name string) (string, float64) {
	target := tokenSet(name)

	bestName := ""
	bestScore := 0.0
	for i, rp := range r.reps {
		// Strict > keeps the first-registered winner on ties.
		if score := ratio(rp.tokens, target); i == 0 || score > bestScore {
			bestName = rp.name
			bestScore = score
		}
	}
	return bestName, bestScore
}

// Assign maps each name to its canonical representative in a single forward
// pass. Empty names pass through unchanged and are never registered. A name
// whose best score meets the threshold (inclusive) takes that representative;
// otherwise it becomes a new representative itself. The output has the same
// length and order as the input.
func Assign(names []string, threshold int) ([]string, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}

	reg := &Registry{}
	out := make([]string, len(names))
	for i, name := range names {
		if name == "" {
			continue
		}

		if best, score := reg.Best(name); reg.Len() > 0 && score >= float64(threshold) {
			out[i] = best
			continue
		}

		out[i] = name
		reg.Add(name)
	}
	return out, nil
}

func tokenSet(s string) map[string]bool {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

func ratio(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for w := range a {
		if b[w] {
			intersection++
		}
	}

	// Single division keeps exact scores (50, 60, 100) exact, which matters
	// for inclusive threshold comparisons.
	union := len(a) + len(b) - intersection
	return float64(100*intersection) / float64(union)
}
