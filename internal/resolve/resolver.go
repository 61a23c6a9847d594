// Package resolve maps raw candidate strings onto canonical domain codes.
//
// Resolution is a four-tier policy, short-circuiting on the first hit:
//
//  1. Exact membership in the category's allowed set.
//  2. Alias lookup — model numbers for equipment, literal example
//     phrasings for fault and request codes.
//  3. Fuzzy similarity — a normalized, case-insensitive Levenshtein ratio
//     against every allowed value; the best score wins if it clears the
//     configured threshold, ties keeping the first-encountered value in
//     the allowed list's row order.
//  4. No match — nil result.
//
// The resolver only ever emits a member of the allowed set or nothing.
// That invariant is what keeps a hallucinated reasoning-service value from
// leaking an out-of-vocabulary code into downstream ticketing.
package resolve

import (
	"log/slog"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/daehyun-cc/callticket/internal/vocab"
)

// defaultThreshold is the minimum similarity ratio for a fuzzy match. The
// value is inherited from the reference system; it is configurable, not
// tuned.
const defaultThreshold = 0.8

// Option is a functional option for configuring a [Resolver].
type Option func(*Resolver)

// WithThreshold overrides the minimum similarity ratio required for a
// tier-3 fuzzy match. Default: 0.8.
func WithThreshold(t float64) Option {
	return func(r *Resolver) {
		r.threshold = t
	}
}

// Resolver resolves candidates against vocabulary snapshots. It holds only
// configuration and is safe for concurrent use.
type Resolver struct {
	threshold float64
}

// New returns a Resolver with the supplied options applied.
func New(opts ...Option) *Resolver {
	r := &Resolver{threshold: defaultThreshold}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve maps candidate to a canonical code in the given category, or ""
// when the candidate is empty or unmappable. The boolean reports whether a
// canonical value was produced.
func (r *Resolver) Resolve(candidate string, category vocab.Category, v *vocab.Vocabulary) (string, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" || v == nil {
		return "", false
	}

	if v.Contains(category, candidate) {
		return candidate, true
	}

	if mapped, ok := v.Alias(category, candidate); ok {
		slog.Debug("alias mapping", "category", category, "from", candidate, "to", mapped)
		return mapped, true
	}

	if best, score, ok := r.bestMatch(candidate, v.Allowed(category)); ok {
		slog.Info("similarity mapping",
			"category", category,
			"from", candidate,
			"to", best,
			"score", score,
		)
		return best, true
	}

	slog.Warn("unresolvable candidate", "category", category, "value", candidate)
	return "", false
}

// bestMatch scans allowed in order and keeps the highest-scoring value at
// or above the threshold. A later value must strictly beat the incumbent,
// so equal scores resolve to the earlier table row.
func (r *Resolver) bestMatch(candidate string, allowed []string) (string, float64, bool) {
	var (
		best      string
		bestScore float64
	)
	for _, value := range allowed {
		score := Similarity(candidate, value)
		if score >= r.threshold && score > bestScore {
			best = value
			bestScore = score
		}
	}
	return best, bestScore, best != ""
}

// Similarity is the normalized case-insensitive Levenshtein ratio between
// two strings, in [0, 1]. 1 means equal (ignoring case), 0 means entirely
// different or either string empty.
//
// The ratio is deliberately a plain edit-distance measure rather than a
// semantic one — it is explainable and deterministic, and the 0.8
// threshold was chosen against it.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	ua := strings.ToUpper(a)
	ub := strings.ToUpper(b)
	if ua == ub {
		return 1
	}
	la := len([]rune(ua))
	lb := len([]rune(ub))
	longest := la
	if lb > longest {
		longest = lb
	}
	dist := matchr.Levenshtein(ua, ub)
	if dist >= longest {
		return 0
	}
	return 1 - float64(dist)/float64(longest)
}
