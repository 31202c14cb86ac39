package search

import (
	"sort"
	"strings"
)

const (
	scoreExact    = 10
	scorePrefix   = 5
	scoreContains = 2
)

// Relevance scores name against the query variants. The original query
// weighs more than its aliases.
func Relevance(name string, variants []string) float64 {
	n := Normalize(name)
	if n == "" || len(variants) == 0 {
		return 0
	}

	best := 0.0
	for i, v := range variants {
		if v == "" {
			continue
		}
		s := 0.0
		switch {
		case n == v:
			s = scoreExact
		case strings.HasPrefix(n, v):
			s = scorePrefix
		case strings.Contains(n, v):
			s = scoreContains
		}
		if i > 0 {
			s *= 0.8
		}
		if s > best {
			best = s
		}
	}
	return best
}

// Rank keeps the items that match q and orders them by relevance. Ties keep
// input order. An empty query returns items unchanged.
func Rank[T any](items []T, name func(T) string, q Query) []T {
	if q.Empty() {
		return items
	}

	type scored struct {
		item  T
		score float64
	}
	hits := make([]scored, 0, len(items))
	for _, it := range items {
		if s := Relevance(name(it), q.Variants); s > 0 {
			hits = append(hits, scored{item: it, score: s})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	out := make([]T, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.item)
	}
	return out
}
