package search

import (
	"sort"

	"github.com/nestvec/nestvec/internal/domain/search/query"
	"github.com/nestvec/nestvec/internal/domain/search/result"
)

// fuseWeighted merges dense and sparse results by weighted score sum.
// Cosine similarities and BM25 weights live on incomparable scales, so
// each list is min-max normalized to [0,1] before the weights apply. A
// listing absent from one list contributes zero from that side. The
// dense copy of a listing wins when both lists carry it.
func fuseWeighted(dense, sparse []result.Match, w query.HybridWeights, topK int) []result.Match {
	type fused struct {
		match result.Match
		score float64
	}

	merged := make(map[string]*fused, len(dense)+len(sparse))
	order := make([]string, 0, len(dense)+len(sparse))

	for i, norm := range normalize(dense) {
		m := dense[i]
		merged[m.Listing.ID] = &fused{match: m, score: w.Dense * norm}
		order = append(order, m.Listing.ID)
	}

	for i, norm := range normalize(sparse) {
		m := sparse[i]
		if existing, ok := merged[m.Listing.ID]; ok {
			existing.score += w.Sparse * norm
			continue
		}
		merged[m.Listing.ID] = &fused{match: m, score: w.Sparse * norm}
		order = append(order, m.Listing.ID)
	}

	out := make([]result.Match, 0, len(merged))
	for _, id := range order {
		f := merged[id]
		out = append(out, result.NewScored(f.match.Listing, f.score))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].Score > *out[j].Score
	})

	if len(out) > topK {
		out = out[:topK]
	}
	return out
}

// normalize min-max scales the scores of one list to [0,1]. A list
// whose scores are all equal maps to all ones: within its own space
// every hit is equally best.
func normalize(matches []result.Match) []float64 {
	if len(matches) == 0 {
		return nil
	}

	lo, hi := scoreOf(matches[0]), scoreOf(matches[0])
	for _, m := range matches[1:] {
		s := scoreOf(m)
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}

	norms := make([]float64, len(matches))
	for i, m := range matches {
		if hi > lo {
			norms[i] = (scoreOf(m) - lo) / (hi - lo)
		} else {
			norms[i] = 1.0
		}
	}
	return norms
}

func scoreOf(m result.Match) float64 {
	if m.Score == nil {
		return 0
	}
	return *m.Score
}
