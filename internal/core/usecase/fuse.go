package usecase

import (
	"sort"

	"github.com/ulhub/ul-assistant/internal/core/domain"
)

// rrfK is the fixed reciprocal-rank-fusion damping constant. It is
// deliberately not a per-plan tunable.
const rrfK = 60

// fuseRRF combines the sparse and dense rank lists with reciprocal rank
// fusion: each list a position appears in contributes 1/(K+rank), a
// missing appearance contributes nothing. Rank-based fusion means the
// unbounded BM25 scale and the bounded cosine scale never need
// calibration against each other.
func fuseRRF(sparse, dense []domain.ScoredCandidate) []domain.FusedCandidate {
	acc := make(map[int]float64, len(sparse)+len(dense))
	for _, c := range sparse {
		acc[c.Position] += 1.0 / float64(rrfK+c.Rank)
	}
	for _, c := range dense {
		acc[c.Position] += 1.0 / float64(rrfK+c.Rank)
	}

	out := make([]domain.FusedCandidate, 0, len(acc))
	for pos, score := range acc {
		out = append(out, domain.FusedCandidate{Position: pos, Score: score})
	}
	sortFused(out)
	return out
}

// passthroughRRF maps a single ranker's list into fused candidates with
// the reciprocal-rank transform, preserving that ranker's order.
func passthroughRRF(list []domain.ScoredCandidate) []domain.FusedCandidate {
	out := make([]domain.FusedCandidate, 0, len(list))
	for _, c := range list {
		out = append(out, domain.FusedCandidate{Position: c.Position, Score: 1.0 / float64(rrfK+c.Rank)})
	}
	sortFused(out)
	return out
}

func sortFused(candidates []domain.FusedCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Position < candidates[j].Position
	})
}
