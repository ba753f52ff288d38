package usecase

import (
	"math"
	"testing"

	"github.com/ulhub/ul-assistant/internal/core/domain"
)

func scored(positions ...int) []domain.ScoredCandidate {
	out := make([]domain.ScoredCandidate, len(positions))
	for i, pos := range positions {
		out[i] = domain.ScoredCandidate{Position: pos, Score: float64(len(positions) - i), Rank: i + 1}
	}
	return out
}

func TestFuseRRFBothListsAccumulate(t *testing.T) {
	sparse := scored(3, 1, 2)
	dense := scored(1, 4)

	fused := fuseRRF(sparse, dense)
	if len(fused) != 4 {
		t.Fatalf("expected 4 fused candidates, got %d", len(fused))
	}

	want := map[int]float64{
		3: 1.0 / 61,
		1: 1.0/62 + 1.0/61,
		2: 1.0 / 63,
		4: 1.0 / 62,
	}
	for _, c := range fused {
		if math.Abs(c.Score-want[c.Position]) > 1e-12 {
			t.Fatalf("position %d: score = %v, want %v", c.Position, c.Score, want[c.Position])
		}
	}

	if fused[0].Position != 1 {
		t.Fatalf("expected position 1 first (present in both lists), got %d", fused[0].Position)
	}
}

func TestFuseRRFMissingListContributesNothing(t *testing.T) {
	fused := fuseRRF(scored(7), nil)
	if len(fused) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(fused))
	}
	if got, want := fused[0].Score, 1.0/61; math.Abs(got-want) > 1e-12 {
		t.Fatalf("score = %v, want %v", got, want)
	}
}

func TestFuseRRFTiesBreakByPosition(t *testing.T) {
	// Positions 5 and 2 each appear once at rank 1, so their fused
	// scores are identical and the lower position must come first.
	fused := fuseRRF(scored(5), scored(2))
	if fused[0].Position != 2 || fused[1].Position != 5 {
		t.Fatalf("tie order = [%d %d], want [2 5]", fused[0].Position, fused[1].Position)
	}
}

func TestPassthroughRRFPreservesOrder(t *testing.T) {
	fused := passthroughRRF(scored(9, 4, 6))
	wantOrder := []int{9, 4, 6}
	for i, pos := range wantOrder {
		if fused[i].Position != pos {
			t.Fatalf("index %d: position = %d, want %d", i, fused[i].Position, pos)
		}
	}
	if got, want := fused[0].Score, 1.0/61; math.Abs(got-want) > 1e-12 {
		t.Fatalf("rank-1 score = %v, want %v", got, want)
	}
	if fused[1].Score <= fused[2].Score {
		t.Fatalf("expected strictly decreasing scores, got %v then %v", fused[1].Score, fused[2].Score)
	}
}
