package usecase

import (
	"math"
	"testing"
)

func TestTopCandidatesOrderAndRanks(t *testing.T) {
	scores := []float64{0.1, 0.9, 0.5, 0.9}

	top := topCandidates(scores, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(top))
	}
	// 0.9 ties on positions 1 and 3; lower position wins.
	wantPositions := []int{1, 3, 2}
	for i, c := range top {
		if c.Position != wantPositions[i] {
			t.Fatalf("index %d: position = %d, want %d", i, c.Position, wantPositions[i])
		}
		if c.Rank != i+1 {
			t.Fatalf("index %d: rank = %d, want %d", i, c.Rank, i+1)
		}
	}
}

func TestTopCandidatesSmallerThanK(t *testing.T) {
	top := topCandidates([]float64{0.2, 0.7}, 10)
	if len(top) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(top))
	}
}

func TestTopCandidatesNonPositiveK(t *testing.T) {
	if got := topCandidates([]float64{0.5}, 0); got != nil {
		t.Fatalf("expected nil for topK=0, got %v", got)
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{1, 0}
	if got := cosineSimilarity(a, b); math.Abs(got-1) > 1e-9 {
		t.Fatalf("parallel vectors: got %v, want 1", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 1}); math.Abs(got) > 1e-9 {
		t.Fatalf("orthogonal vectors: got %v, want 0", got)
	}
	if got := cosineSimilarity([]float32{0, 0}, []float32{1, 1}); got != 0 {
		t.Fatalf("zero vector: got %v, want 0", got)
	}
}

func TestCosineSimilarityDimensionMismatch(t *testing.T) {
	// A 768-dim artifact row against a 1024-dim query must not be scored
	// on the overlapping prefix.
	if got := cosineSimilarity([]float32{1, 0, 0}, []float32{1, 0}); got != 0 {
		t.Fatalf("mismatched dimensions: got %v, want 0", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}); got != 0 {
		t.Fatalf("mismatched dimensions: got %v, want 0", got)
	}
}
