package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/ulhub/ul-assistant/internal/core/domain"
	"github.com/ulhub/ul-assistant/internal/core/ports"
)

// sparseSearch scores every chunk with the corpus BM25 statistics and
// returns the topK candidates in descending score order.
func sparseSearch(corpus *domain.Corpus, question string, topK int) []domain.ScoredCandidate {
	tokens := domain.TokenizeQuery(question)
	return topCandidates(corpus.Sparse.Scores(tokens), topK)
}

// denseSearch embeds the question and ranks chunks by cosine similarity
// against the corpus embedding matrix.
func denseSearch(ctx context.Context, embedder ports.Embedder, corpus *domain.Corpus, question string, topK int) ([]domain.ScoredCandidate, error) {
	queryVector, err := embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(queryVector) == 0 {
		return nil, fmt.Errorf("empty query embedding")
	}

	scores := make([]float64, corpus.Len())
	for pos, row := range corpus.Embeddings {
		scores[pos] = cosineSimilarity(row, queryVector)
	}
	return topCandidates(scores, topK), nil
}

// topCandidates sorts positions by descending score, breaking ties by
// ascending position so identical inputs always yield identical order,
// then truncates to topK and assigns 1-based ranks.
func topCandidates(scores []float64, topK int) []domain.ScoredCandidate {
	if topK <= 0 {
		return nil
	}

	out := make([]domain.ScoredCandidate, len(scores))
	for pos, score := range scores {
		out[pos] = domain.ScoredCandidate{Position: pos, Score: score}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Position < out[j].Position
	})

	if topK < len(out) {
		out = out[:topK]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func cosineSimilarity(a []float32, b []float32) float64 {
	// A dimension mismatch means the artifact and the live embedder
	// disagree; scoring a prefix would rank on garbage, so treat the
	// pair as unrelated instead.
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
