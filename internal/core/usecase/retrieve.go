package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/ulhub/ul-assistant/internal/core/domain"
	"github.com/ulhub/ul-assistant/internal/core/ports"
)

// defaultCandidateMultiplier sizes the fusion pool relative to the
// requested chunk count so the reranker has room to reorder.
const defaultCandidateMultiplier = 8

// RetrieveUseCase runs the hybrid retrieval pipeline over an in-memory
// corpus: sparse and dense ranking, reciprocal rank fusion, then an
// optional rerank pass over the fused pool.
type RetrieveUseCase struct {
	corpus     *domain.Corpus
	embedder   ports.Embedder
	scorer     ports.PairScorer
	multiplier int
	logger     *slog.Logger
}

func NewRetrieveUseCase(corpus *domain.Corpus, embedder ports.Embedder, scorer ports.PairScorer, candidateMultiplier int, logger *slog.Logger) *RetrieveUseCase {
	if candidateMultiplier <= 0 {
		candidateMultiplier = defaultCandidateMultiplier
	}
	return &RetrieveUseCase{
		corpus:     corpus,
		embedder:   embedder,
		scorer:     scorer,
		multiplier: candidateMultiplier,
		logger:     logger,
	}
}

// Retrieve returns at most maxChunks passages for the question, best
// first. A blank question or non-positive maxChunks yields an empty
// result without touching any ranker. Reranker failure is not a turn
// failure: the fused order is served and the result flagged degraded.
func (uc *RetrieveUseCase) Retrieve(ctx context.Context, question string, mode domain.RetrievalMode, maxChunks int) (*domain.RetrievalResult, error) {
	const op = "usecase.Retrieve"

	if strings.TrimSpace(question) == "" || maxChunks <= 0 {
		return &domain.RetrievalResult{}, nil
	}
	if !mode.Valid() {
		mode = domain.ModeHybrid
	}
	if err := uc.corpus.Validate(); err != nil {
		return nil, domain.WrapError(domain.ErrCorpusNotFound, op, err)
	}

	poolSize := maxChunks * uc.multiplier
	fused, err := uc.fusedPool(ctx, question, mode, poolSize)
	if err != nil {
		return nil, domain.WrapError(domain.ErrTemporary, op, err)
	}
	if len(fused) > poolSize {
		fused = fused[:poolSize]
	}
	if len(fused) == 0 {
		return &domain.RetrievalResult{}, nil
	}

	ordered, degraded := uc.rerank(ctx, question, fused)
	if len(ordered) > maxChunks {
		ordered = ordered[:maxChunks]
	}

	passages := make([]domain.RankedPassage, len(ordered))
	for i, c := range ordered {
		passages[i] = domain.RankedPassage{
			Text:  uc.corpus.Texts[c.Position],
			Meta:  uc.corpus.Metas[c.Position],
			Score: c.Score,
			Rank:  i + 1,
		}
	}
	return &domain.RetrievalResult{Passages: passages, Degraded: degraded}, nil
}

// fusedPool produces the candidate pool for the requested mode. In
// hybrid mode the two rankers run concurrently; fusion itself stays
// deterministic because it operates on the completed lists.
func (uc *RetrieveUseCase) fusedPool(ctx context.Context, question string, mode domain.RetrievalMode, poolSize int) ([]domain.FusedCandidate, error) {
	switch mode {
	case domain.ModeSparseOnly:
		return passthroughRRF(sparseSearch(uc.corpus, question, poolSize)), nil
	case domain.ModeDenseOnly:
		dense, err := denseSearch(ctx, uc.embedder, uc.corpus, question, poolSize)
		if err != nil {
			return nil, err
		}
		return passthroughRRF(dense), nil
	default:
		var (
			wg       sync.WaitGroup
			sparse   []domain.ScoredCandidate
			dense    []domain.ScoredCandidate
			denseErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			sparse = sparseSearch(uc.corpus, question, poolSize)
		}()
		go func() {
			defer wg.Done()
			dense, denseErr = denseSearch(ctx, uc.embedder, uc.corpus, question, poolSize)
		}()
		wg.Wait()
		if denseErr != nil {
			return nil, denseErr
		}
		return fuseRRF(sparse, dense), nil
	}
}

// rerank asks the pair scorer to reorder the fused pool. Any failure,
// including a score-count mismatch, falls back to the fused order.
func (uc *RetrieveUseCase) rerank(ctx context.Context, question string, fused []domain.FusedCandidate) ([]domain.FusedCandidate, bool) {
	if uc.scorer == nil {
		return fused, true
	}

	passages := make([]string, len(fused))
	for i, c := range fused {
		passages[i] = uc.corpus.Texts[c.Position]
	}
	scores, err := uc.scorer.ScorePairs(ctx, question, passages)
	if err != nil || len(scores) != len(fused) {
		if uc.logger != nil {
			uc.logger.Warn("reranker unavailable, serving fused order",
				slog.Int("pool", len(fused)),
				slog.Any("error", err))
		}
		return fused, true
	}

	ordered := make([]domain.FusedCandidate, len(fused))
	for i, c := range fused {
		ordered[i] = domain.FusedCandidate{Position: c.Position, Score: scores[i]}
	}
	sortFused(ordered)
	return ordered, false
}
