package domain

// RetrievalMode selects which rankers feed the fuser.
type RetrievalMode string

const (
	ModeHybrid     RetrievalMode = "hybrid"
	ModeDenseOnly  RetrievalMode = "dense_only"
	ModeSparseOnly RetrievalMode = "sparse_only"
)

func (m RetrievalMode) Valid() bool {
	switch m {
	case ModeHybrid, ModeDenseOnly, ModeSparseOnly:
		return true
	default:
		return false
	}
}

// ScoredCandidate is one ranker's view of a chunk: its raw score and
// 1-based rank within that ranker's own descending order.
type ScoredCandidate struct {
	Position int
	Score    float64
	Rank     int
}

// FusedCandidate carries the reciprocal-rank-fusion score for a chunk
// position. The score orders candidates; it is not a probability.
type FusedCandidate struct {
	Position int
	Score    float64
}

// RankedPassage is the final retrieval output unit, rank 1 = most
// relevant.
type RankedPassage struct {
	Text  string    `json:"text"`
	Meta  ChunkMeta `json:"meta"`
	Score float64   `json:"score"`
	Rank  int       `json:"rank"`
}

// RetrievalResult is the retrieval facade output. Degraded is set when
// the reranker was unavailable and the fused order was served instead.
type RetrievalResult struct {
	Passages []RankedPassage
	Degraded bool
}

// Citation points an answer statement back at a retrieved source.
type Citation struct {
	N      int    `json:"n"`
	Source string `json:"source"`
}
