package domain

import (
	"math"
	"strings"
)

// BM25 parameters for the sparse index.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// SparseIndex holds BM25 term statistics for the corpus, aligned with
// chunk positions. Fields are exported so the artifact can be encoded.
type SparseIndex struct {
	DocTermFreqs []map[string]int
	DocLens      []int
	DocFreqs     map[string]int
	AvgDocLen    float64
}

// TokenizeQuery applies the same scheme used at index-build time:
// lowercase, whitespace split.
func TokenizeQuery(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// BuildSparseIndex computes BM25 statistics over the chunk texts.
func BuildSparseIndex(texts []string) *SparseIndex {
	idx := &SparseIndex{
		DocTermFreqs: make([]map[string]int, len(texts)),
		DocLens:      make([]int, len(texts)),
		DocFreqs:     make(map[string]int),
	}

	totalLen := 0
	for i, text := range texts {
		tokens := TokenizeQuery(text)
		tf := make(map[string]int, len(tokens))
		for _, token := range tokens {
			tf[token]++
		}
		idx.DocTermFreqs[i] = tf
		idx.DocLens[i] = len(tokens)
		totalLen += len(tokens)
		for token := range tf {
			idx.DocFreqs[token]++
		}
	}
	if len(texts) > 0 {
		idx.AvgDocLen = float64(totalLen) / float64(len(texts))
	}
	return idx
}

func (idx *SparseIndex) DocCount() int {
	return len(idx.DocTermFreqs)
}

// Scores returns one BM25 score per chunk position for the query tokens.
func (idx *SparseIndex) Scores(tokens []string) []float64 {
	scores := make([]float64, idx.DocCount())
	if len(tokens) == 0 || idx.DocCount() == 0 {
		return scores
	}

	n := float64(idx.DocCount())
	for _, token := range tokens {
		df, ok := idx.DocFreqs[token]
		if !ok {
			continue
		}
		idf := math.Log((n-float64(df)+0.5)/(float64(df)+0.5) + 1.0)
		for pos, tf := range idx.DocTermFreqs {
			freq := float64(tf[token])
			if freq == 0 {
				continue
			}
			norm := 1.0 - bm25B + bm25B*float64(idx.DocLens[pos])/idx.AvgDocLen
			scores[pos] += idf * freq * (bm25K1 + 1.0) / (freq + bm25K1*norm)
		}
	}
	return scores
}
