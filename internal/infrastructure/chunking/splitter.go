package chunking

import "strings"

// Splitter cuts a document into fixed-size word windows. Word-based
// splitting keeps chunk boundaries aligned with the whitespace
// tokenization used by the sparse index.
type Splitter struct {
	ChunkWords int
	Overlap    int
}

func NewSplitter(chunkWords, overlap int) *Splitter {
	if chunkWords <= 0 {
		chunkWords = 200
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkWords {
		overlap = chunkWords / 4
	}
	return &Splitter{
		ChunkWords: chunkWords,
		Overlap:    overlap,
	}
}

func (s *Splitter) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := s.ChunkWords - s.Overlap
	if step <= 0 {
		step = s.ChunkWords
	}

	out := make([]string, 0, len(words)/step+1)
	for start := 0; start < len(words); start += step {
		end := start + s.ChunkWords
		if end > len(words) {
			end = len(words)
		}
		out = append(out, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return out
}
