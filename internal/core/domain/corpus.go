package domain

import "fmt"

// ChunkMeta describes where a chunk came from.
type ChunkMeta struct {
	SourceURL string `json:"source_url,omitempty"`
	Title     string `json:"title,omitempty"`
	Source    string `json:"source,omitempty"`
}

// SourceRef picks the best available reference for citations, in order
// of usefulness to the reader.
func (m ChunkMeta) SourceRef() string {
	switch {
	case m.SourceURL != "":
		return m.SourceURL
	case m.Source != "":
		return m.Source
	default:
		return "document"
	}
}

// Chunk is one indexed passage. Position is the shared key across the
// sparse index and the embedding matrix.
type Chunk struct {
	Position int       `json:"position"`
	Text     string    `json:"text"`
	Meta     ChunkMeta `json:"meta"`
}

// Corpus is the read-only indexed corpus a pipeline instance serves.
// Texts, Metas and Embeddings are aligned by position; after load the
// corpus is never mutated, so it is safe to share across turns.
type Corpus struct {
	Texts      []string
	Metas      []ChunkMeta
	Embeddings [][]float32
	Sparse     *SparseIndex
	EmbedModel string
}

func (c *Corpus) Len() int {
	return len(c.Texts)
}

// Validate checks the alignment invariant. A broken artifact is a fatal
// configuration error; the pipeline must not start on it.
func (c *Corpus) Validate() error {
	if len(c.Texts) == 0 {
		return WrapError(ErrCorpusNotFound, "validate corpus", fmt.Errorf("corpus has no chunks"))
	}
	if len(c.Metas) != len(c.Texts) {
		return WrapError(ErrInvalidInput, "validate corpus",
			fmt.Errorf("metas count %d != texts count %d", len(c.Metas), len(c.Texts)))
	}
	if len(c.Embeddings) != len(c.Texts) {
		return WrapError(ErrInvalidInput, "validate corpus",
			fmt.Errorf("embeddings count %d != texts count %d", len(c.Embeddings), len(c.Texts)))
	}
	if c.Sparse == nil || c.Sparse.DocCount() != len(c.Texts) {
		return WrapError(ErrInvalidInput, "validate corpus", fmt.Errorf("sparse index missing or misaligned"))
	}
	if c.EmbedModel == "" {
		return WrapError(ErrInvalidInput, "validate corpus", fmt.Errorf("embed model id is empty"))
	}
	return nil
}

// CheckEmbedModel rejects a runtime embedder whose model identity does
// not match the one the artifact was built with.
func (c *Corpus) CheckEmbedModel(model string) error {
	if model != c.EmbedModel {
		return WrapError(ErrModelMismatch, "check embed model",
			fmt.Errorf("corpus built with %q, runtime embedder is %q", c.EmbedModel, model))
	}
	return nil
}
