package corpus

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ulhub/ul-assistant/internal/core/domain"
)

// artifact is the on-disk shape of the index. It exists separately from
// domain.Corpus so the storage encoding can evolve without touching the
// domain type.
type artifact struct {
	Texts      []string
	Metas      []domain.ChunkMeta
	Embeddings [][]float32
	Sparse     *domain.SparseIndex
	EmbedModel string
}

// Store reads and writes the indexed corpus artifact as a single gob
// file. The artifact is produced offline by the indexer and loaded once
// at API startup.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads and validates the artifact. A missing file is reported as
// a corpus-not-found configuration error so the caller can refuse to
// start.
func (s *Store) Load() (*domain.Corpus, error) {
	const op = "corpus.Load"

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.WrapError(domain.ErrCorpusNotFound, op,
				fmt.Errorf("index file %s does not exist, run the indexer first", s.path))
		}
		return nil, fmt.Errorf("%s: open %s: %w", op, s.path, err)
	}
	defer f.Close()

	var a artifact
	if err := gob.NewDecoder(f).Decode(&a); err != nil {
		return nil, domain.WrapError(domain.ErrCorpusNotFound, op,
			fmt.Errorf("decode index file %s: %w", s.path, err))
	}

	c := &domain.Corpus{
		Texts:      a.Texts,
		Metas:      a.Metas,
		Embeddings: a.Embeddings,
		Sparse:     a.Sparse,
		EmbedModel: a.EmbedModel,
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// Save validates and writes the artifact atomically: a partial write
// must never be loadable as a corpus.
func (s *Store) Save(c *domain.Corpus) error {
	const op = "corpus.Save"

	if err := c.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%s: create index dir: %w", op, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".index-*.tmp")
	if err != nil {
		return fmt.Errorf("%s: create temp file: %w", op, err)
	}
	defer os.Remove(tmp.Name())

	a := artifact{
		Texts:      c.Texts,
		Metas:      c.Metas,
		Embeddings: c.Embeddings,
		Sparse:     c.Sparse,
		EmbedModel: c.EmbedModel,
	}
	if err := gob.NewEncoder(tmp).Encode(&a); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: encode index: %w", op, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: close temp file: %w", op, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%s: replace index file: %w", op, err)
	}
	return nil
}
