package corpus

import (
	"path/filepath"
	"testing"

	"github.com/ulhub/ul-assistant/internal/core/domain"
)

func sampleCorpus() *domain.Corpus {
	texts := []string{"lero software research", "campus accommodation info"}
	return &domain.Corpus{
		Texts:      texts,
		Metas:      []domain.ChunkMeta{{SourceURL: "https://lero.ie", Source: "web"}, {Source: "md"}},
		Embeddings: [][]float32{{0.1, 0.2}, {0.3, 0.4}},
		Sparse:     domain.BuildSparseIndex(texts),
		EmbedModel: "nomic-embed-text",
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index", "ul_index.gob")
	store := NewStore(path)

	if err := store.Save(sampleCorpus()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("loaded %d chunks, want 2", loaded.Len())
	}
	if loaded.EmbedModel != "nomic-embed-text" {
		t.Fatalf("embed model = %q", loaded.EmbedModel)
	}
	if loaded.Metas[0].SourceURL != "https://lero.ie" {
		t.Fatalf("meta lost in round trip: %+v", loaded.Metas[0])
	}
	if loaded.Sparse.DocCount() != 2 {
		t.Fatalf("sparse index doc count = %d", loaded.Sparse.DocCount())
	}
	scores := loaded.Sparse.Scores([]string{"lero"})
	if scores[0] <= 0 {
		t.Fatalf("sparse stats lost in round trip: %v", scores)
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.gob"))

	_, err := store.Load()
	if err == nil {
		t.Fatal("expected error for missing artifact")
	}
	if !domain.IsKind(err, domain.ErrCorpusNotFound) {
		t.Fatalf("expected corpus-not-found kind, got %v", err)
	}
}

func TestStoreSaveRejectsInvalidCorpus(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "index.gob"))
	broken := sampleCorpus()
	broken.Embeddings = broken.Embeddings[:1]

	if err := store.Save(broken); err == nil {
		t.Fatal("misaligned corpus must not be saved")
	}
}
