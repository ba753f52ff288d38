package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadJSONLSkipsBadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.jsonl")
	content := `{"text":"Lero is the software research centre","url":"https://lero.ie","title":"Lero"}
not json at all
{"text":"","url":"https://ul.ie/empty"}

{"text":"CSIS teaches computer science","url":"https://ul.ie/csis","title":"CSIS"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	docs, err := NewLoader(nil).LoadJSONL(path)
	if err != nil {
		t.Fatalf("LoadJSONL() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("docs = %d, want 2", len(docs))
	}
	if docs[0].Meta.SourceURL != "https://lero.ie" || docs[0].Meta.Source != "web" {
		t.Fatalf("unexpected meta: %+v", docs[0].Meta)
	}
	if docs[1].Text != "CSIS teaches computer science" {
		t.Fatalf("unexpected text: %q", docs[1].Text)
	}
}

func TestLoadJSONLMissingFile(t *testing.T) {
	docs, err := NewLoader(nil).LoadJSONL(filepath.Join(t.TempDir(), "missing.jsonl"))
	if err != nil {
		t.Fatalf("missing jsonl must be skipped, got error %v", err)
	}
	if docs != nil {
		t.Fatalf("expected no docs, got %v", docs)
	}
}

func TestLoadMarkdownDirRecursive(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"a.md":        "# Accommodation\nOn-campus options.",
		"sub/b.md":    "# CSIS\nDepartment info.",
		"ignored.txt": "not markdown",
		"empty.md":    "   ",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := NewLoader(nil).LoadMarkdownDir(dir)
	if err != nil {
		t.Fatalf("LoadMarkdownDir() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("docs = %d, want 2", len(docs))
	}
	for _, d := range docs {
		if d.Meta.Source != "md" || d.Meta.Title == "" {
			t.Fatalf("unexpected meta: %+v", d.Meta)
		}
	}
}

func TestLoadMarkdownDirMissing(t *testing.T) {
	docs, err := NewLoader(nil).LoadMarkdownDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil || docs != nil {
		t.Fatalf("missing dir must be skipped, got %v, %v", docs, err)
	}
}

func TestLoadPDFDirMissing(t *testing.T) {
	docs, err := NewLoader(nil).LoadPDFDir("")
	if err != nil || docs != nil {
		t.Fatalf("empty dir path must be skipped, got %v, %v", docs, err)
	}
}
