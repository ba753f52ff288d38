package chunking

import (
	"strings"
	"testing"
)

func TestSplitterWordWindows(t *testing.T) {
	s := NewSplitter(3, 0)
	chunks := s.Split("one two three four five six seven")
	want := []string{"one two three", "four five six", "seven"}
	if len(chunks) != len(want) {
		t.Fatalf("chunks = %v, want %v", chunks, want)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Fatalf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestSplitterOverlap(t *testing.T) {
	s := NewSplitter(4, 2)
	chunks := s.Split("a b c d e f")
	if len(chunks) != 2 {
		t.Fatalf("chunks = %v", chunks)
	}
	if chunks[0] != "a b c d" || chunks[1] != "c d e f" {
		t.Fatalf("overlap windows wrong: %v", chunks)
	}
}

func TestSplitterEmptyInput(t *testing.T) {
	s := NewSplitter(200, 0)
	if got := s.Split("   \n\t "); got != nil {
		t.Fatalf("blank input must yield nil, got %v", got)
	}
}

func TestSplitterNormalizesWhitespace(t *testing.T) {
	s := NewSplitter(200, 0)
	chunks := s.Split("  spaced\t\tout\nwords ")
	if len(chunks) != 1 || chunks[0] != "spaced out words" {
		t.Fatalf("chunks = %v", chunks)
	}
}

func TestSplitterDefaults(t *testing.T) {
	s := NewSplitter(0, -1)
	if s.ChunkWords != 200 || s.Overlap != 0 {
		t.Fatalf("defaults = %+v", s)
	}
	long := strings.Repeat("word ", 450)
	chunks := s.Split(long)
	if len(chunks) != 3 {
		t.Fatalf("450 words at 200/chunk = %d chunks, want 3", len(chunks))
	}
}
