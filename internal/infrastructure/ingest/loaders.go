package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ulhub/ul-assistant/internal/core/domain"
)

// Document is one raw source document before chunking.
type Document struct {
	Text string
	Meta domain.ChunkMeta
}

// Loader pulls raw documents from the three supported sources: a JSONL
// crawl dump, a directory of markdown files, and a directory of PDFs.
// Missing sources are skipped with a log line, not an error, so partial
// corpora can still be indexed.
type Loader struct {
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

type jsonlRecord struct {
	Text  string `json:"text"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// LoadJSONL reads one crawled page per line. Malformed lines and empty
// texts are skipped silently; a crawl dump always has a few.
func (l *Loader) LoadJSONL(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn("jsonl input not found, skipping", slog.String("path", path))
			return nil, nil
		}
		return nil, fmt.Errorf("open jsonl %s: %w", path, err)
	}
	defer f.Close()

	var docs []Document
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec jsonlRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		text := strings.TrimSpace(rec.Text)
		if text == "" {
			continue
		}
		docs = append(docs, Document{
			Text: text,
			Meta: domain.ChunkMeta{SourceURL: rec.URL, Title: rec.Title, Source: "web"},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read jsonl %s: %w", path, err)
	}
	l.logger.Info("loaded web docs", slog.Int("count", len(docs)), slog.String("path", path))
	return docs, nil
}

// LoadMarkdownDir walks dir recursively for .md files.
func (l *Loader) LoadMarkdownDir(dir string) ([]Document, error) {
	if !isDir(dir) {
		l.logger.Info("markdown directory not found, skipping", slog.String("dir", dir))
		return nil, nil
	}

	var docs []Document
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			l.logger.Warn("failed to read markdown file", slog.String("path", path), slog.Any("error", err))
			return nil
		}
		text := strings.TrimSpace(string(raw))
		if text == "" {
			return nil
		}
		docs = append(docs, Document{
			Text: text,
			Meta: domain.ChunkMeta{Title: filepath.Base(path), Source: "md"},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown dir %s: %w", dir, err)
	}
	l.logger.Info("loaded markdown docs", slog.Int("count", len(docs)), slog.String("dir", dir))
	return docs, nil
}

// LoadPDFDir walks dir recursively for .pdf files. Extraction failures
// skip the file; a single broken PDF must not abort the whole build.
func (l *Loader) LoadPDFDir(dir string) ([]Document, error) {
	if !isDir(dir) {
		l.logger.Info("pdf directory not found, skipping", slog.String("dir", dir))
		return nil, nil
	}

	var docs []Document
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil
		}
		text, err := extractPDFText(path)
		if err != nil {
			l.logger.Warn("failed to extract pdf text", slog.String("path", path), slog.Any("error", err))
			return nil
		}
		if text == "" {
			return nil
		}
		docs = append(docs, Document{
			Text: text,
			Meta: domain.ChunkMeta{Title: filepath.Base(path), Source: "pdf"},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk pdf dir %s: %w", dir, err)
	}
	l.logger.Info("loaded pdf docs", slog.Int("count", len(docs)), slog.String("dir", dir))
	return docs, nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	content, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(&b, content); err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(b.String()), " "), nil
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
