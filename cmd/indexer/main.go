package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ulhub/ul-assistant/internal/config"
	"github.com/ulhub/ul-assistant/internal/core/domain"
	"github.com/ulhub/ul-assistant/internal/infrastructure/chunking"
	"github.com/ulhub/ul-assistant/internal/infrastructure/corpus"
	"github.com/ulhub/ul-assistant/internal/infrastructure/ingest"
	"github.com/ulhub/ul-assistant/internal/infrastructure/llm/ollama"
	"github.com/ulhub/ul-assistant/internal/infrastructure/resilience"
	"github.com/ulhub/ul-assistant/internal/observability/logging"
)

const embedBatchSize = 32

func main() {
	cfg := config.Load()

	inputPath := flag.String("input", "./data/raw/ul_pages.jsonl", "JSONL crawl dump, one {url,title,text} per line")
	mdDir := flag.String("md-dir", "./data/md", "directory of curated markdown notes")
	pdfDir := flag.String("pdf-dir", "./data/pdf", "directory of PDF handbooks")
	indexPath := flag.String("index-path", cfg.IndexPath, "output corpus artifact path")
	flag.Parse()

	logger := logging.NewJSONLogger("ul-indexer", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	loader := ingest.NewLoader(logger)

	var docs []ingest.Document
	for _, load := range []func() ([]ingest.Document, error){
		func() ([]ingest.Document, error) { return loader.LoadJSONL(*inputPath) },
		func() ([]ingest.Document, error) { return loader.LoadMarkdownDir(*mdDir) },
		func() ([]ingest.Document, error) { return loader.LoadPDFDir(*pdfDir) },
	} {
		loaded, err := load()
		if err != nil {
			log.Fatalf("load documents: %v", err)
		}
		docs = append(docs, loaded...)
	}
	if len(docs) == 0 {
		log.Fatalf("no documents found; nothing to index")
	}

	splitter := chunking.NewSplitter(cfg.ChunkWords, cfg.ChunkOverlap)
	texts, metas := chunkAndDedup(docs, splitter)
	if len(texts) == 0 {
		log.Fatalf("documents produced no chunks")
	}
	logger.Info("chunked corpus",
		slog.Int("documents", len(docs)),
		slog.Int("chunks", len(texts)),
	)

	executor := resilience.NewExecutor(resilience.DefaultConfig(), logger)
	embedder := ollama.NewEmbedder(ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, cfg.OllamaTimeout, executor))

	embeddings := make([][]float32, 0, len(texts))
	for offset := 0; offset < len(texts); offset += embedBatchSize {
		end := min(offset+embedBatchSize, len(texts))
		batch, err := embedder.Embed(ctx, texts[offset:end])
		if err != nil {
			log.Fatalf("embed batch at %d: %v", offset, err)
		}
		embeddings = append(embeddings, batch...)
		logger.Debug("embedded batch", slog.Int("done", end), slog.Int("total", len(texts)))
	}

	artifact := &domain.Corpus{
		Texts:      texts,
		Metas:      metas,
		Embeddings: embeddings,
		Sparse:     domain.BuildSparseIndex(texts),
		EmbedModel: embedder.ModelName(),
	}
	if err := corpus.NewStore(*indexPath).Save(artifact); err != nil {
		log.Fatalf("save corpus artifact: %v", err)
	}

	logger.Info("corpus artifact written",
		slog.String("path", *indexPath),
		slog.Int("chunks", len(texts)),
		slog.String("embed_model", artifact.EmbedModel),
		slog.Duration("took", time.Since(start)),
	)
}

// chunkAndDedup splits every document and drops exact duplicate chunks.
// Crawl dumps routinely contain the same boilerplate on many pages;
// duplicates only skew the sparse statistics.
func chunkAndDedup(docs []ingest.Document, splitter *chunking.Splitter) ([]string, []domain.ChunkMeta) {
	seen := make(map[string]struct{})
	var texts []string
	var metas []domain.ChunkMeta

	for _, doc := range docs {
		for _, chunk := range splitter.Split(domain.StripFrontmatter(doc.Text)) {
			key := strings.Join(strings.Fields(chunk), " ")
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			texts = append(texts, chunk)
			metas = append(metas, doc.Meta)
		}
	}
	return texts, metas
}
