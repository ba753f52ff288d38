package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	httpadapter "github.com/ulhub/ul-assistant/internal/adapters/http"
	"github.com/ulhub/ul-assistant/internal/config"
	"github.com/ulhub/ul-assistant/internal/core/ports"
	"github.com/ulhub/ul-assistant/internal/core/usecase"
	"github.com/ulhub/ul-assistant/internal/infrastructure/corpus"
	"github.com/ulhub/ul-assistant/internal/infrastructure/llm/ollama"
	"github.com/ulhub/ul-assistant/internal/infrastructure/queue/nats"
	"github.com/ulhub/ul-assistant/internal/infrastructure/repository/memory"
	"github.com/ulhub/ul-assistant/internal/infrastructure/repository/postgres"
	"github.com/ulhub/ul-assistant/internal/infrastructure/rerank"
	"github.com/ulhub/ul-assistant/internal/infrastructure/resilience"
	"github.com/ulhub/ul-assistant/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	ChatUC  *usecase.ChatUseCase
	Handler http.Handler

	closeFn func()
}

// New wires the full assistant: corpus artifact, Ollama models, the
// optional reranker, session storage, event publishing, and the HTTP
// surface. A corpus whose embedding model does not match the configured
// embedder is a startup failure, not a runtime surprise.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	executor := resilience.NewExecutor(resilience.DefaultConfig(), logger)

	corpusData, err := corpus.NewStore(cfg.IndexPath).Load()
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, cfg.OllamaTimeout, executor)
	embedder := ollama.NewEmbedder(ollamaClient)
	if err := corpusData.CheckEmbedModel(embedder.ModelName()); err != nil {
		return nil, fmt.Errorf("corpus embed model: %w", err)
	}
	planner := ollama.NewPlanner(ollamaClient)
	generator := ollama.NewGenerator(ollamaClient)

	var scorer ports.PairScorer
	if cfg.RerankURL != "" {
		scorer = rerank.NewClient(cfg.RerankURL, cfg.RerankModel, cfg.RerankTimeout, executor, logger)
	} else {
		logger.Warn("reranker not configured, retrieval will run on fused order")
	}

	retrieveUC := usecase.NewRetrieveUseCase(corpusData, embedder, scorer, cfg.RAGCandidateMultiplier, logger)
	classifyUC := usecase.NewClassifyUseCase(planner, logger)
	pipelineUC := usecase.NewPipelineUseCase(classifyUC, retrieveUC, generator, logger)

	closers := make([]func(), 0, 2)

	var store ports.SessionStore
	if cfg.PostgresDSN != "" {
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		repo := postgres.NewSessionRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		store = repo
		closers = append(closers, func() { _ = db.Close() })
	} else {
		logger.Warn("postgres not configured, session history is in-memory only")
		store = memory.NewSessionStore()
	}

	var publisher ports.TurnEventPublisher
	if cfg.NATSURL != "" {
		events, err := nats.NewEventPublisher(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			ResilienceExecutor: executor,
			Logger:             logger,
		})
		if err != nil {
			logger.Warn("turn events disabled", slog.Any("error", err))
		} else {
			publisher = events
			closers = append(closers, events.Close)
		}
	}

	chatUC := usecase.NewChatUseCase(pipelineUC, store, publisher, logger)

	serverMetrics := metrics.NewHTTPServerMetrics("ul-assistant")
	router := httpadapter.NewRouter(chatUC, serverMetrics, logger, httpadapter.Options{
		RateLimitRPS:     cfg.APIRateLimitRPS,
		RateLimitBurst:   cfg.APIRateLimitBurst,
		MaxInFlight:      cfg.APIMaxInFlight,
		BackpressureWait: cfg.APIBackpressureWait,
	})

	logger.Info("assistant wired",
		slog.Int("corpus_chunks", corpusData.Len()),
		slog.String("gen_model", cfg.OllamaGenModel),
		slog.String("embed_model", cfg.OllamaEmbedModel),
		slog.Bool("reranker", scorer != nil),
	)

	return &App{
		Config:  cfg,
		ChatUC:  chatUC,
		Handler: router.Handler(),
		closeFn: func() {
			for _, closeFn := range closers {
				closeFn()
			}
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
