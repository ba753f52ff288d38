package config

import (
	"testing"
	"time"
)

func TestLoadRetrievalDefaults(t *testing.T) {
	t.Setenv("RAG_CANDIDATE_MULTIPLIER", "")
	t.Setenv("OLLAMA_EMBED_MODEL", "")
	t.Setenv("RERANK_TIMEOUT", "")

	cfg := Load()
	if cfg.RAGCandidateMultiplier != 8 {
		t.Fatalf("expected default candidate multiplier 8, got %d", cfg.RAGCandidateMultiplier)
	}
	if cfg.OllamaEmbedModel != "nomic-embed-text" {
		t.Fatalf("expected default embed model, got %q", cfg.OllamaEmbedModel)
	}
	if cfg.RerankTimeout != 30*time.Second {
		t.Fatalf("expected default rerank timeout 30s, got %s", cfg.RerankTimeout)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("RAG_CANDIDATE_MULTIPLIER", "4")
	t.Setenv("OLLAMA_TIMEOUT", "45s")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")

	cfg := Load()
	if cfg.RAGCandidateMultiplier != 4 {
		t.Fatalf("expected candidate multiplier 4, got %d", cfg.RAGCandidateMultiplier)
	}
	if cfg.OllamaTimeout != 45*time.Second {
		t.Fatalf("expected ollama timeout 45s, got %s", cfg.OllamaTimeout)
	}
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit 2.5 rps, got %v", cfg.APIRateLimitRPS)
	}
}

func TestLoadFallsBackOnUnparsableValues(t *testing.T) {
	t.Setenv("RAG_CANDIDATE_MULTIPLIER", "lots")
	t.Setenv("OLLAMA_TIMEOUT", "soon")

	cfg := Load()
	if cfg.RAGCandidateMultiplier != 8 {
		t.Fatalf("expected fallback candidate multiplier 8, got %d", cfg.RAGCandidateMultiplier)
	}
	if cfg.OllamaTimeout != 120*time.Second {
		t.Fatalf("expected fallback ollama timeout 120s, got %s", cfg.OllamaTimeout)
	}
}
