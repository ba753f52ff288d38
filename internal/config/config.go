package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	APIPort  string
	LogLevel string

	IndexPath string

	OllamaURL        string
	OllamaGenModel   string
	OllamaEmbedModel string
	OllamaTimeout    time.Duration

	RerankURL     string
	RerankModel   string
	RerankTimeout time.Duration

	RAGCandidateMultiplier int

	PostgresDSN string

	NATSURL     string
	NATSSubject string

	ChunkWords   int
	ChunkOverlap int

	APIRateLimitRPS     float64
	APIRateLimitBurst   int
	APIMaxInFlight      int
	APIBackpressureWait time.Duration
	ShutdownGracePeriod time.Duration
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		IndexPath: mustEnv("INDEX_PATH", "./data/index/corpus.gob"),

		OllamaURL:        mustEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaGenModel:   mustEnv("OLLAMA_GEN_MODEL", "llama3.1:8b"),
		OllamaEmbedModel: mustEnv("OLLAMA_EMBED_MODEL", "nomic-embed-text"),
		OllamaTimeout:    mustEnvDuration("OLLAMA_TIMEOUT", 120*time.Second),

		RerankURL:     mustEnv("RERANK_URL", ""),
		RerankModel:   mustEnv("RERANK_MODEL", "bge-reranker-v2-m3"),
		RerankTimeout: mustEnvDuration("RERANK_TIMEOUT", 30*time.Second),

		RAGCandidateMultiplier: mustEnvInt("RAG_CANDIDATE_MULTIPLIER", 8),

		PostgresDSN: mustEnv("POSTGRES_DSN", ""),

		NATSURL:     mustEnv("NATS_URL", ""),
		NATSSubject: mustEnv("NATS_SUBJECT", "assistant.turns"),

		ChunkWords:   mustEnvInt("CHUNK_WORDS", 200),
		ChunkOverlap: mustEnvInt("CHUNK_OVERLAP", 0),

		APIRateLimitRPS:     mustEnvFloat("API_RATE_LIMIT_RPS", 10),
		APIRateLimitBurst:   mustEnvInt("API_RATE_LIMIT_BURST", 20),
		APIMaxInFlight:      mustEnvInt("API_MAX_IN_FLIGHT", 32),
		APIBackpressureWait: mustEnvDuration("API_BACKPRESSURE_WAIT", 100*time.Millisecond),
		ShutdownGracePeriod: mustEnvDuration("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
