package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ulhub/ul-assistant/internal/infrastructure/resilience"
)

type request struct {
	Query      string   `json:"query"`
	Candidates []string `json:"candidates"`
	Model      string   `json:"model,omitempty"`
}

type responseResult struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

type response struct {
	Results []responseResult `json:"results"`
	Model   string           `json:"model"`
}

type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("rerank endpoint returned %d: %s", e.StatusCode, e.Body)
}

// Client implements ports.PairScorer against a cross-encoder rerank
// service. Scores come back indexed; they are mapped onto the input
// order so callers never see the service's own ordering.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
	logger     *slog.Logger
}

func NewClient(baseURL, model string, timeout time.Duration, executor *resilience.Executor, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		executor:   executor,
		logger:     logger,
	}
}

func (c *Client) ModelName() string {
	return c.model
}

func (c *Client) ScorePairs(ctx context.Context, query string, passages []string) ([]float64, error) {
	if len(passages) == 0 {
		return []float64{}, nil
	}

	payload, err := json.Marshal(request{Query: query, Candidates: passages, Model: c.model})
	if err != nil {
		return nil, fmt.Errorf("marshal rerank request: %w", err)
	}

	started := time.Now()
	var scores []float64
	call := func(ctx context.Context) error {
		scores, err = c.scoreOnce(ctx, payload, len(passages))
		return err
	}

	if c.executor != nil {
		err = c.executor.Execute(ctx, "rerank_score", call, classifyRerankError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		c.logger.Warn("reranking_failed",
			slog.Int("candidate_count", len(passages)),
			slog.Int64("elapsed_ms", time.Since(started).Milliseconds()),
			slog.Any("error", err))
		return nil, err
	}

	c.logger.Debug("reranking_completed",
		slog.Int("candidate_count", len(passages)),
		slog.Int64("elapsed_ms", time.Since(started).Milliseconds()))
	return scores, nil
}

func (c *Client) scoreOnce(ctx context.Context, payload []byte, count int) ([]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/rerank", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create rerank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call rerank endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &statusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode rerank response: %w", err)
	}
	if len(decoded.Results) != count {
		return nil, fmt.Errorf("rerank returned %d scores for %d candidates", len(decoded.Results), count)
	}

	scores := make([]float64, count)
	seen := make([]bool, count)
	for _, r := range decoded.Results {
		if r.Index < 0 || r.Index >= count {
			return nil, fmt.Errorf("invalid result index %d for %d candidates", r.Index, count)
		}
		if seen[r.Index] {
			return nil, fmt.Errorf("duplicate result index %d", r.Index)
		}
		seen[r.Index] = true
		scores[r.Index] = r.Score
	}
	return scores, nil
}

func classifyRerankError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	var statusErr *statusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode >= 500 || statusErr.StatusCode == http.StatusTooManyRequests {
			return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
		}
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}
