package rerank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestScorePairsMapsIndexedScores(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/rerank" {
			http.NotFound(w, r)
			return
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Query != "what is lero?" || len(req.Candidates) != 3 {
			t.Fatalf("unexpected request: %+v", req)
		}
		// Service returns results sorted by score, not input order.
		_, _ = w.Write([]byte(`{"results":[{"index":2,"score":0.9},{"index":0,"score":0.5},{"index":1,"score":0.1}],"model":"bge-reranker-v2-m3"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bge-reranker-v2-m3", time.Second, nil, nil)
	scores, err := client.ScorePairs(context.Background(), "what is lero?", []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("ScorePairs() error = %v", err)
	}
	want := []float64{0.5, 0.1, 0.9}
	for i := range want {
		if scores[i] != want[i] {
			t.Fatalf("scores[%d] = %v, want %v", i, scores[i], want[i])
		}
	}
}

func TestScorePairsEmptyInput(t *testing.T) {
	client := NewClient("http://unused", "m", time.Second, nil, nil)
	scores, err := client.ScorePairs(context.Background(), "q", nil)
	if err != nil {
		t.Fatalf("ScorePairs() error = %v", err)
	}
	if len(scores) != 0 {
		t.Fatalf("expected no scores, got %v", scores)
	}
}

func TestScorePairsCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"index":0,"score":0.9}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "m", time.Second, nil, nil)
	if _, err := client.ScorePairs(context.Background(), "q", []string{"a", "b"}); err == nil {
		t.Fatal("expected error on score count mismatch")
	}
}

func TestScorePairsInvalidIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"index":5,"score":0.9},{"index":0,"score":0.1}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "m", time.Second, nil, nil)
	if _, err := client.ScorePairs(context.Background(), "q", []string{"a", "b"}); err == nil {
		t.Fatal("expected error on out-of-range index")
	}
}

func TestScorePairsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "m", time.Second, nil, nil)
	_, err := client.ScorePairs(context.Background(), "q", []string{"a"})
	if err == nil {
		t.Fatal("expected error on 503")
	}
	class := classifyRerankError(err)
	if !class.Retryable {
		t.Fatalf("503 must classify retryable, got %+v", class)
	}
}
