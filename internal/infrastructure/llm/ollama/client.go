package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ulhub/ul-assistant/internal/core/domain"
	"github.com/ulhub/ul-assistant/internal/infrastructure/resilience"
)

// Client talks to a single Ollama server for both generation and
// embeddings. All calls go through the shared resilience executor.
type Client struct {
	baseURL    string
	genModel   string
	embedModel string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, genModel, embedModel string, timeout time.Duration, executor *resilience.Executor) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		genModel:   genModel,
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: timeout},
		executor:   executor,
	}
}

// Embedder implements ports.Embedder against /api/embed.
type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) ModelName() string {
	return e.client.embedModel
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	request := map[string]any{
		"model": e.client.embedModel,
		"input": texts,
	}
	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := e.client.postJSON(ctx, "/api/embed", request, &response, "embed"); err != nil {
		return nil, err
	}
	if len(response.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama embed: got %d vectors for %d inputs", len(response.Embeddings), len(texts))
	}
	return response.Embeddings, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return vectors[0], nil
}

// Planner implements ports.PlanInferencer: one JSON-constrained
// generation call per question. The raw model output is returned as-is;
// validation belongs to the classifier use case.
type Planner struct {
	client *Client
}

func NewPlanner(client *Client) *Planner {
	return &Planner{client: client}
}

func (p *Planner) InferPlan(ctx context.Context, question string) (string, error) {
	return p.client.generateJSON(ctx, plannerSystem, "USER MESSAGE:\n"+question)
}

// Generator implements ports.AnswerGenerator against /api/generate.
type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) GenerateGrounded(ctx context.Context, question string, docs []domain.RankedPassage, mode domain.Mode, locale string) (domain.GeneratedAnswer, error) {
	contextBlock, citations := formatContext(docs)

	system := studentSystem
	if mode == domain.ModeStaff {
		system = staffSystem
	}
	answer, err := g.client.generateText(ctx, system, groundedUserPrompt(question, contextBlock))
	if err != nil {
		return domain.GeneratedAnswer{}, err
	}
	return domain.GeneratedAnswer{
		Answer:    answer,
		Citations: citations,
		Meta:      domain.TurnMeta{Model: g.client.genModel},
	}, nil
}

func (g *Generator) GenerateChitchat(ctx context.Context, question string, mode domain.Mode, locale string) (string, error) {
	return g.client.generateText(ctx, chitchatSystem, question)
}

func (g *Generator) GenerateNonsense(ctx context.Context, question string, mode domain.Mode, locale string) (string, error) {
	return g.client.generateText(ctx, nonsenseSystem, question)
}

func (c *Client) generateJSON(ctx context.Context, system, prompt string) (string, error) {
	return c.generate(ctx, map[string]any{
		"model":  c.genModel,
		"system": system,
		"prompt": prompt,
		"stream": false,
		"format": "json",
	})
}

func (c *Client) generateText(ctx context.Context, system, prompt string) (string, error) {
	return c.generate(ctx, map[string]any{
		"model":  c.genModel,
		"system": system,
		"prompt": prompt,
		"stream": false,
	})
}

func (c *Client) generate(ctx context.Context, reqBody map[string]any) (string, error) {
	var response struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/api/generate", reqBody, &response, "generate"); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}
