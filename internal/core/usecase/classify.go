package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ulhub/ul-assistant/internal/core/domain"
	"github.com/ulhub/ul-assistant/internal/core/ports"
)

// ClassifyUseCase turns a free-form question into a validated QueryPlan.
// The plan inferencer is a language model and therefore untrusted: every
// field of its output is checked against the closed variant sets, and
// any failure at any step degrades to the default plan rather than
// failing the turn.
type ClassifyUseCase struct {
	inferencer ports.PlanInferencer
	logger     *slog.Logger
}

func NewClassifyUseCase(inferencer ports.PlanInferencer, logger *slog.Logger) *ClassifyUseCase {
	return &ClassifyUseCase{inferencer: inferencer, logger: logger}
}

// Classify never returns an error: a broken classifier yields the
// default plan, which keeps the turn answerable. The second return
// reports whether the default plan was substituted, so the caller can
// flag the turn as degraded.
func (uc *ClassifyUseCase) Classify(ctx context.Context, question string) (domain.QueryPlan, bool) {
	if uc.inferencer == nil {
		uc.warn("no plan inferencer configured, using default plan", nil)
		return applyPostRules(domain.DefaultPlan(question)), true
	}

	raw, err := uc.inferencer.InferPlan(ctx, question)
	if err != nil {
		uc.warn("plan inference failed, using default plan", err)
		return applyPostRules(domain.DefaultPlan(question)), true
	}

	plan, err := parsePlan(raw)
	if err != nil {
		uc.warn("unparseable plan payload, using default plan", err)
		return applyPostRules(domain.DefaultPlan(question)), true
	}
	return applyPostRules(plan), false
}

func (uc *ClassifyUseCase) warn(msg string, err error) {
	if uc.logger == nil {
		return
	}
	if err != nil {
		uc.logger.Warn(msg, slog.Any("error", err))
		return
	}
	uc.logger.Warn(msg)
}

// rawPlan mirrors the JSON shape the model is asked to emit. Loosely
// typed fields are coerced during validation.
type rawPlan struct {
	QueryType     string          `json:"query_type"`
	Topic         json.RawMessage `json:"topic"`
	NeedsMultiHop bool            `json:"needs_multi_hop"`
	RetrievalMode string          `json:"retrieval_mode"`
	MaxChunks     json.RawMessage `json:"max_chunks"`
	DomainHint    json.RawMessage `json:"domain_hint"`
}

// parsePlan extracts a JSON object from the raw model output and coerces
// it into a valid QueryPlan. Models wrap JSON in prose often enough that
// a bracket-delimited rescue pass is worth having.
func parsePlan(raw string) (domain.QueryPlan, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.QueryPlan{}, fmt.Errorf("empty plan payload")
	}

	var rp rawPlan
	if err := json.Unmarshal([]byte(trimmed), &rp); err != nil {
		start := strings.Index(trimmed, "{")
		end := strings.LastIndex(trimmed, "}")
		if start == -1 || end <= start {
			return domain.QueryPlan{}, fmt.Errorf("no JSON object in plan payload")
		}
		if err := json.Unmarshal([]byte(trimmed[start:end+1]), &rp); err != nil {
			return domain.QueryPlan{}, fmt.Errorf("decode plan payload: %w", err)
		}
	}

	plan := domain.QueryPlan{
		QueryType:     domain.QueryType(rp.QueryType),
		NeedsMultiHop: rp.NeedsMultiHop,
		RetrievalMode: domain.RetrievalMode(rp.RetrievalMode),
		MaxChunks:     domain.DefaultMaxChunks,
	}
	if !plan.QueryType.Valid() {
		plan.QueryType = domain.QueryGeneral
	}
	if !plan.RetrievalMode.Valid() {
		plan.RetrievalMode = domain.ModeHybrid
	}

	var topic string
	if json.Unmarshal(rp.Topic, &topic) == nil {
		plan.Topic = topic
	}

	var chunks int
	if json.Unmarshal(rp.MaxChunks, &chunks) == nil && chunks > 0 {
		plan.MaxChunks = chunks
	}

	var hint string
	if json.Unmarshal(rp.DomainHint, &hint) == nil && hint != "" {
		plan.DomainHint = hint
	}
	return plan, nil
}

// applyPostRules fills the source-domain preference for intents that
// always live on a known host.
func applyPostRules(plan domain.QueryPlan) domain.QueryPlan {
	if plan.DomainHint == "" {
		switch plan.QueryType {
		case domain.QueryWhoIs:
			plan.DomainHint = "pure.ul.ie"
		case domain.QueryCampusDirections:
			plan.DomainHint = "ul.ie"
		}
	}
	return plan
}
