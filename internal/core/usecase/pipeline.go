package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ulhub/ul-assistant/internal/core/domain"
	"github.com/ulhub/ul-assistant/internal/core/ports"
)

const noDocsAnswer = "Sorry, I couldn't find any University of Limerick documents clearly " +
	"related to that question. Try rephrasing it, or check the official UL " +
	"website or department directly."

const chitchatFallbackStudent = "Hi! I'm the University of Limerick assistant. Ask me anything about UL whenever you're ready."

const chitchatFallbackStaff = "Hello. I'm the University of Limerick assistant. Let me know if you have any UL-related questions."

const nonsenseFallback = "I'm not sure what you meant there. " +
	"I can help with questions about the University of Limerick if you'd like to ask one."

// PipelineUseCase drives one turn through the fixed stage order: safety
// gate, plan classification, retrieval, generation. Every stage has a
// deterministic degraded path, so RunTurn only fails on programmer
// error, never on collaborator outage.
type PipelineUseCase struct {
	classifier *ClassifyUseCase
	retriever  ports.Retriever
	generator  ports.AnswerGenerator
	logger     *slog.Logger
}

func NewPipelineUseCase(classifier *ClassifyUseCase, retriever ports.Retriever, generator ports.AnswerGenerator, logger *slog.Logger) *PipelineUseCase {
	return &PipelineUseCase{
		classifier: classifier,
		retriever:  retriever,
		generator:  generator,
		logger:     logger,
	}
}

func (uc *PipelineUseCase) RunTurn(ctx context.Context, question string, mode domain.Mode, locale string) (*domain.TurnResult, error) {
	state := domain.PipelineState{Question: question, Mode: mode, Locale: locale}

	if uc.safetyStage(&state) {
		return turnResult(&state), nil
	}
	uc.routeStage(ctx, &state)
	uc.retrieveStage(ctx, &state)
	uc.generateStage(ctx, &state)
	return turnResult(&state), nil
}

// safetyStage short-circuits the whole turn on a crisis match. No
// retrieval, no model call, no citations.
func (uc *PipelineUseCase) safetyStage(state *domain.PipelineState) bool {
	res := CheckEscalation(state.Question)
	if !res.Escalate {
		return false
	}
	state.Answer = EscalationMessage(state.Locale)
	state.Citations = []domain.Citation{}
	state.Meta.Escalation = res.Reason
	return true
}

func (uc *PipelineUseCase) routeStage(ctx context.Context, state *domain.PipelineState) {
	plan, degraded := uc.classifier.Classify(ctx, state.Question)
	state.Plan = &plan
	if degraded {
		state.Meta.Degraded = true
	}
}

func (uc *PipelineUseCase) retrieveStage(ctx context.Context, state *domain.PipelineState) {
	if !state.Plan.QueryType.NeedsRetrieval() {
		state.Docs = []domain.RankedPassage{}
		return
	}

	result, err := uc.retriever.Retrieve(ctx, state.Question, state.Plan.RetrievalMode, state.Plan.MaxChunks)
	if err != nil {
		if uc.logger != nil {
			uc.logger.Warn("retrieval failed, continuing without context", slog.Any("error", err))
		}
		state.Docs = []domain.RankedPassage{}
		state.Meta.Degraded = true
		return
	}
	state.Docs = result.Passages
	if result.Degraded {
		state.Meta.Degraded = true
	}
}

func (uc *PipelineUseCase) generateStage(ctx context.Context, state *domain.PipelineState) {
	switch state.Plan.QueryType {
	case domain.QueryChitchat:
		answer, err := uc.generator.GenerateChitchat(ctx, state.Question, state.Mode, state.Locale)
		if err != nil {
			uc.warnGenerate("chitchat", err)
			if state.Mode == domain.ModeStaff {
				answer = chitchatFallbackStaff
			} else {
				answer = chitchatFallbackStudent
			}
			state.Meta.Degraded = true
		}
		state.Answer = answer
		state.Citations = []domain.Citation{}
		state.Meta.Intent = string(domain.QueryChitchat)

	case domain.QueryNonsense:
		answer, err := uc.generator.GenerateNonsense(ctx, state.Question, state.Mode, state.Locale)
		if err != nil {
			uc.warnGenerate("nonsense", err)
			answer = nonsenseFallback
			state.Meta.Degraded = true
		}
		state.Answer = answer
		state.Citations = []domain.Citation{}
		state.Meta.Intent = string(domain.QueryNonsense)

	default:
		uc.generateGrounded(ctx, state)
	}
}

func (uc *PipelineUseCase) generateGrounded(ctx context.Context, state *domain.PipelineState) {
	state.Meta.Intent = string(state.Plan.QueryType)

	if len(state.Docs) == 0 {
		state.Answer = noDocsAnswer
		state.Citations = []domain.Citation{}
		state.Meta.ContextCount = 0
		return
	}

	generated, err := uc.generator.GenerateGrounded(ctx, state.Question, state.Docs, state.Mode, state.Locale)
	if err != nil {
		uc.warnGenerate("grounded", err)
		state.Answer = extractiveSummary(state.Docs)
		state.Citations = citationsFor(state.Docs)
		state.Meta.ContextCount = len(state.Docs)
		state.Meta.Degraded = true
		return
	}

	state.Answer = generated.Answer
	state.Citations = generated.Citations
	state.Meta.Model = generated.Meta.Model
	state.Meta.ContextCount = len(state.Docs)
}

func (uc *PipelineUseCase) warnGenerate(branch string, err error) {
	if uc.logger != nil {
		uc.logger.Warn("generation failed, using fallback answer",
			slog.String("branch", branch),
			slog.Any("error", err))
	}
}

func turnResult(state *domain.PipelineState) *domain.TurnResult {
	return &domain.TurnResult{
		Answer:    state.Answer,
		Citations: state.Citations,
		Meta:      state.Meta,
		Plan:      state.Plan,
	}
}

// citationsFor numbers the retrieved passages 1..n in rank order,
// pointing each at its best available source field.
func citationsFor(docs []domain.RankedPassage) []domain.Citation {
	cites := make([]domain.Citation, len(docs))
	for i, d := range docs {
		cites[i] = domain.Citation{N: i + 1, Source: d.Meta.SourceRef()}
	}
	return cites
}

// extractiveSummary is the last-resort grounded answer when the
// generator is down: a stitched summary of the top passages so the user
// still gets the retrieved facts.
func extractiveSummary(docs []domain.RankedPassage) string {
	top := docs
	if len(top) > 3 {
		top = top[:3]
	}
	snippets := make([]string, 0, len(top))
	for i, d := range top {
		snippet := domain.ShortenText(domain.StripFrontmatter(d.Text), 350)
		snippets = append(snippets, "From source "+strconv.Itoa(i+1)+" ("+d.Meta.SourceRef()+"): "+snippet)
	}
	joined := "(no text available)"
	if len(snippets) > 0 {
		joined = strings.Join(snippets, "\n\n")
	}
	return "I can't reach the language model right now.\n\n" +
		"Here is a short summary of the most relevant University of Limerick information I could find:\n\n" +
		joined
}
