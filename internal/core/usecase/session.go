package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ulhub/ul-assistant/internal/core/domain"
	"github.com/ulhub/ul-assistant/internal/core/ports"
)

// historyLookback bounds how many stored turns are fetched to build the
// follow-up context. Two user questions plus their answers fit well
// within this.
const historyLookback = 10

// maxPreviousQuestions is how many earlier user questions get prepended
// to a follow-up so retrieval can resolve pronouns like "he" or "it".
const maxPreviousQuestions = 2

// ChatUseCase wraps the single-turn pipeline with persistent session
// history. The pipeline itself stays stateless; all memory lives here.
type ChatUseCase struct {
	runner    ports.TurnRunner
	store     ports.SessionStore
	publisher ports.TurnEventPublisher
	logger    *slog.Logger
}

func NewChatUseCase(runner ports.TurnRunner, store ports.SessionStore, publisher ports.TurnEventPublisher, logger *slog.Logger) *ChatUseCase {
	return &ChatUseCase{runner: runner, store: store, publisher: publisher, logger: logger}
}

// Ask records the user message, runs the pipeline on a question enriched
// with recent conversational context, records the assistant reply, and
// returns both. History failures fail the call; event publishing never
// does.
func (uc *ChatUseCase) Ask(ctx context.Context, sessionID, question string, mode domain.Mode, locale string) (*domain.ChatTurn, *domain.TurnResult, error) {
	const op = "usecase.Ask"

	if strings.TrimSpace(question) == "" {
		return nil, nil, domain.WrapError(domain.ErrInvalidInput, op, fmt.Errorf("empty question"))
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if err := uc.store.EnsureSession(ctx, sessionID, mode, locale); err != nil {
		return nil, nil, domain.WrapError(domain.ErrTemporary, op, err)
	}

	// Fetch history before appending so it only contains earlier turns.
	history, err := uc.store.ListRecentTurns(ctx, sessionID, historyLookback)
	if err != nil {
		return nil, nil, domain.WrapError(domain.ErrTemporary, op, err)
	}
	enriched := buildQueryWithContext(history, question)

	now := time.Now().UTC()
	userTurn := domain.ChatTurn{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      domain.RoleUser,
		Content:   question,
		CreatedAt: now,
	}
	if err := uc.store.AppendTurn(ctx, userTurn); err != nil {
		return nil, nil, domain.WrapError(domain.ErrTemporary, op, err)
	}

	result, err := uc.runner.RunTurn(ctx, enriched, mode, locale)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	answer := result.Answer
	if answer == "" {
		answer = "Sorry, I could not generate an answer."
	}
	botTurn := domain.ChatTurn{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      domain.RoleAssistant,
		Content:   answer,
		Citations: result.Citations,
		Intent:    result.Meta.Intent,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.store.AppendTurn(ctx, botTurn); err != nil {
		return nil, nil, domain.WrapError(domain.ErrTemporary, op, err)
	}

	uc.publishEvent(ctx, sessionID, result, now)
	return &botTurn, result, nil
}

func (uc *ChatUseCase) publishEvent(ctx context.Context, sessionID string, result *domain.TurnResult, startedAt time.Time) {
	if uc.publisher == nil {
		return
	}
	event := domain.TurnEvent{
		SessionID:  sessionID,
		Intent:     result.Meta.Intent,
		Escalation: result.Meta.Escalation,
		Degraded:   result.Meta.Degraded,
		DocCount:   result.Meta.ContextCount,
		DurationMS: time.Since(startedAt).Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	if err := uc.publisher.PublishTurnCompleted(ctx, event); err != nil && uc.logger != nil {
		uc.logger.Warn("turn event publish failed",
			slog.String("session_id", sessionID),
			slog.Any("error", err))
	}
}

// buildQueryWithContext prepends up to the last two user questions from
// history, oldest first, so the retrieval question carries enough
// context for follow-ups.
func buildQueryWithContext(history []domain.ChatTurn, question string) string {
	var previous []string
	for i := len(history) - 1; i >= 0 && len(previous) < maxPreviousQuestions; i-- {
		if history[i].Role == domain.RoleUser {
			previous = append(previous, history[i].Content)
		}
	}
	if len(previous) == 0 {
		return question
	}

	// Collected newest first; flip to chronological order.
	for i, j := 0, len(previous)-1; i < j; i, j = i+1, j-1 {
		previous[i], previous[j] = previous[j], previous[i]
	}

	var b strings.Builder
	if len(previous) == 1 {
		fmt.Fprintf(&b, "Previous question: %s\n", previous[0])
	} else {
		b.WriteString("Previous questions:\n")
		for i, q := range previous {
			fmt.Fprintf(&b, "%d) %s\n", i+1, q)
		}
	}
	fmt.Fprintf(&b, "Current question: %s", question)
	return b.String()
}
