package ports

import (
	"context"

	"github.com/ulhub/ul-assistant/internal/core/domain"
)

// Embedder maps text into the corpus vector space. ModelName must
// match the model id recorded in the corpus artifact.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

// PairScorer scores (query, passage) pairs independently of candidate
// order. Stateless per call.
type PairScorer interface {
	ScorePairs(ctx context.Context, query string, passages []string) ([]float64, error)
}

// PlanInferencer asks a language model for a retrieval plan. The raw
// payload is untrusted; the classifier validates it against the closed
// QueryPlan variants.
type PlanInferencer interface {
	InferPlan(ctx context.Context, question string) (string, error)
}

// AnswerGenerator produces the user-facing answer for each intent
// branch. Exactly one method is called per turn.
type AnswerGenerator interface {
	GenerateGrounded(ctx context.Context, question string, docs []domain.RankedPassage, mode domain.Mode, locale string) (domain.GeneratedAnswer, error)
	GenerateChitchat(ctx context.Context, question string, mode domain.Mode, locale string) (string, error)
	GenerateNonsense(ctx context.Context, question string, mode domain.Mode, locale string) (string, error)
}

// SessionStore persists chat session history.
type SessionStore interface {
	EnsureSession(ctx context.Context, sessionID string, mode domain.Mode, locale string) error
	AppendTurn(ctx context.Context, turn domain.ChatTurn) error
	ListRecentTurns(ctx context.Context, sessionID string, limit int) ([]domain.ChatTurn, error)
}

// TurnEventPublisher emits a fire-and-forget event after each completed
// turn for auditing. Implementations must not fail the turn.
type TurnEventPublisher interface {
	PublishTurnCompleted(ctx context.Context, event domain.TurnEvent) error
}
