package ports

import (
	"context"

	"github.com/ulhub/ul-assistant/internal/core/domain"
)

// TurnRunner is the single entry point any shell needs: one question
// in, one answered turn out.
type TurnRunner interface {
	RunTurn(ctx context.Context, question string, mode domain.Mode, locale string) (*domain.TurnResult, error)
}

// Retriever is the retrieval facade contract.
type Retriever interface {
	Retrieve(ctx context.Context, question string, mode domain.RetrievalMode, maxChunks int) (*domain.RetrievalResult, error)
}

// ChatService wraps TurnRunner with session history.
type ChatService interface {
	Ask(ctx context.Context, sessionID, question string, mode domain.Mode, locale string) (*domain.ChatTurn, *domain.TurnResult, error)
}
