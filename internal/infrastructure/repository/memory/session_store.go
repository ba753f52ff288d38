package memory

import (
	"context"
	"sync"

	"github.com/ulhub/ul-assistant/internal/core/domain"
)

// SessionStore keeps session history in process memory. It backs
// single-node deployments that run without Postgres; history is lost on
// restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]domain.ChatTurn
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string][]domain.ChatTurn)}
}

func (s *SessionStore) EnsureSession(_ context.Context, sessionID string, _ domain.Mode, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		s.sessions[sessionID] = nil
	}
	return nil
}

func (s *SessionStore) AppendTurn(_ context.Context, turn domain.ChatTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[turn.SessionID] = append(s.sessions[turn.SessionID], turn)
	return nil
}

func (s *SessionStore) ListRecentTurns(_ context.Context, sessionID string, limit int) ([]domain.ChatTurn, error) {
	if limit <= 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.sessions[sessionID]
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]domain.ChatTurn, len(turns))
	copy(out, turns)
	return out, nil
}
