package domain

import "time"

// ChatTurn is one message in a session's append-only history. History
// is owned by the session layer; the pipeline core never sees it.
type ChatTurn struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Citations []Citation `json:"citations,omitempty"`
	Intent    string     `json:"intent,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// TurnEvent is the audit record published after a completed turn.
type TurnEvent struct {
	SessionID  string    `json:"session_id,omitempty"`
	Intent     string    `json:"intent,omitempty"`
	Escalation string    `json:"escalation,omitempty"`
	Degraded   bool      `json:"degraded,omitempty"`
	DocCount   int       `json:"doc_count"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
