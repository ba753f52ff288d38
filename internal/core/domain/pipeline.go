package domain

// Mode distinguishes the audience the answer is written for.
type Mode string

const (
	ModeStudent Mode = "student"
	ModeStaff   Mode = "staff"
)

// TurnMeta carries per-turn diagnostics alongside the answer.
type TurnMeta struct {
	Escalation   string `json:"escalation,omitempty"`
	Intent       string `json:"intent,omitempty"`
	Model        string `json:"model,omitempty"`
	ContextCount int    `json:"ctx"`
	Degraded     bool   `json:"degraded,omitempty"`
}

// PipelineState is threaded through the orchestrator for one turn and
// discarded afterwards; nothing in the core persists across turns.
type PipelineState struct {
	Question  string
	Mode      Mode
	Locale    string
	Plan      *QueryPlan
	Docs      []RankedPassage
	Answer    string
	Citations []Citation
	Meta      TurnMeta
}

// TurnResult is what a shell gets back from one pipeline run.
type TurnResult struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
	Meta      TurnMeta   `json:"meta"`
	Plan      *QueryPlan `json:"plan,omitempty"`
}

// GeneratedAnswer is the grounded-generation collaborator's output,
// passed through into the state unmodified.
type GeneratedAnswer struct {
	Answer    string
	Citations []Citation
	Meta      TurnMeta
}
