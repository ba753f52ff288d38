package domain

import "strings"

// QueryType is the closed set of intents the classifier may emit.
type QueryType string

const (
	QueryWhoIs             QueryType = "who_is"
	QueryProgrammeOrModule QueryType = "programme_or_module"
	QueryCampusDirections  QueryType = "campus_directions"
	QueryAdminProcess      QueryType = "admin_process"
	QueryResearch          QueryType = "research"
	QueryGeneral           QueryType = "general"
	QueryChitchat          QueryType = "chitchat"
	QueryNonsense          QueryType = "nonsense"
)

func (t QueryType) Valid() bool {
	switch t {
	case QueryWhoIs, QueryProgrammeOrModule, QueryCampusDirections,
		QueryAdminProcess, QueryResearch, QueryGeneral, QueryChitchat, QueryNonsense:
		return true
	default:
		return false
	}
}

// NeedsRetrieval reports whether this intent is grounded in the corpus.
// Chitchat and nonsense never are, so the pipeline skips retrieval for
// them entirely.
func (t QueryType) NeedsRetrieval() bool {
	switch t {
	case QueryChitchat, QueryNonsense:
		return false
	default:
		return true
	}
}

const DefaultMaxChunks = 6

// QueryPlan is the classifier's structured output. It is created once
// per turn and read-only downstream.
type QueryPlan struct {
	QueryType     QueryType     `json:"query_type"`
	Topic         string        `json:"topic"`
	NeedsMultiHop bool          `json:"needs_multi_hop"`
	RetrievalMode RetrievalMode `json:"retrieval_mode"`
	MaxChunks     int           `json:"max_chunks"`
	DomainHint    string        `json:"domain_hint,omitempty"`
}

// DefaultPlan is the safe substitute used whenever the classifier is
// unavailable or returns something outside the closed set.
func DefaultPlan(question string) QueryPlan {
	lowered := strings.ToLower(question)
	topic := ""
	switch {
	case strings.Contains(lowered, "lero"):
		topic = "lero"
	case strings.Contains(lowered, "csis"):
		topic = "csis"
	case strings.Contains(lowered, "accommodation"):
		topic = "accommodation"
	}
	return QueryPlan{
		QueryType:     QueryGeneral,
		Topic:         topic,
		NeedsMultiHop: false,
		RetrievalMode: ModeHybrid,
		MaxChunks:     DefaultMaxChunks,
	}
}
