package usecase

import "strings"

// crisisKeywords trigger immediate escalation. Matching is plain
// case-insensitive substring search so the gate stays deterministic and
// needs no model call.
var crisisKeywords = []string{"suicide", "kill myself", "self-harm", "end my life"}

const escalationReasonCrisis = "crisis"

const escalationMessage = "I'm really sorry you're feeling this way. I'm not able to provide the help you deserve. " +
	"If you are at risk / suicidal please immediately contact either the crisis liaison mental health team at the " +
	"University Hospital Limerick (061 301111) or your local hospital, or your GP immediately."

// SafetyResult reports whether a message must be escalated instead of
// answered.
type SafetyResult struct {
	Escalate bool
	Reason   string
}

// CheckEscalation scans the raw user text before any other stage runs.
func CheckEscalation(text string) SafetyResult {
	lowered := strings.ToLower(text)
	for _, k := range crisisKeywords {
		if strings.Contains(lowered, k) {
			return SafetyResult{Escalate: true, Reason: escalationReasonCrisis}
		}
	}
	return SafetyResult{}
}

// EscalationMessage returns the fixed crisis response. The locale is
// accepted for future region-specific contact lines but currently only
// the IE message exists.
func EscalationMessage(locale string) string {
	return escalationMessage
}
