package usecase

import (
	"strings"
	"testing"
)

func TestCheckEscalationCrisisKeywords(t *testing.T) {
	cases := []string{
		"I want to end my life",
		"thinking about SUICIDE lately",
		"I might kill myself",
		"struggling with self-harm",
	}
	for _, text := range cases {
		res := CheckEscalation(text)
		if !res.Escalate {
			t.Fatalf("expected escalation for %q", text)
		}
		if res.Reason != "crisis" {
			t.Fatalf("reason = %q, want crisis", res.Reason)
		}
	}
}

func TestCheckEscalationBenignText(t *testing.T) {
	res := CheckEscalation("where is the Glucksman library?")
	if res.Escalate {
		t.Fatalf("unexpected escalation: %+v", res)
	}
}

func TestEscalationMessageNamesContacts(t *testing.T) {
	msg := EscalationMessage("IE")
	if !strings.Contains(msg, "University Hospital Limerick") {
		t.Fatalf("message must name the crisis contact, got %q", msg)
	}
	if !strings.Contains(msg, "061 301111") {
		t.Fatalf("message must include the phone number, got %q", msg)
	}
}
