package domain

import "testing"

func TestQueryTypeNeedsRetrieval(t *testing.T) {
	grounded := []QueryType{QueryWhoIs, QueryProgrammeOrModule, QueryCampusDirections,
		QueryAdminProcess, QueryResearch, QueryGeneral}
	for _, qt := range grounded {
		if !qt.NeedsRetrieval() {
			t.Fatalf("%s must need retrieval", qt)
		}
	}
	for _, qt := range []QueryType{QueryChitchat, QueryNonsense} {
		if qt.NeedsRetrieval() {
			t.Fatalf("%s must not need retrieval", qt)
		}
	}
}

func TestQueryTypeValid(t *testing.T) {
	if QueryType("weather").Valid() {
		t.Fatal("unknown query type must be invalid")
	}
	if !QueryResearch.Valid() {
		t.Fatal("research must be valid")
	}
}

func TestRetrievalModeValid(t *testing.T) {
	if RetrievalMode("quantum").Valid() {
		t.Fatal("unknown mode must be invalid")
	}
	for _, m := range []RetrievalMode{ModeHybrid, ModeDenseOnly, ModeSparseOnly} {
		if !m.Valid() {
			t.Fatalf("%s must be valid", m)
		}
	}
}

func TestDefaultPlanTopicSniffing(t *testing.T) {
	cases := []struct {
		question string
		topic    string
	}{
		{"tell me about Lero research", "lero"},
		{"CSIS module list", "csis"},
		{"student ACCOMMODATION options", "accommodation"},
		{"library opening hours", ""},
	}
	for _, c := range cases {
		plan := DefaultPlan(c.question)
		if plan.Topic != c.topic {
			t.Fatalf("DefaultPlan(%q).Topic = %q, want %q", c.question, plan.Topic, c.topic)
		}
		if plan.QueryType != QueryGeneral || plan.RetrievalMode != ModeHybrid || plan.MaxChunks != DefaultMaxChunks {
			t.Fatalf("unexpected default plan shape: %+v", plan)
		}
	}
}
