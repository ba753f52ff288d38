package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ulhub/ul-assistant/internal/core/domain"
)

type fakeStore struct {
	turns      map[string][]domain.ChatTurn
	ensureErr  error
	appendErr  error
	ensured    []string
	listCalled int
}

func newFakeStore() *fakeStore {
	return &fakeStore{turns: map[string][]domain.ChatTurn{}}
}

func (f *fakeStore) EnsureSession(ctx context.Context, sessionID string, mode domain.Mode, locale string) error {
	f.ensured = append(f.ensured, sessionID)
	return f.ensureErr
}

func (f *fakeStore) AppendTurn(ctx context.Context, turn domain.ChatTurn) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.turns[turn.SessionID] = append(f.turns[turn.SessionID], turn)
	return nil
}

func (f *fakeStore) ListRecentTurns(ctx context.Context, sessionID string, limit int) ([]domain.ChatTurn, error) {
	f.listCalled++
	history := f.turns[sessionID]
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history, nil
}

type fakeRunner struct {
	result    *domain.TurnResult
	err       error
	questions []string
}

func (f *fakeRunner) RunTurn(ctx context.Context, question string, mode domain.Mode, locale string) (*domain.TurnResult, error) {
	f.questions = append(f.questions, question)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &domain.TurnResult{Answer: "ok"}, nil
}

type fakePublisher struct {
	events []domain.TurnEvent
	err    error
}

func (f *fakePublisher) PublishTurnCompleted(ctx context.Context, event domain.TurnEvent) error {
	f.events = append(f.events, event)
	return f.err
}

func TestAskFirstTurnUsesRawQuestion(t *testing.T) {
	store := newFakeStore()
	runner := &fakeRunner{result: &domain.TurnResult{Answer: "Lero is the software centre.", Meta: domain.TurnMeta{Intent: "research"}}}
	uc := NewChatUseCase(runner, store, nil, nil)

	turn, result, err := uc.Ask(context.Background(), "s-1", "what is lero?", domain.ModeStudent, "IE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runner.questions[0] != "what is lero?" {
		t.Fatalf("first turn must pass the raw question, got %q", runner.questions[0])
	}
	if turn.Role != domain.RoleAssistant || turn.Content != result.Answer {
		t.Fatalf("unexpected assistant turn: %+v", turn)
	}
	if turn.Intent != "research" {
		t.Fatalf("turn.intent = %q, want research", turn.Intent)
	}
	if got := len(store.turns["s-1"]); got != 2 {
		t.Fatalf("stored turns = %d, want user+assistant", got)
	}
}

func TestAskFollowUpCarriesPreviousQuestions(t *testing.T) {
	store := newFakeStore()
	runner := &fakeRunner{}
	uc := NewChatUseCase(runner, store, nil, nil)

	ctx := context.Background()
	for _, q := range []string{"who is the director of lero?", "where is his office?", "what does he research?"} {
		if _, _, err := uc.Ask(ctx, "s-2", q, domain.ModeStudent, "IE"); err != nil {
			t.Fatalf("ask %q: %v", q, err)
		}
	}

	last := runner.questions[2]
	if !strings.Contains(last, "Previous questions:") {
		t.Fatalf("expected previous-questions block, got %q", last)
	}
	if !strings.Contains(last, "1) who is the director of lero?") {
		t.Fatalf("oldest question must come first, got %q", last)
	}
	if !strings.Contains(last, "2) where is his office?") {
		t.Fatalf("second question missing, got %q", last)
	}
	if !strings.HasSuffix(last, "Current question: what does he research?") {
		t.Fatalf("current question must close the block, got %q", last)
	}

	second := runner.questions[1]
	if !strings.Contains(second, "Previous question: who is the director of lero?") {
		t.Fatalf("single previous question uses singular form, got %q", second)
	}
}

func TestAskOnlyLastTwoQuestionsKept(t *testing.T) {
	store := newFakeStore()
	runner := &fakeRunner{}
	uc := NewChatUseCase(runner, store, nil, nil)

	ctx := context.Background()
	questions := []string{"q1", "q2", "q3", "q4"}
	for _, q := range questions {
		if _, _, err := uc.Ask(ctx, "s-3", q, domain.ModeStudent, "IE"); err != nil {
			t.Fatalf("ask %q: %v", q, err)
		}
	}

	last := runner.questions[3]
	if strings.Contains(last, "q1") {
		t.Fatalf("only the last two previous questions may appear, got %q", last)
	}
	if !strings.Contains(last, "1) q2") || !strings.Contains(last, "2) q3") {
		t.Fatalf("expected q2 and q3 as context, got %q", last)
	}
}

func TestAskEmptyQuestionRejected(t *testing.T) {
	uc := NewChatUseCase(&fakeRunner{}, newFakeStore(), nil, nil)

	_, _, err := uc.Ask(context.Background(), "s-4", "  ", domain.ModeStudent, "IE")
	if err == nil {
		t.Fatal("expected error for blank question")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid-input kind, got %v", err)
	}
}

func TestAskGeneratesSessionID(t *testing.T) {
	store := newFakeStore()
	uc := NewChatUseCase(&fakeRunner{}, store, nil, nil)

	turn, _, err := uc.Ask(context.Background(), "", "hello", domain.ModeStudent, "IE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if turn.SessionID == "" {
		t.Fatal("a session id must be generated when none is supplied")
	}
	if len(store.ensured) != 1 || store.ensured[0] != turn.SessionID {
		t.Fatalf("ensured sessions = %v", store.ensured)
	}
}

func TestAskPublishFailureDoesNotFailTurn(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("nats down")}
	uc := NewChatUseCase(&fakeRunner{}, newFakeStore(), publisher, nil)

	_, _, err := uc.Ask(context.Background(), "s-5", "hello", domain.ModeStudent, "IE")
	if err != nil {
		t.Fatalf("publish failure must not fail the turn: %v", err)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("events = %d, want 1", len(publisher.events))
	}
}

func TestAskPublishesTurnEvent(t *testing.T) {
	publisher := &fakePublisher{}
	runner := &fakeRunner{result: &domain.TurnResult{
		Answer: "answer",
		Meta:   domain.TurnMeta{Intent: "general", ContextCount: 3, Degraded: true},
	}}
	uc := NewChatUseCase(runner, newFakeStore(), publisher, nil)

	if _, _, err := uc.Ask(context.Background(), "s-6", "question", domain.ModeStudent, "IE"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	event := publisher.events[0]
	if event.SessionID != "s-6" || event.Intent != "general" || event.DocCount != 3 || !event.Degraded {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestAskRunnerErrorPropagates(t *testing.T) {
	uc := NewChatUseCase(&fakeRunner{err: errors.New("boom")}, newFakeStore(), nil, nil)

	_, _, err := uc.Ask(context.Background(), "s-7", "question", domain.ModeStudent, "IE")
	if err == nil {
		t.Fatal("expected runner error to propagate")
	}
}
