package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type mockGenerator struct {
	response string
	err      error
	prompts  []string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func TestGenerateQuestionsParsesNumberedList(t *testing.T) {
	llm := &mockGenerator{response: `Here are the questions:

1. Tell me about a Go service you have built.
2. How do you handle database migrations
   in a team setting?
3) What does context cancellation give you?
`}
	svc := NewInterviewService(llm, nil)

	qs, err := svc.GenerateQuestions(context.Background(), "resume text", "job description")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 3 {
		t.Fatalf("questions = %d, want 3: %v", len(qs), qs)
	}
	if qs[0] != "Tell me about a Go service you have built." {
		t.Fatalf("first question = %q", qs[0])
	}
	if !strings.Contains(qs[1], "in a team setting?") {
		t.Fatalf("continuation line lost: %q", qs[1])
	}
	if strings.HasPrefix(qs[2], "3") {
		t.Fatalf("marker not stripped: %q", qs[2])
	}
}

func TestGenerateQuestionsRequiresInputs(t *testing.T) {
	llm := &mockGenerator{}
	svc := NewInterviewService(llm, nil)

	_, err := svc.GenerateQuestions(context.Background(), "", "job description")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(llm.prompts) != 0 {
		t.Fatal("model must not be called for invalid input")
	}
}

func TestGenerateQuestionsUnconfigured(t *testing.T) {
	svc := NewInterviewService(nil, nil)

	_, err := svc.GenerateQuestions(context.Background(), "resume", "job")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestGenerateQuestionsEmptyModelOutput(t *testing.T) {
	llm := &mockGenerator{response: "I cannot help with that."}
	svc := NewInterviewService(llm, nil)

	_, err := svc.GenerateQuestions(context.Background(), "resume", "job")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream for unparseable output, got %v", err)
	}
}

func TestEvaluateInterviewPairsQuestionsWithAnswers(t *testing.T) {
	llm := &mockGenerator{response: "Good answers overall. Score: 8/10"}
	svc := NewInterviewService(llm, nil)

	out, err := svc.EvaluateInterview(context.Background(),
		[]string{"What is a goroutine?", "What is a channel?"},
		[]string{"A lightweight thread.", "A typed conduit."},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Good answers overall. Score: 8/10" {
		t.Fatalf("evaluation = %q", out)
	}

	prompt := llm.prompts[0]
	if !strings.Contains(prompt, "Q: What is a channel?") || !strings.Contains(prompt, "A: A typed conduit.") {
		t.Fatalf("prompt missing paired QnA:\n%s", prompt)
	}
}

func TestEvaluateInterviewPadsMissingAnswers(t *testing.T) {
	llm := &mockGenerator{response: "Score: 40/100"}
	svc := NewInterviewService(llm, nil)

	if _, err := svc.EvaluateInterview(context.Background(), []string{"q1", "q2"}, []string{"a1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(llm.prompts[0], "A: (no answer)") {
		t.Fatalf("unanswered question not marked:\n%s", llm.prompts[0])
	}
}

func TestEvaluateInterviewRequiresQuestions(t *testing.T) {
	svc := NewInterviewService(&mockGenerator{}, nil)

	_, err := svc.EvaluateInterview(context.Background(), nil, nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestParseNumberedListIgnoresPreamble(t *testing.T) {
	items := parseNumberedList("Sure! Here you go:\n\n1. First\n2. Second")
	if len(items) != 2 || items[0] != "First" || items[1] != "Second" {
		t.Fatalf("items = %v", items)
	}
}
