package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"jobboard/internal/infrastructure/ai"
)

type InterviewUsecase interface {
	GenerateQuestions(ctx context.Context, resumeText, jobDescription string) ([]string, error)
	EvaluateInterview(ctx context.Context, questions, answers []string) (string, error)
}

type InterviewService struct {
	llm    ai.Generator
	logger *log.Logger
}

func NewInterviewService(llm ai.Generator, logger *log.Logger) *InterviewService {
	return &InterviewService{llm: llm, logger: logger}
}

// GenerateQuestions asks the model for five tailored interview questions and
// returns them as a cleaned list.
func (s *InterviewService) GenerateQuestions(ctx context.Context, resumeText, jobDescription string) ([]string, error) {
	resumeText = strings.TrimSpace(resumeText)
	jobDescription = strings.TrimSpace(jobDescription)
	if resumeText == "" || jobDescription == "" {
		return nil, fmt.Errorf("%w: resume_text and job_description are required", ErrInvalidInput)
	}
	if s.llm == nil {
		return nil, fmt.Errorf("%w: interview assistant is not configured", ErrUnavailable)
	}

	prompt := fmt.Sprintf(
		`You are an AI interviewer. Using the following resume and job description, generate exactly 5 interview questions that assess technical and behavioral fit (but easy short questions).

Resume:
%s

Job Description:
%s

Return only the 5 questions in a numbered list from 1 to 5. Do NOT include any introduction, explanation, or summary. Only output the numbered questions.`, resumeText, jobDescription)

	raw, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	questions := parseNumberedList(raw)
	if len(questions) == 0 {
		if s.logger != nil {
			s.logger.Printf("[Interview] model returned no parseable questions len=%d", len(raw))
		}
		return nil, fmt.Errorf("%w: model returned no questions", ErrUpstream)
	}
	return questions, nil
}

// EvaluateInterview scores the candidate's answers and returns the model's
// free-form evaluation text. Unanswered questions are marked, not rejected.
func (s *InterviewService) EvaluateInterview(ctx context.Context, questions, answers []string) (string, error) {
	if len(questions) == 0 {
		return "", fmt.Errorf("%w: questions and answers are required", ErrInvalidInput)
	}
	if s.llm == nil {
		return "", fmt.Errorf("%w: interview assistant is not configured", ErrUnavailable)
	}

	var b strings.Builder
	for i, q := range questions {
		answer := "(no answer)"
		if i < len(answers) && strings.TrimSpace(answers[i]) != "" {
			answer = answers[i]
		}
		fmt.Fprintf(&b, "Q: %s\nA: %s\n\n", q, answer)
	}

	prompt := fmt.Sprintf(
		`Evaluate this candidate based on their answers to the interview questions below. If there are a few grammatical mistakes, ignore them and assume the correct words, and keep a light hand. Provide only:
1. A score out of 100
2. A brief summary of their overall performance.

%s`, b.String())

	out, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("%w: model returned an empty evaluation", ErrUpstream)
	}
	return out, nil
}

// parseNumberedList extracts the items of a "1. ..." style list. Lines that
// do not start a new item are folded into the previous one, so multi-line
// questions survive. Leading numbering is stripped from each item.
func parseNumberedList(raw string) []string {
	var (
		items   []string
		current strings.Builder
	)
	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			items = append(items, s)
		}
		current.Reset()
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if rest, ok := stripListMarker(trimmed); ok {
			flush()
			current.WriteString(rest)
			continue
		}
		if current.Len() > 0 && trimmed != "" {
			current.WriteString(" ")
			current.WriteString(trimmed)
		}
	}
	flush()
	return items
}

// stripListMarker reports whether the line starts a list item ("3. text",
// "3) text") and returns the text after the marker.
func stripListMarker(line string) (string, bool) {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) {
		return "", false
	}
	if line[i] != '.' && line[i] != ')' {
		return "", false
	}
	return strings.TrimSpace(line[i+1:]), true
}

var _ InterviewUsecase = (*InterviewService)(nil)
