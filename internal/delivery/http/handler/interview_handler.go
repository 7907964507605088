package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase"
)

type InterviewHandler struct {
	uc usecase.InterviewUsecase
}

type generateQuestionsRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
}

type evaluateInterviewRequest struct {
	Questions []string `json:"questions"`
	Answers   []string `json:"answers"`
}

func NewInterviewHandler(uc usecase.InterviewUsecase) *InterviewHandler {
	return &InterviewHandler{uc: uc}
}

func (h *InterviewHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/generate-questions", h.GenerateQuestions)
	r.Post("/evaluate-interview", h.Evaluate)
}

func (h *InterviewHandler) GenerateQuestions(c fiber.Ctx) error {
	var req generateQuestionsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	questions, err := h.uc.GenerateQuestions(c.Context(), req.ResumeText, req.JobDescription)
	if err != nil {
		return mapInterviewUsecaseError(err)
	}

	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"message":   "ok",
		"questions": questions,
	})
}

func (h *InterviewHandler) Evaluate(c fiber.Ctx) error {
	var req evaluateInterviewRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	evaluation, err := h.uc.EvaluateInterview(c.Context(), req.Questions, req.Answers)
	if err != nil {
		return mapInterviewUsecaseError(err)
	}

	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"message":    "ok",
		"evaluation": evaluation,
	})
}

func mapInterviewUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Interview assistant is not available", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
