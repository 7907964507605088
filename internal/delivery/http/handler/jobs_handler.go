package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/domain/job"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase"
)

// JobsHandler serves the public, unauthenticated job endpoints.
type JobsHandler struct {
	uc usecase.PublicJobsUsecase
}

func NewJobsHandler(uc usecase.PublicJobsUsecase) *JobsHandler {
	return &JobsHandler{uc: uc}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	// Static paths first so "search" is never captured as an id.
	r.Get("/search", h.SearchJobs)
	r.Get("/filter", h.FilterJobs)
	r.Get("/", h.ListJobs)
	r.Get("/:id", h.GetJob)
}

func (h *JobsHandler) ListJobs(c fiber.Ctx) error {
	page := 1
	if s := c.Query("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "page must be a number", nil, err)
		}
		page = v
	}

	jobs, served, err := h.uc.ListJobs(c.Context(), page)
	if err != nil {
		return mapPublicJobsUsecaseError(err)
	}

	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"message": "ok",
		"jobs":    jobs,
		"page":    served,
	})
}

func (h *JobsHandler) GetJob(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid job id", nil, err)
	}

	j, err := h.uc.GetJob(c.Context(), id)
	if err != nil {
		return mapPublicJobsUsecaseError(err)
	}

	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"message": "ok",
		"job":     j,
	})
}

func (h *JobsHandler) SearchJobs(c fiber.Ctx) error {
	jobs, err := h.uc.SearchJobs(c.Context(), c.Query("title"))
	if err != nil {
		return mapPublicJobsUsecaseError(err)
	}

	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"message": "ok",
		"jobs":    jobs,
	})
}

func (h *JobsHandler) FilterJobs(c fiber.Ctx) error {
	f := job.Filter{
		Location: c.Query("location"),
		Industry: c.Query("industry"),
		Urgent:   queryBool(c, "urgent"),
		Featured: queryBool(c, "featured"),
		Remote:   queryBool(c, "remote"),
	}

	jobs, err := h.uc.FilterJobs(c.Context(), f)
	if err != nil {
		return mapPublicJobsUsecaseError(err)
	}

	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"message": "ok",
		"jobs":    jobs,
	})
}

func queryBool(c fiber.Ctx, key string) bool {
	return c.Query(key) == "true"
}

func mapPublicJobsUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
