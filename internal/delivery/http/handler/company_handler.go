package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase"
)

type CompanyHandler struct {
	uc usecase.CompanyUsecase
}

type createJobRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Location     *string  `json:"location"`
	Industry     *string  `json:"industry"`
	JobType      *string  `json:"job_type"`
	SalaryMin    *int64   `json:"salary_min"`
	SalaryMax    *int64   `json:"salary_max"`
	IsActive     *bool    `json:"is_active"`
	IsUrgent     bool     `json:"is_urgent"`
	IsFeatured   bool     `json:"is_featured"`
	IsRemote     bool     `json:"is_remote"`
}

type updateJobRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Requirements []string `json:"requirements"`
	Location     *string  `json:"location"`
	Industry     *string  `json:"industry"`
	JobType      *string  `json:"job_type"`
	SalaryMin    *int64   `json:"salary_min"`
	SalaryMax    *int64   `json:"salary_max"`
	IsActive     *bool    `json:"is_active"`
	IsUrgent     *bool    `json:"is_urgent"`
	IsFeatured   *bool    `json:"is_featured"`
	IsRemote     *bool    `json:"is_remote"`
}

func NewCompanyHandler(uc usecase.CompanyUsecase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

func (h *CompanyHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/jobs", h.CreateJob)
	r.Get("/jobs", h.ListJobs)
	r.Get("/jobs/:id", h.GetJob)
	r.Put("/jobs/:id", h.UpdateJob)
	r.Delete("/jobs/:id", h.DeleteJob)
}

func (h *CompanyHandler) CreateJob(c fiber.Ctx) error {
	user, ok := middleware.UserFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req createJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.CreateJob(c.Context(), user.ID, usecase.CreateJobInput{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Location:     req.Location,
		Industry:     req.Industry,
		JobType:      req.JobType,
		SalaryMin:    req.SalaryMin,
		SalaryMax:    req.SalaryMax,
		IsActive:     req.IsActive,
		IsUrgent:     req.IsUrgent,
		IsFeatured:   req.IsFeatured,
		IsRemote:     req.IsRemote,
	})
	if err != nil {
		return mapCompanyUsecaseError(err)
	}

	return response.JSON(c, fiber.StatusCreated, fiber.Map{
		"message": "Job created successfully",
		"job":     created,
	})
}

func (h *CompanyHandler) ListJobs(c fiber.Ctx) error {
	user, ok := middleware.UserFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	jobs, err := h.uc.ListJobs(c.Context(), user.ID)
	if err != nil {
		return mapCompanyUsecaseError(err)
	}

	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"message": "ok",
		"jobs":    jobs,
	})
}

func (h *CompanyHandler) GetJob(c fiber.Ctx) error {
	user, ok := middleware.UserFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	jobID, err := parseJobID(c)
	if err != nil {
		return err
	}

	j, err := h.uc.GetJob(c.Context(), user.ID, jobID)
	if err != nil {
		return mapCompanyUsecaseError(err)
	}

	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"message": "ok",
		"job":     j,
	})
}

func (h *CompanyHandler) UpdateJob(c fiber.Ctx) error {
	user, ok := middleware.UserFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	jobID, err := parseJobID(c)
	if err != nil {
		return err
	}

	var req updateJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	updated, err := h.uc.UpdateJob(c.Context(), user.ID, jobID, usecase.UpdateJobInput{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Location:     req.Location,
		Industry:     req.Industry,
		JobType:      req.JobType,
		SalaryMin:    req.SalaryMin,
		SalaryMax:    req.SalaryMax,
		IsActive:     req.IsActive,
		IsUrgent:     req.IsUrgent,
		IsFeatured:   req.IsFeatured,
		IsRemote:     req.IsRemote,
	})
	if err != nil {
		return mapCompanyUsecaseError(err)
	}

	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"message": "Job updated successfully",
		"job":     updated,
	})
}

func (h *CompanyHandler) DeleteJob(c fiber.Ctx) error {
	user, ok := middleware.UserFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	jobID, err := parseJobID(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteJob(c.Context(), user.ID, jobID); err != nil {
		return mapCompanyUsecaseError(err)
	}

	return response.Message(c, fiber.StatusOK, "Job deleted successfully")
}

func parseJobID(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "invalid job id", nil, err)
	}
	return id, nil
}

func mapCompanyUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
