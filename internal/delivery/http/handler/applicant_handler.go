package handler

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase"
)

type ApplicantHandler struct {
	uc usecase.ApplicantUsecase
}

type updateApplicantProfileRequest struct {
	FirstName       *string  `json:"first_name"`
	LastName        *string  `json:"last_name"`
	Phone           *string  `json:"phone"`
	DateOfBirth     *string  `json:"date_of_birth"`
	Address         *string  `json:"address"`
	Skills          []string `json:"skills"`
	ExperienceYears *int     `json:"experience_years"`
}

func NewApplicantHandler(uc usecase.ApplicantUsecase) *ApplicantHandler {
	return &ApplicantHandler{uc: uc}
}

func (h *ApplicantHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/profile", h.CreateProfile)
	r.Get("/profile", h.GetProfile)
	r.Put("/profile", h.UpdateProfile)
	r.Delete("/profile", h.DeleteProfile)
	r.Post("/profile/upload", h.UploadResume)
	r.Post("/profile/photo", h.UploadPhoto)
}

// CreateProfile reads a multipart form: profile fields as form values plus the
// resume file.
func (h *ApplicantHandler) CreateProfile(c fiber.Ctx) error {
	user, ok := middleware.UserFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	in := usecase.CreateApplicantProfileInput{
		FirstName: c.FormValue("first_name"),
		LastName:  c.FormValue("last_name"),
		Phone:     optFormValue(c, "phone"),
		Address:   optFormValue(c, "address"),
		Skills:    parseSkillsValue(c.FormValue("skills")),
	}

	if v := strings.TrimSpace(c.FormValue("date_of_birth")); v != "" {
		dob, err := time.Parse("2006-01-02", v)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "date_of_birth must be YYYY-MM-DD", nil, err)
		}
		in.DateOfBirth = &dob
	}
	if v := strings.TrimSpace(c.FormValue("experience_years")); v != "" {
		years, err := strconv.Atoi(v)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "experience_years must be a number", nil, err)
		}
		in.ExperienceYears = years
	}

	resume, err := c.FormFile("resume")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "resume file is required", nil, err)
	}

	created, err := h.uc.CreateProfile(c.Context(), user.ID, user.Email, in, resume)
	if err != nil {
		return mapApplicantUsecaseError(err)
	}

	return response.JSON(c, fiber.StatusCreated, fiber.Map{
		"message": "Profile created successfully",
		"profile": created,
	})
}

func (h *ApplicantHandler) GetProfile(c fiber.Ctx) error {
	user, ok := middleware.UserFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	p, err := h.uc.GetProfile(c.Context(), user.ID)
	if err != nil {
		return mapApplicantUsecaseError(err)
	}

	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"message": "ok",
		"profile": p,
	})
}

func (h *ApplicantHandler) UpdateProfile(c fiber.Ctx) error {
	user, ok := middleware.UserFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req updateApplicantProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	in := usecase.UpdateApplicantProfileInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Address:         req.Address,
		Skills:          req.Skills,
		ExperienceYears: req.ExperienceYears,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", strings.TrimSpace(*req.DateOfBirth))
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "date_of_birth must be YYYY-MM-DD", nil, err)
		}
		in.DateOfBirth = &dob
	}

	updated, err := h.uc.UpdateProfile(c.Context(), user.ID, in)
	if err != nil {
		return mapApplicantUsecaseError(err)
	}

	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"message": "Profile updated successfully",
		"profile": updated,
	})
}

func (h *ApplicantHandler) DeleteProfile(c fiber.Ctx) error {
	user, ok := middleware.UserFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	if err := h.uc.DeleteProfile(c.Context(), user.ID); err != nil {
		return mapApplicantUsecaseError(err)
	}

	return response.Message(c, fiber.StatusOK, "Profile deleted successfully")
}

func (h *ApplicantHandler) UploadResume(c fiber.Ctx) error {
	user, ok := middleware.UserFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	resume, err := c.FormFile("resume")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "resume file is required", nil, err)
	}

	url, p, err := h.uc.UploadResume(c.Context(), user.ID, resume)
	if err != nil {
		return mapApplicantUsecaseError(err)
	}

	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"message":    "Resume uploaded successfully",
		"resume_url": url,
		"profile":    p,
	})
}

func (h *ApplicantHandler) UploadPhoto(c fiber.Ctx) error {
	user, ok := middleware.UserFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	photo, err := c.FormFile("photo")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "photo file is required", nil, err)
	}

	url, p, err := h.uc.UploadPhoto(c.Context(), user.ID, photo)
	if err != nil {
		return mapApplicantUsecaseError(err)
	}

	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"message":   "Photo uploaded successfully",
		"photo_url": url,
		"profile":   p,
	})
}

func optFormValue(c fiber.Ctx, key string) *string {
	v := strings.TrimSpace(c.FormValue(key))
	if v == "" {
		return nil
	}
	return &v
}

// parseSkillsValue accepts either a JSON array or a comma separated string,
// matching the shapes the frontend has sent over time.
func parseSkillsValue(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var skills []string
		if err := json.Unmarshal([]byte(raw), &skills); err == nil {
			return skills
		}
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func mapApplicantUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
	case errors.Is(err, usecase.ErrConflict):
		return middleware.NewAppError(fiber.StatusConflict, "Profile already exists", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
