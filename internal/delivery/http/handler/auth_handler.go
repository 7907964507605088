package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase"
)

type AuthHandler struct {
	uc usecase.AuthUsecase
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerCompanyRequest struct {
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	CompanyName   string  `json:"company_name"`
	Industry      *string `json:"industry"`
	CompanySize   *string `json:"company_size"`
	Website       *string `json:"website"`
	Description   *string `json:"description"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
}

type changePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Post("/register", h.RegisterCompany)
}

func (h *AuthHandler) Signup(c fiber.Ctx) error {
	var req signupRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.uc.Signup(c.Context(), usecase.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	payload := fiber.Map{
		"message": "Signup successful",
		"user":    res.User,
	}
	if res.Session != nil {
		payload["session"] = res.Session
	}
	if res.RequiresEmailVerification {
		payload["message"] = "Signup successful, please verify your email"
		payload["requires_email_verification"] = true
	}
	return response.JSON(c, fiber.StatusCreated, payload)
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.uc.Login(c.Context(), usecase.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"message":  "Login successful",
		"user":     res.User,
		"session":  res.Session,
		"redirect": res.Redirect,
	})
}

func (h *AuthHandler) RegisterCompany(c fiber.Ctx) error {
	var req registerCompanyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.uc.RegisterCompany(c.Context(), usecase.RegisterCompanyInput{
		Email:         req.Email,
		Password:      req.Password,
		CompanyName:   req.CompanyName,
		Industry:      req.Industry,
		CompanySize:   req.CompanySize,
		Website:       req.Website,
		Description:   req.Description,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Address:       req.Address,
	})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	payload := fiber.Map{
		"message": "Company registered successfully",
		"user":    res.User,
		"company": res.CompanyProfile,
	}
	if res.Session != nil {
		payload["session"] = res.Session
	}
	return response.JSON(c, fiber.StatusCreated, payload)
}

func (h *AuthHandler) ChangePassword(c fiber.Ctx) error {
	user, ok := middleware.UserFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req changePasswordRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.ChangePassword(c.Context(), user.AccessToken, usecase.ChangePasswordInput{NewPassword: req.NewPassword}); err != nil {
		return mapAuthUsecaseError(err)
	}

	return response.Message(c, fiber.StatusOK, "Password updated successfully")
}

func mapAuthUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", nil, err)
	case errors.Is(err, usecase.ErrConflict):
		return middleware.NewAppError(fiber.StatusConflict, "Conflict", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid email or password", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
