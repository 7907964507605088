package routes

import (
	"github.com/gofiber/fiber/v3"

	"jobboard/internal/delivery/http/handler"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/domain/profile"
	"jobboard/internal/ws"
)

type Registry struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Applicant *handler.ApplicantHandler
	Company   *handler.CompanyHandler
	Jobs      *handler.JobsHandler
	Interview *handler.InterviewHandler
	WS        *ws.Handler

	AuthMW *middleware.AuthMiddleware
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.Health.RegisterRoutes(app)

	api := app.Group("/api")

	r.Auth.RegisterRoutes(api.Group("/auth"))

	applicant := api.Group("/applicant",
		r.AuthMW.Middleware(),
		r.AuthMW.RequireRole(profile.RoleApplicant, profile.RoleAdmin),
	)
	r.Applicant.RegisterRoutes(applicant)
	applicant.Post("/profile/change-password", r.Auth.ChangePassword)

	company := api.Group("/company",
		r.AuthMW.Middleware(),
		r.AuthMW.RequireRole(profile.RoleCompany, profile.RoleAdmin),
	)
	r.Company.RegisterRoutes(company)

	jobs := api.Group("/jobs")
	if r.WS != nil {
		jobs.Get("/ws", r.WS.HandleJobFeed)
	}
	r.Jobs.RegisterRoutes(jobs)

	r.Interview.RegisterRoutes(api.Group("/interview", r.AuthMW.Middleware()))
}
