package app

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"

	"jobboard/internal/config"
	"jobboard/internal/delivery/http/handler"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/delivery/http/routes"
	"jobboard/internal/ws"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap builds the container, wires handlers and middleware, and starts
// the websocket hub. The returned cleanup closes every owned resource.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg, nil)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: 12 << 20,
	})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	go c.Hub.Run()

	cleanup := func() error { return c.Close() }
	return &App{Fiber: f, Container: c}, cleanup, nil
}

func registerGlobalMiddleware(f *fiber.App, c *Container) {
	if f == nil {
		return
	}

	f.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	f.Use(middleware.NewErrorMiddleware().Middleware())
	f.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins(c.Config),
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))
}

func registerRoutes(f *fiber.App, c *Container) {
	if f == nil {
		return
	}

	authMW := middleware.NewAuthMiddleware(c.Identity, c.Roles, c.Logger)

	registry := &routes.Registry{
		Health:    handler.NewHealthHandler(c.DB, c.Cache),
		Auth:      handler.NewAuthHandler(c.Auth),
		Applicant: handler.NewApplicantHandler(c.Applicant),
		Company:   handler.NewCompanyHandler(c.Company),
		Jobs:      handler.NewJobsHandler(c.PublicJobs),
		Interview: handler.NewInterviewHandler(c.Interview),
		WS:        ws.NewHandler(c.Hub, c.Logger),
		AuthMW:    authMW,
	}
	registry.Register(f)
}

func corsOrigins(cfg config.Config) []string {
	out := make([]string, 0, 2)
	for _, u := range []string{cfg.Frontend.DevURL, cfg.Frontend.ProdURL} {
		u = strings.TrimSpace(u)
		if u != "" {
			out = append(out, u)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
