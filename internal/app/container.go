package app

import (
	"context"
	"log"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/database"
	"jobboard/internal/database/migration"
	dbpostgres "jobboard/internal/database/postgres"
	"jobboard/internal/infrastructure/ai"
	"jobboard/internal/infrastructure/cache"
	"jobboard/internal/infrastructure/identity"
	"jobboard/internal/infrastructure/objectstore"
	"jobboard/internal/repository"
	"jobboard/internal/usecase"
	"jobboard/internal/ws"
)

// Container owns every long-lived dependency and the usecases wired on top of
// them.
type Container struct {
	Config config.Config
	Logger *log.Logger
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub

	Identity identity.Provider
	Store    objectstore.Store

	Roles             repository.RoleRepository
	ApplicantProfiles repository.ApplicantProfileRepository
	CompanyProfiles   repository.CompanyProfileRepository
	Jobs              repository.JobRepository

	Auth       usecase.AuthUsecase
	Applicant  usecase.ApplicantUsecase
	Company    usecase.CompanyUsecase
	PublicJobs usecase.PublicJobsUsecase
	Interview  usecase.InterviewUsecase
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := migration.Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	redisCache := cache.NewRedis(logger)
	hub := ws.NewHub(logger)

	provider := identity.NewClient(cfg.Supabase, logger)
	store := objectstore.NewClient(cfg.Supabase, logger)

	roles := repository.NewPostgresRoleRepository(db)
	applicantProfiles := repository.NewPostgresApplicantProfileRepository(db)
	companyProfiles := repository.NewPostgresCompanyProfileRepository(db)
	jobs := repository.NewPostgresJobRepository(db)

	replacer := usecase.NewReplacer(store, applicantProfiles, logger)
	notifier := ws.NewNotifier(hub)

	var generator ai.Generator
	groq, err := ai.NewGroqClient(cfg.AI)
	if err != nil {
		logger.Printf("[AI] Groq client unavailable: %v", err)
	} else if groq != nil {
		generator = groq
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  redisCache,
		Hub:    hub,

		Identity: provider,
		Store:    store,

		Roles:             roles,
		ApplicantProfiles: applicantProfiles,
		CompanyProfiles:   companyProfiles,
		Jobs:              jobs,

		Auth:       usecase.NewAuthService(provider, roles, companyProfiles, cfg.OriginURL(), logger),
		Applicant:  usecase.NewApplicantService(applicantProfiles, replacer, cfg.Supabase, logger),
		Company:    usecase.NewCompanyService(jobs, redisCache, notifier, logger),
		PublicJobs: usecase.NewPublicJobsService(jobs, redisCache, logger),
		Interview:  usecase.NewInterviewService(generator, logger),
	}
	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
