package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"jobboard/internal/domain/job"
	"jobboard/internal/repository"
)

type CreateJobInput struct {
	Title        string
	Description  string
	Requirements []string
	Location     *string
	Industry     *string
	JobType      *string
	SalaryMin    *int64
	SalaryMax    *int64
	IsActive     *bool
	IsUrgent     bool
	IsFeatured   bool
	IsRemote     bool
}

type UpdateJobInput struct {
	Title        *string
	Description  *string
	Requirements []string
	Location     *string
	Industry     *string
	JobType      *string
	SalaryMin    *int64
	SalaryMax    *int64
	IsActive     *bool
	IsUrgent     *bool
	IsFeatured   *bool
	IsRemote     *bool
}

// JobFeedNotifier pushes job lifecycle events to connected clients. A nil
// notifier is a no-op.
type JobFeedNotifier interface {
	NotifyJob(event string, j job.Job)
}

type CompanyUsecase interface {
	CreateJob(ctx context.Context, companyID uuid.UUID, in CreateJobInput) (job.Job, error)
	ListJobs(ctx context.Context, companyID uuid.UUID) ([]job.Job, error)
	GetJob(ctx context.Context, companyID, jobID uuid.UUID) (job.Job, error)
	UpdateJob(ctx context.Context, companyID, jobID uuid.UUID, in UpdateJobInput) (job.Job, error)
	DeleteJob(ctx context.Context, companyID, jobID uuid.UUID) error
}

type CompanyService struct {
	jobs     repository.JobRepository
	cache    JobsCache
	notifier JobFeedNotifier
	logger   *log.Logger
}

func NewCompanyService(jobs repository.JobRepository, cache JobsCache, notifier JobFeedNotifier, logger *log.Logger) *CompanyService {
	return &CompanyService{jobs: jobs, cache: cache, notifier: notifier, logger: logger}
}

func (s *CompanyService) CreateJob(ctx context.Context, companyID uuid.UUID, in CreateJobInput) (job.Job, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return job.Job{}, fmt.Errorf("%w: title and description are required", ErrInvalidInput)
	}
	if in.SalaryMin != nil && in.SalaryMax != nil && *in.SalaryMin > *in.SalaryMax {
		return job.Job{}, fmt.Errorf("%w: salary_min must not exceed salary_max", ErrInvalidInput)
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	reqs := in.Requirements
	if reqs == nil {
		reqs = []string{}
	}

	created, err := s.jobs.Create(ctx, job.Job{
		ID:           uuid.New(),
		CompanyID:    companyID,
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		Requirements: reqs,
		Location:     in.Location,
		Industry:     in.Industry,
		JobType:      in.JobType,
		SalaryMin:    in.SalaryMin,
		SalaryMax:    in.SalaryMax,
		IsActive:     active,
		IsUrgent:     in.IsUrgent,
		IsFeatured:   in.IsFeatured,
		IsRemote:     in.IsRemote,
	})
	if err != nil {
		return job.Job{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	s.afterMutation(ctx, "job_posted", created)
	return created, nil
}

func (s *CompanyService) ListJobs(ctx context.Context, companyID uuid.UUID) ([]job.Job, error) {
	out, err := s.jobs.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return out, nil
}

func (s *CompanyService) GetJob(ctx context.Context, companyID, jobID uuid.UUID) (job.Job, error) {
	return s.ownedJob(ctx, companyID, jobID)
}

func (s *CompanyService) UpdateJob(ctx context.Context, companyID, jobID uuid.UUID, in UpdateJobInput) (job.Job, error) {
	if _, err := s.ownedJob(ctx, companyID, jobID); err != nil {
		return job.Job{}, err
	}
	if in.SalaryMin != nil && in.SalaryMax != nil && *in.SalaryMin > *in.SalaryMax {
		return job.Job{}, fmt.Errorf("%w: salary_min must not exceed salary_max", ErrInvalidInput)
	}

	updated, err := s.jobs.Update(ctx, jobID, repository.JobUpdate{
		Title:        in.Title,
		Description:  in.Description,
		Requirements: in.Requirements,
		Location:     in.Location,
		Industry:     in.Industry,
		JobType:      in.JobType,
		SalaryMin:    in.SalaryMin,
		SalaryMax:    in.SalaryMax,
		IsActive:     in.IsActive,
		IsUrgent:     in.IsUrgent,
		IsFeatured:   in.IsFeatured,
		IsRemote:     in.IsRemote,
	})
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrNotFound
		}
		return job.Job{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	s.afterMutation(ctx, "job_updated", updated)
	return updated, nil
}

func (s *CompanyService) DeleteJob(ctx context.Context, companyID, jobID uuid.UUID) error {
	owned, err := s.ownedJob(ctx, companyID, jobID)
	if err != nil {
		return err
	}

	if err := s.jobs.Delete(ctx, jobID); err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	s.afterMutation(ctx, "job_deleted", owned)
	return nil
}

// ownedJob enforces that the job exists and belongs to the caller. A foreign
// job is Forbidden, never NotFound, matching the original handler behavior.
func (s *CompanyService) ownedJob(ctx context.Context, companyID, jobID uuid.UUID) (job.Job, error) {
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrNotFound
		}
		return job.Job{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if j.CompanyID != companyID {
		return job.Job{}, ErrForbidden
	}
	return j, nil
}

func (s *CompanyService) afterMutation(ctx context.Context, event string, j job.Job) {
	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "jobs:*"); err != nil && s.logger != nil {
			s.logger.Printf("[Company] job cache invalidation failed err=%v", err)
		}
	}
	if s.notifier != nil {
		s.notifier.NotifyJob(event, j)
	}
}

var _ CompanyUsecase = (*CompanyService)(nil)
