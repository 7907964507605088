package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobboard/internal/domain/job"
	"jobboard/internal/repository"
)

const publicJobsPageSize = 10

// JobsCache is the subset of the cache used by the job listing paths. A nil
// cache disables caching without changing behavior.
type JobsCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type PublicJobsUsecase interface {
	ListJobs(ctx context.Context, page int) ([]job.Job, int, error)
	GetJob(ctx context.Context, id uuid.UUID) (job.Job, error)
	SearchJobs(ctx context.Context, title string) ([]job.Job, error)
	FilterJobs(ctx context.Context, f job.Filter) ([]job.Job, error)
}

type PublicJobsService struct {
	jobs   repository.JobRepository
	cache  JobsCache
	logger *log.Logger
}

func NewPublicJobsService(jobs repository.JobRepository, cache JobsCache, logger *log.Logger) *PublicJobsService {
	return &PublicJobsService{jobs: jobs, cache: cache, logger: logger}
}

// ListJobs returns one fixed-size page of active jobs, newest first, along
// with the page that was actually served.
func (s *PublicJobsService) ListJobs(ctx context.Context, page int) ([]job.Job, int, error) {
	if page < 1 {
		page = 1
	}

	key := fmt.Sprintf("jobs:list:%d", page)
	if out, ok := s.cached(ctx, key); ok {
		return out, page, nil
	}

	out, err := s.jobs.ListPublic(ctx, publicJobsPageSize, (page-1)*publicJobsPageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	s.store(ctx, key, out)
	return out, page, nil
}

func (s *PublicJobsService) GetJob(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrNotFound
		}
		return job.Job{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return j, nil
}

func (s *PublicJobsService) SearchJobs(ctx context.Context, title string) ([]job.Job, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title query is required", ErrInvalidInput)
	}

	key := searchCacheKey(title)
	if out, ok := s.cached(ctx, key); ok {
		return out, nil
	}

	out, err := s.jobs.SearchByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	s.store(ctx, key, out)
	return out, nil
}

func (s *PublicJobsService) FilterJobs(ctx context.Context, f job.Filter) ([]job.Job, error) {
	out, err := s.jobs.Filter(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return out, nil
}

func (s *PublicJobsService) cached(ctx context.Context, key string) ([]job.Job, bool) {
	if s.cache == nil {
		return nil, false
	}
	var out []job.Job
	hit, err := s.cache.GetJSON(ctx, key, &out)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("[PublicJobs] cache read failed key=%s err=%v", key, err)
		}
		return nil, false
	}
	return out, hit
}

func (s *PublicJobsService) store(ctx context.Context, key string, jobs []job.Job) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, jobs, 0); err != nil && s.logger != nil {
		s.logger.Printf("[PublicJobs] cache write failed key=%s err=%v", key, err)
	}
}

// searchCacheKey hashes the normalized query so arbitrary user input never
// lands in a key verbatim.
func searchCacheKey(title string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(title))))
	return "jobs:search:" + hex.EncodeToString(sum[:])[:16]
}

var _ PublicJobsUsecase = (*PublicJobsService)(nil)
