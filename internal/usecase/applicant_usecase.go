package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobboard/internal/config"
	"jobboard/internal/domain/profile"
	"jobboard/internal/pkg/upload"
	"jobboard/internal/repository"
)

type CreateApplicantProfileInput struct {
	FirstName       string
	LastName        string
	Phone           *string
	DateOfBirth     *time.Time
	Address         *string
	Skills          []string
	ExperienceYears int
}

type UpdateApplicantProfileInput struct {
	FirstName       *string
	LastName        *string
	Phone           *string
	DateOfBirth     *time.Time
	Address         *string
	Skills          []string
	ExperienceYears *int
}

type ApplicantUsecase interface {
	CreateProfile(ctx context.Context, userID uuid.UUID, email string, in CreateApplicantProfileInput, resume *multipart.FileHeader) (profile.ApplicantProfile, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (profile.ApplicantProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateApplicantProfileInput) (profile.ApplicantProfile, error)
	DeleteProfile(ctx context.Context, userID uuid.UUID) error
	UploadResume(ctx context.Context, userID uuid.UUID, resume *multipart.FileHeader) (string, profile.ApplicantProfile, error)
	UploadPhoto(ctx context.Context, userID uuid.UUID, photo *multipart.FileHeader) (string, profile.ApplicantProfile, error)
}

var (
	resumeConstraint = upload.Constraint{
		Field:        "resume",
		AllowedTypes: []string{"application/pdf"},
		MaxBytes:     10 << 20,
	}
	photoConstraint = upload.Constraint{
		Field:        "photo",
		AllowedTypes: []string{"image/jpeg", "image/png", "image/webp"},
		MaxBytes:     5 << 20,
	}
)

type ApplicantService struct {
	profiles repository.ApplicantProfileRepository
	replacer *Replacer
	logger   *log.Logger

	resumeSpec ReplaceSpec
	photoSpec  ReplaceSpec
}

func NewApplicantService(profiles repository.ApplicantProfileRepository, replacer *Replacer, sb config.SupabaseConfig, logger *log.Logger) *ApplicantService {
	return &ApplicantService{
		profiles: profiles,
		replacer: replacer,
		logger:   logger,
		resumeSpec: ReplaceSpec{
			Purpose: profile.PurposeResume,
			Bucket:  sb.ResumeBucket,
			Prefix:  "resumes",
		},
		photoSpec: ReplaceSpec{
			Purpose: profile.PurposePhoto,
			Bucket:  sb.PhotoBucket,
			Prefix:  "photos",
		},
	}
}

// CreateProfile inserts the row with a null resume URL first, then runs the
// upload so the stored path can be named after the profile's own fields.
func (s *ApplicantService) CreateProfile(ctx context.Context, userID uuid.UUID, email string, in CreateApplicantProfileInput, resume *multipart.FileHeader) (profile.ApplicantProfile, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return profile.ApplicantProfile{}, fmt.Errorf("%w: first name and last name are required", ErrInvalidInput)
	}
	if in.ExperienceYears < 0 {
		return profile.ApplicantProfile{}, fmt.Errorf("%w: experience_years must not be negative", ErrInvalidInput)
	}

	file, err := upload.Open(resume, resumeConstraint)
	if err != nil {
		return profile.ApplicantProfile{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	skills := in.Skills
	if skills == nil {
		skills = []string{}
	}

	_, err = s.profiles.Create(ctx, profile.ApplicantProfile{
		ID:              uuid.New(),
		UserID:          userID,
		Email:           email,
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		Phone:           in.Phone,
		DateOfBirth:     in.DateOfBirth,
		Address:         in.Address,
		Skills:          skills,
		ExperienceYears: in.ExperienceYears,
	})
	if err != nil {
		if errors.Is(err, profile.ErrAlreadyExists) {
			return profile.ApplicantProfile{}, fmt.Errorf("%w: profile already exists", ErrConflict)
		}
		return profile.ApplicantProfile{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	_, updated, err := s.replacer.Replace(ctx, userID, s.resumeSpec, file)
	if err != nil {
		return profile.ApplicantProfile{}, err
	}
	return updated, nil
}

func (s *ApplicantService) GetProfile(ctx context.Context, userID uuid.UUID) (profile.ApplicantProfile, error) {
	return resolveApplicantProfile(ctx, s.profiles, userID)
}

func (s *ApplicantService) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateApplicantProfileInput) (profile.ApplicantProfile, error) {
	if in.ExperienceYears != nil && *in.ExperienceYears < 0 {
		return profile.ApplicantProfile{}, fmt.Errorf("%w: experience_years must not be negative", ErrInvalidInput)
	}

	p, err := resolveApplicantProfile(ctx, s.profiles, userID)
	if err != nil {
		return profile.ApplicantProfile{}, err
	}

	updated, err := s.profiles.Update(ctx, p.ID, repository.ApplicantProfileUpdate{
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Phone:           in.Phone,
		DateOfBirth:     in.DateOfBirth,
		Address:         in.Address,
		Skills:          in.Skills,
		ExperienceYears: in.ExperienceYears,
	})
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.ApplicantProfile{}, ErrNotFound
		}
		return profile.ApplicantProfile{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return updated, nil
}

// DeleteProfile removes the row and makes a best-effort attempt to clean up
// any blobs it still references.
func (s *ApplicantService) DeleteProfile(ctx context.Context, userID uuid.UUID) error {
	p, err := resolveApplicantProfile(ctx, s.profiles, userID)
	if err != nil {
		return err
	}

	s.replacer.DeleteStoredFiles(ctx, p, s.resumeSpec, s.photoSpec)

	if err := s.profiles.Delete(ctx, p.UserID); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return nil
}

func (s *ApplicantService) UploadResume(ctx context.Context, userID uuid.UUID, resume *multipart.FileHeader) (string, profile.ApplicantProfile, error) {
	file, err := upload.Open(resume, resumeConstraint)
	if err != nil {
		return "", profile.ApplicantProfile{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.replacer.Replace(ctx, userID, s.resumeSpec, file)
}

func (s *ApplicantService) UploadPhoto(ctx context.Context, userID uuid.UUID, photo *multipart.FileHeader) (string, profile.ApplicantProfile, error) {
	file, err := upload.Open(photo, photoConstraint)
	if err != nil {
		return "", profile.ApplicantProfile{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.replacer.Replace(ctx, userID, s.photoSpec, file)
}

// resolveApplicantProfile looks the row up by the auth subject first, then by
// the profile id itself. Early rows were keyed directly by the identity id
// and are only reachable through the fallback.
func resolveApplicantProfile(ctx context.Context, repo repository.ApplicantProfileRepository, subject uuid.UUID) (profile.ApplicantProfile, error) {
	p, err := repo.GetByUserID(ctx, subject)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, profile.ErrNotFound) {
		return profile.ApplicantProfile{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	p, err = repo.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.ApplicantProfile{}, ErrNotFound
		}
		return profile.ApplicantProfile{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return p, nil
}

var _ ApplicantUsecase = (*ApplicantService)(nil)
