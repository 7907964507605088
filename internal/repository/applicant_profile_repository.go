package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"jobboard/internal/database"
	"jobboard/internal/domain/profile"
)

// ApplicantProfileUpdate is the typed patch applied by PUT /profile. Nil
// fields are left untouched.
type ApplicantProfileUpdate struct {
	FirstName       *string
	LastName        *string
	Phone           *string
	DateOfBirth     *time.Time
	Address         *string
	Skills          []string
	ExperienceYears *int
}

type ApplicantProfileRepository interface {
	Create(ctx context.Context, p profile.ApplicantProfile) (profile.ApplicantProfile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (profile.ApplicantProfile, error)
	GetByID(ctx context.Context, id uuid.UUID) (profile.ApplicantProfile, error)
	Update(ctx context.Context, id uuid.UUID, upd ApplicantProfileUpdate) (profile.ApplicantProfile, error)
	SetFileURL(ctx context.Context, id uuid.UUID, purpose profile.FilePurpose, url *string) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type PostgresApplicantProfileRepository struct {
	db database.DB
}

func NewPostgresApplicantProfileRepository(db database.DB) *PostgresApplicantProfileRepository {
	return &PostgresApplicantProfileRepository{db: db}
}

const applicantProfileColumns = `id, user_id, email, first_name, last_name, phone, date_of_birth,
	address, skills, experience_years, resume_url, photo_url, created_at, updated_at`

func (r *PostgresApplicantProfileRepository) Create(ctx context.Context, p profile.ApplicantProfile) (profile.ApplicantProfile, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO applicant_profiles
			(id, user_id, email, first_name, last_name, phone, date_of_birth, address, skills, experience_years, resume_url, photo_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING `+applicantProfileColumns,
		p.ID, p.UserID, p.Email, p.FirstName, p.LastName, p.Phone, p.DateOfBirth,
		p.Address, p.Skills, p.ExperienceYears, p.ResumeURL, p.PhotoURL,
	)
	created, err := scanApplicantProfile(row)
	if err != nil {
		if isUniqueViolation(err) {
			return profile.ApplicantProfile{}, profile.ErrAlreadyExists
		}
		return profile.ApplicantProfile{}, err
	}
	return created, nil
}

func (r *PostgresApplicantProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.ApplicantProfile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+applicantProfileColumns+` FROM applicant_profiles WHERE user_id = $1`,
		userID,
	)
	return scanApplicantProfile(row)
}

func (r *PostgresApplicantProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (profile.ApplicantProfile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+applicantProfileColumns+` FROM applicant_profiles WHERE id = $1`,
		id,
	)
	return scanApplicantProfile(row)
}

func (r *PostgresApplicantProfileRepository) Update(ctx context.Context, id uuid.UUID, upd ApplicantProfileUpdate) (profile.ApplicantProfile, error) {
	sets := make([]string, 0, 8)
	args := make([]any, 0, 8)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.FirstName != nil {
		add("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		add("last_name", *upd.LastName)
	}
	if upd.Phone != nil {
		add("phone", *upd.Phone)
	}
	if upd.DateOfBirth != nil {
		add("date_of_birth", *upd.DateOfBirth)
	}
	if upd.Address != nil {
		add("address", *upd.Address)
	}
	if upd.Skills != nil {
		add("skills", upd.Skills)
	}
	if upd.ExperienceYears != nil {
		add("experience_years", *upd.ExperienceYears)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	row := r.db.QueryRow(ctx,
		fmt.Sprintf(`UPDATE applicant_profiles SET %s WHERE id = $%d RETURNING %s`,
			strings.Join(sets, ", "), len(args), applicantProfileColumns),
		args...,
	)
	return scanApplicantProfile(row)
}

func (r *PostgresApplicantProfileRepository) SetFileURL(ctx context.Context, id uuid.UUID, purpose profile.FilePurpose, url *string) error {
	col, err := fileURLColumn(purpose)
	if err != nil {
		return err
	}

	n, err := r.db.Exec(ctx,
		fmt.Sprintf(`UPDATE applicant_profiles SET %s = $1, updated_at = now() WHERE id = $2`, col),
		url, id,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return profile.ErrNotFound
	}
	return nil
}

func (r *PostgresApplicantProfileRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM applicant_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return profile.ErrNotFound
	}
	return nil
}

func fileURLColumn(purpose profile.FilePurpose) (string, error) {
	switch purpose {
	case profile.PurposeResume:
		return "resume_url", nil
	case profile.PurposePhoto:
		return "photo_url", nil
	default:
		return "", fmt.Errorf("unknown file purpose %q", purpose)
	}
}

func scanApplicantProfile(row database.Row) (profile.ApplicantProfile, error) {
	var p profile.ApplicantProfile
	err := row.Scan(
		&p.ID, &p.UserID, &p.Email, &p.FirstName, &p.LastName, &p.Phone, &p.DateOfBirth,
		&p.Address, &p.Skills, &p.ExperienceYears, &p.ResumeURL, &p.PhotoURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.ApplicantProfile{}, profile.ErrNotFound
		}
		return profile.ApplicantProfile{}, err
	}
	return p, nil
}

var _ ApplicantProfileRepository = (*PostgresApplicantProfileRepository)(nil)
