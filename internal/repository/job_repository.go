package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"jobboard/internal/database"
	"jobboard/internal/domain/job"
)

// JobUpdate is the typed patch a company may apply to its own job.
type JobUpdate struct {
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

type JobRepository interface {
	Create(ctx context.Context, j job.Job) (job.Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]job.Job, error)
	Update(ctx context.Context, id uuid.UUID, upd JobUpdate) (job.Job, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListPublic(ctx context.Context, limit, offset int) ([]job.Job, error)
	SearchByTitle(ctx context.Context, title string) ([]job.Job, error)
	Filter(ctx context.Context, f job.Filter) ([]job.Job, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `id, company_id, title, description, requirements, location, industry, job_type,
	salary_min, salary_max, is_active, is_urgent, is_featured, is_remote, created_at, updated_at`

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) (job.Job, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO jobs
			(id, company_id, title, description, requirements, location, industry, job_type,
			 salary_min, salary_max, is_active, is_urgent, is_featured, is_remote)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING `+jobColumns,
		j.ID, j.CompanyID, j.Title, j.Description, j.Requirements, j.Location, j.Industry, j.JobType,
		j.SalaryMin, j.SalaryMax, j.IsActive, j.IsUrgent, j.IsFeatured, j.IsRemote,
	)
	return scanJob(row)
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	return scanJob(row)
}

func (r *PostgresJobRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]job.Job, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE company_id = $1 ORDER BY created_at DESC`,
		companyID,
	)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

func (r *PostgresJobRepository) Update(ctx context.Context, id uuid.UUID, upd JobUpdate) (job.Job, error) {
	sets := make([]string, 0, 12)
	args := make([]any, 0, 12)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Requirements != nil {
		add("requirements", upd.Requirements)
	}
	if upd.Location != nil {
		add("location", *upd.Location)
	}
	if upd.Industry != nil {
		add("industry", *upd.Industry)
	}
	if upd.JobType != nil {
		add("job_type", *upd.JobType)
	}
	if upd.SalaryMin != nil {
		add("salary_min", *upd.SalaryMin)
	}
	if upd.SalaryMax != nil {
		add("salary_max", *upd.SalaryMax)
	}
	if upd.IsActive != nil {
		add("is_active", *upd.IsActive)
	}
	if upd.IsUrgent != nil {
		add("is_urgent", *upd.IsUrgent)
	}
	if upd.IsFeatured != nil {
		add("is_featured", *upd.IsFeatured)
	}
	if upd.IsRemote != nil {
		add("is_remote", *upd.IsRemote)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	row := r.db.QueryRow(ctx,
		fmt.Sprintf(`UPDATE jobs SET %s WHERE id = $%d RETURNING %s`,
			strings.Join(sets, ", "), len(args), jobColumns),
		args...,
	)
	return scanJob(row)
}

func (r *PostgresJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *PostgresJobRepository) ListPublic(ctx context.Context, limit, offset int) ([]job.Job, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs
		 WHERE is_active = true
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

func (r *PostgresJobRepository) SearchByTitle(ctx context.Context, title string) ([]job.Job, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs
		 WHERE is_active = true AND title ILIKE '%' || $1 || '%'
		 ORDER BY created_at DESC`,
		title,
	)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

func (r *PostgresJobRepository) Filter(ctx context.Context, f job.Filter) ([]job.Job, error) {
	conds := []string{"is_active = true"}
	args := make([]any, 0, 2)

	if s := strings.TrimSpace(f.Location); s != "" {
		args = append(args, s)
		conds = append(conds, fmt.Sprintf("location = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Industry); s != "" {
		args = append(args, s)
		conds = append(conds, fmt.Sprintf("industry = $%d", len(args)))
	}
	if f.Urgent {
		conds = append(conds, "is_urgent = true")
	}
	if f.Featured {
		conds = append(conds, "is_featured = true")
	}
	if f.Remote {
		conds = append(conds, "is_remote = true")
	}

	rows, err := r.db.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM jobs WHERE %s ORDER BY created_at DESC`,
			jobColumns, strings.Join(conds, " AND ")),
		args...,
	)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	err := row.Scan(
		&j.ID, &j.CompanyID, &j.Title, &j.Description, &j.Requirements, &j.Location, &j.Industry, &j.JobType,
		&j.SalaryMin, &j.SalaryMax, &j.IsActive, &j.IsUrgent, &j.IsFeatured, &j.IsRemote, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

func collectJobs(rows database.Rows) ([]job.Job, error) {
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		var j job.Job
		if err := rows.Scan(
			&j.ID, &j.CompanyID, &j.Title, &j.Description, &j.Requirements, &j.Location, &j.Industry, &j.JobType,
			&j.SalaryMin, &j.SalaryMax, &j.IsActive, &j.IsUrgent, &j.IsFeatured, &j.IsRemote, &j.CreatedAt, &j.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var _ JobRepository = (*PostgresJobRepository)(nil)
