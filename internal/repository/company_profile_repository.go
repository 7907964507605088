package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"jobboard/internal/database"
	"jobboard/internal/domain/profile"
)

type CompanyProfileRepository interface {
	Create(ctx context.Context, p profile.CompanyProfile) (profile.CompanyProfile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (profile.CompanyProfile, error)
}

type PostgresCompanyProfileRepository struct {
	db database.DB
}

func NewPostgresCompanyProfileRepository(db database.DB) *PostgresCompanyProfileRepository {
	return &PostgresCompanyProfileRepository{db: db}
}

const companyProfileColumns = `id, user_id, email, company_name, industry, company_size, website,
	description, contact_person, phone, address, created_at, updated_at`

func (r *PostgresCompanyProfileRepository) Create(ctx context.Context, p profile.CompanyProfile) (profile.CompanyProfile, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO company_profiles
			(id, user_id, email, company_name, industry, company_size, website, description, contact_person, phone, address)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING `+companyProfileColumns,
		p.ID, p.UserID, p.Email, p.CompanyName, p.Industry, p.CompanySize, p.Website,
		p.Description, p.ContactPerson, p.Phone, p.Address,
	)
	return scanCompanyProfile(row)
}

func (r *PostgresCompanyProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.CompanyProfile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+companyProfileColumns+` FROM company_profiles WHERE user_id = $1`,
		userID,
	)
	return scanCompanyProfile(row)
}

func scanCompanyProfile(row database.Row) (profile.CompanyProfile, error) {
	var p profile.CompanyProfile
	err := row.Scan(
		&p.ID, &p.UserID, &p.Email, &p.CompanyName, &p.Industry, &p.CompanySize, &p.Website,
		&p.Description, &p.ContactPerson, &p.Phone, &p.Address, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.CompanyProfile{}, profile.ErrNotFound
		}
		return profile.CompanyProfile{}, err
	}
	return p, nil
}

var _ CompanyProfileRepository = (*PostgresCompanyProfileRepository)(nil)
