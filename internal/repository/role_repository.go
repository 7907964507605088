package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"jobboard/internal/database"
	"jobboard/internal/domain/profile"
)

// RoleRepository reads and writes the authorization rows the request gate
// treats as the sole source of truth for role-based access.
type RoleRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (profile.RoleRecord, error)
	Insert(ctx context.Context, rec profile.RoleRecord) error
	UpdateRole(ctx context.Context, userID uuid.UUID, role string) error
}

type PostgresRoleRepository struct {
	db database.DB
}

func NewPostgresRoleRepository(db database.DB) *PostgresRoleRepository {
	return &PostgresRoleRepository{db: db}
}

func (r *PostgresRoleRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (profile.RoleRecord, error) {
	row := r.db.QueryRow(ctx,
		`SELECT user_id, email, role, created_at, updated_at
		 FROM profiles
		 WHERE user_id = $1`,
		userID,
	)

	var rec profile.RoleRecord
	if err := row.Scan(&rec.UserID, &rec.Email, &rec.Role, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.RoleRecord{}, profile.ErrNotFound
		}
		return profile.RoleRecord{}, err
	}
	return rec, nil
}

func (r *PostgresRoleRepository) Insert(ctx context.Context, rec profile.RoleRecord) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO profiles (user_id, email, role) VALUES ($1, $2, $3)`,
		rec.UserID, rec.Email, rec.Role,
	)
	return err
}

func (r *PostgresRoleRepository) UpdateRole(ctx context.Context, userID uuid.UUID, role string) error {
	n, err := r.db.Exec(ctx,
		`UPDATE profiles SET role = $1, updated_at = now() WHERE user_id = $2`,
		role, userID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return profile.ErrNotFound
	}
	return nil
}

var _ RoleRepository = (*PostgresRoleRepository)(nil)
