package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Ehud-Guzman/customerfeedback/internal/models"
)

// UserRepository reads users and their organization memberships.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository instantiates the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID returns the user without memberships.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT id, email, role, active, created_at FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// FindWithMemberships returns the user with memberships ordered by creation.
func (r *UserRepository) FindWithMemberships(ctx context.Context, id string) (*models.User, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	const query = `SELECT user_id, org_id, role, active FROM memberships WHERE user_id = $1 ORDER BY created_at ASC, org_id ASC`
	if err := r.db.SelectContext(ctx, &user.Memberships, query, id); err != nil {
		return nil, fmt.Errorf("list user memberships: %w", err)
	}
	return user, nil
}
