package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Ehud-Guzman/customerfeedback/internal/models"
)

// OrganizationRepository reads tenant organizations.
type OrganizationRepository struct {
	db *sqlx.DB
}

// NewOrganizationRepository instantiates the repository.
func NewOrganizationRepository(db *sqlx.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// FindByIDOrCode loads an organization whose id or code equals key.
func (r *OrganizationRepository) FindByIDOrCode(ctx context.Context, key string) (*models.Organization, error) {
	const query = `SELECT id, code, name, active, created_at FROM organizations
        WHERE id = $1 OR code = $1 ORDER BY (id = $1) DESC LIMIT 1`
	var org models.Organization
	if err := r.db.GetContext(ctx, &org, query, key); err != nil {
		return nil, fmt.Errorf("find organization: %w", err)
	}
	return &org, nil
}
