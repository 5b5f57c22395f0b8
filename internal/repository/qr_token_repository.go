package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Ehud-Guzman/customerfeedback/internal/models"
)

// QrTokenRepository resolves public QR tokens.
type QrTokenRepository struct {
	db *sqlx.DB
}

// NewQrTokenRepository instantiates the repository.
func NewQrTokenRepository(db *sqlx.DB) *QrTokenRepository {
	return &QrTokenRepository{db: db}
}

// FindActive loads a token with the active flag of its survey. Expiry and
// activity are judged by the caller.
func (r *QrTokenRepository) FindActive(ctx context.Context, token string) (*models.QrToken, error) {
	const query = `SELECT t.token, t.org_id, t.survey_id, t.expires_at, t.active, s.active AS survey_active
        FROM qr_tokens t
        JOIN surveys s ON s.id = t.survey_id AND s.org_id = t.org_id
        WHERE t.token = $1 LIMIT 1`
	var qr models.QrToken
	if err := r.db.GetContext(ctx, &qr, query, token); err != nil {
		return nil, fmt.Errorf("find qr token: %w", err)
	}
	return &qr, nil
}
