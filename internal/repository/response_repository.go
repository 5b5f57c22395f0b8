package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Ehud-Guzman/customerfeedback/internal/models"
)

// ResponseRepository persists feedback submissions.
type ResponseRepository struct {
	db *sqlx.DB
}

// NewResponseRepository instantiates the repository.
func NewResponseRepository(db *sqlx.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// CreateWithItems inserts a response and all of its items in one transaction.
func (r *ResponseRepository) CreateWithItems(ctx context.Context, response *models.Response, items []models.ResponseItem) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create response: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertResponse = `INSERT INTO responses (id, org_id, survey_id, source, submitted_at, visit_frequency, time_spent_min, fast_exit_reason, peak_hour_bucket)
VALUES (:id, :org_id, :survey_id, :source, :submitted_at, :visit_frequency, :time_spent_min, :fast_exit_reason, :peak_hour_bucket)`
	if _, err = tx.NamedExecContext(ctx, insertResponse, response); err != nil {
		return fmt.Errorf("insert response: %w", err)
	}

	const insertItem = `INSERT INTO response_items (id, response_id, question_id, value) VALUES (:id, :response_id, :question_id, :value)`
	for i := range items {
		item := items[i]
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.ResponseID = response.ID
		if _, err = tx.NamedExecContext(ctx, insertItem, item); err != nil {
			return fmt.Errorf("insert response item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create response: %w", err)
	}
	return nil
}
