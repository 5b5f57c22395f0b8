package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Ehud-Guzman/customerfeedback/internal/models"
)

const surveyColumns = "id, org_id, title, description, active, created_at"

// SurveyRepository reads surveys and their questions.
type SurveyRepository struct {
	db *sqlx.DB
}

// NewSurveyRepository instantiates the repository.
func NewSurveyRepository(db *sqlx.DB) *SurveyRepository {
	return &SurveyRepository{db: db}
}

// FindByOrg loads a survey owned by orgID regardless of its active flag.
func (r *SurveyRepository) FindByOrg(ctx context.Context, orgID, surveyID string) (*models.Survey, error) {
	var survey models.Survey
	query := fmt.Sprintf("SELECT %s FROM surveys WHERE id = $1 AND org_id = $2 LIMIT 1", surveyColumns)
	if err := r.db.GetContext(ctx, &survey, query, surveyID, orgID); err != nil {
		return nil, fmt.Errorf("find survey by org: %w", err)
	}
	return &survey, nil
}

// FindActiveByOrg loads an active survey owned by orgID.
func (r *SurveyRepository) FindActiveByOrg(ctx context.Context, orgID, surveyID string) (*models.Survey, error) {
	var survey models.Survey
	query := fmt.Sprintf("SELECT %s FROM surveys WHERE id = $1 AND org_id = $2 AND active = TRUE LIMIT 1", surveyColumns)
	if err := r.db.GetContext(ctx, &survey, query, surveyID, orgID); err != nil {
		return nil, fmt.Errorf("find active survey: %w", err)
	}
	return &survey, nil
}

// ListActiveQuestions returns the active questions of a survey in display order.
func (r *SurveyRepository) ListActiveQuestions(ctx context.Context, surveyID string) ([]models.Question, error) {
	const query = `SELECT id, survey_id, sort_order, prompt, type, choices, active
        FROM questions WHERE survey_id = $1 AND active = TRUE ORDER BY sort_order ASC, id ASC`
	var questions []models.Question
	if err := r.db.SelectContext(ctx, &questions, query, surveyID); err != nil {
		return nil, fmt.Errorf("list active questions: %w", err)
	}
	return questions, nil
}
