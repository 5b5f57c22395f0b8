package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Ehud-Guzman/customerfeedback/internal/models"
)

// groupColumns whitelists the response columns analytics may group by.
var groupColumns = map[models.ResponseDimension]string{
	models.DimensionSource:         "r.source",
	models.DimensionFastExitReason: "r.fast_exit_reason",
	models.DimensionPeakHourBucket: "r.peak_hour_bucket",
	models.DimensionSurvey:         "r.survey_id",
}

// AnalyticsRepository exposes read-only aggregate queries over responses.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// responseScope appends the tenant and window predicates for alias r.
func responseScope(builder *strings.Builder, args []interface{}, filter models.ResponseFilter) []interface{} {
	args = append(args, filter.OrgID)
	builder.WriteString(fmt.Sprintf(" WHERE r.org_id = $%d", len(args)))
	if filter.SurveyID != "" {
		args = append(args, filter.SurveyID)
		builder.WriteString(fmt.Sprintf(" AND r.survey_id = $%d", len(args)))
	}
	if filter.Since != nil {
		args = append(args, *filter.Since)
		builder.WriteString(fmt.Sprintf(" AND r.submitted_at >= $%d", len(args)))
	}
	if filter.Until != nil {
		args = append(args, *filter.Until)
		builder.WriteString(fmt.Sprintf(" AND r.submitted_at < $%d", len(args)))
	}
	return args
}

// CountResponses counts responses matching the filter.
func (r *AnalyticsRepository) CountResponses(ctx context.Context, filter models.ResponseFilter) (int, error) {
	var builder strings.Builder
	builder.WriteString("SELECT COUNT(*) FROM responses r")
	args := responseScope(&builder, nil, filter)

	var count int
	if err := r.db.GetContext(ctx, &count, builder.String(), args...); err != nil {
		return 0, fmt.Errorf("count responses: %w", err)
	}
	return count, nil
}

// AverageTimeSpent averages time_spent_min over responses that recorded it. Nil means none did.
func (r *AnalyticsRepository) AverageTimeSpent(ctx context.Context, filter models.ResponseFilter) (*float64, error) {
	var builder strings.Builder
	builder.WriteString("SELECT AVG(r.time_spent_min)::float8 FROM responses r")
	args := responseScope(&builder, nil, filter)
	builder.WriteString(" AND r.time_spent_min IS NOT NULL")

	var avg sql.NullFloat64
	if err := r.db.GetContext(ctx, &avg, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("average time spent: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	value := avg.Float64
	return &value, nil
}

// GroupResponses counts responses per value of dim. NULL values are left out.
func (r *AnalyticsRepository) GroupResponses(ctx context.Context, filter models.ResponseFilter, dim models.ResponseDimension) ([]models.GroupCount, error) {
	column, ok := groupColumns[dim]
	if !ok {
		return nil, fmt.Errorf("group responses: unsupported dimension %q", dim)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("SELECT %s AS key, COUNT(*) AS count FROM responses r", column))
	args := responseScope(&builder, nil, filter)
	builder.WriteString(fmt.Sprintf(" AND %s IS NOT NULL GROUP BY %s ORDER BY count DESC, key ASC", column, column))

	var rows []models.GroupCount
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("group responses by %s: %w", dim, err)
	}
	return rows, nil
}

// SurveyTitles maps survey ids owned by orgID to their titles. Unknown ids are absent.
func (r *AnalyticsRepository) SurveyTitles(ctx context.Context, orgID string, surveyIDs []string) (map[string]string, error) {
	titles := make(map[string]string, len(surveyIDs))
	if len(surveyIDs) == 0 {
		return titles, nil
	}

	const query = `SELECT id, title FROM surveys WHERE org_id = $1 AND id = ANY($2)`
	var rows []struct {
		ID    string `db:"id"`
		Title string `db:"title"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, orgID, pq.Array(surveyIDs)); err != nil {
		return nil, fmt.Errorf("load survey titles: %w", err)
	}
	for _, row := range rows {
		titles[row.ID] = row.Title
	}
	return titles, nil
}

// TrendRows returns the per-response projection used for daily bucketing.
func (r *AnalyticsRepository) TrendRows(ctx context.Context, filter models.ResponseFilter) ([]models.TrendRow, error) {
	var builder strings.Builder
	builder.WriteString("SELECT r.submitted_at, r.time_spent_min::float8 AS time_spent_min, r.source FROM responses r")
	args := responseScope(&builder, nil, filter)
	builder.WriteString(" ORDER BY r.submitted_at ASC")

	var rows []models.TrendRow
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query trend rows: %w", err)
	}
	return rows, nil
}

// AnswerRows returns every answer in the filter joined with its response metadata.
// Items are restricted to questions of the response's own survey.
func (r *AnalyticsRepository) AnswerRows(ctx context.Context, filter models.ResponseFilter) ([]models.AnswerRow, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT ri.question_id, ri.value, r.submitted_at, r.source
        FROM response_items ri
        JOIN responses r ON r.id = ri.response_id
        JOIN questions q ON q.id = ri.question_id AND q.survey_id = r.survey_id`)
	args := responseScope(&builder, nil, filter)
	builder.WriteString(" ORDER BY r.submitted_at DESC, ri.id ASC")

	var rows []models.AnswerRow
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("query answer rows: %w", err)
	}
	return rows, nil
}
