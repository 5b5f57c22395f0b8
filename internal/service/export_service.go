package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Ehud-Guzman/customerfeedback/internal/models"
	appErrors "github.com/Ehud-Guzman/customerfeedback/pkg/errors"
	"github.com/Ehud-Guzman/customerfeedback/pkg/export"
)

// Export formats accepted by ExportService.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type surveyReportSource interface {
	SurveyAnalytics(ctx context.Context, orgID, surveyID string, days int) (*models.SurveyAnalytics, bool, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportFile is a rendered export ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders survey analytics into downloadable files.
type ExportService struct {
	reports   surveyReportSource
	renderers map[string]datasetRenderer
	logger    *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(reports surveyReportSource, logger *zap.Logger, csv, pdf datasetRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		reports:   reports,
		renderers: map[string]datasetRenderer{ExportFormatCSV: csv, ExportFormatPDF: pdf},
		logger:    logger,
	}
}

// SurveyReport renders the per-question summary of one survey in the requested format.
func (s *ExportService) SurveyReport(ctx context.Context, orgID, surveyID string, days int, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	report, _, err := s.reports.SurveyAnalytics(ctx, orgID, surveyID, days)
	if err != nil {
		return nil, err
	}

	payload, err := renderer.Render(SurveyDataset(report))
	if err != nil {
		return nil, fmt.Errorf("render survey export: %w", err)
	}
	s.logger.Info("survey export rendered",
		zap.String("org_id", orgID),
		zap.String("survey_id", report.Survey.ID),
		zap.String("format", format),
		zap.Int("bytes", len(payload)),
	)
	return &ExportFile{
		Filename:    fmt.Sprintf("survey-%s-%dd.%s", sanitizeFilename(report.Survey.ID), report.WindowDays, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Payload:     payload,
	}, nil
}

// SurveyDataset flattens a survey report into one row per question.
func SurveyDataset(report *models.SurveyAnalytics) export.Dataset {
	data := export.Dataset{
		Title:   fmt.Sprintf("%s (last %d days, %d responses)", report.Survey.Title, report.WindowDays, report.ResponsesInWindow),
		Headers: []string{"Order", "Question", "Type", "Answers", "Summary", "Breakdown"},
		Rows:    make([][]string, 0, len(report.Questions)),
	}
	for _, q := range report.Questions {
		data.Rows = append(data.Rows, []string{
			strconv.Itoa(q.Order),
			q.Prompt,
			string(q.Type),
			strconv.Itoa(q.TotalAnswers),
			questionHeadline(q),
			chartText(q.Chart),
		})
	}
	return data
}

func questionHeadline(q models.QuestionSummary) string {
	switch {
	case q.RatingSummary != nil:
		return "avg " + formatOptional(q.RatingSummary.AvgRating)
	case q.YesNoSummary != nil:
		if q.YesNoSummary.YesPercent == nil {
			return "yes n/a"
		}
		return "yes " + formatOptional(q.YesNoSummary.YesPercent) + "%"
	case q.ChoiceSummary != nil:
		if len(q.ChoiceSummary.Options) == 0 {
			return "-"
		}
		return "top " + q.ChoiceSummary.Options[0].Label
	case q.TextSummary != nil:
		if len(q.TextSummary.Latest) == 0 {
			return "-"
		}
		return q.TextSummary.Latest[0].Value
	default:
		return "-"
	}
}

func chartText(chart []models.ChartEntry) string {
	parts := make([]string, 0, len(chart))
	for _, entry := range chart {
		parts = append(parts, fmt.Sprintf("%s=%d", entry.Label, entry.Count))
	}
	return strings.Join(parts, "; ")
}

func formatOptional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func sanitizeFilename(v string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, v)
}
