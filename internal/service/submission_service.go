package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ehud-Guzman/customerfeedback/internal/dto"
	"github.com/Ehud-Guzman/customerfeedback/internal/models"
	appErrors "github.com/Ehud-Guzman/customerfeedback/pkg/errors"
)

// SubmissionSurveyRepository loads the active survey structure used to validate answers.
type SubmissionSurveyRepository interface {
	FindActiveByOrg(ctx context.Context, orgID, surveyID string) (*models.Survey, error)
	ListActiveQuestions(ctx context.Context, surveyID string) ([]models.Question, error)
}

// ResponseWriter persists a response and its items atomically.
type ResponseWriter interface {
	CreateWithItems(ctx context.Context, response *models.Response, items []models.ResponseItem) error
}

// QrTokenRepository resolves public QR tokens.
type QrTokenRepository interface {
	FindActive(ctx context.Context, token string) (*models.QrToken, error)
}

// SubmissionService records staff-assisted and public QR feedback.
type SubmissionService struct {
	surveys   SubmissionSurveyRepository
	responses ResponseWriter
	tokens    QrTokenRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(surveys SubmissionSurveyRepository, responses ResponseWriter, tokens QrTokenRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SubmissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		surveys:   surveys,
		responses: responses,
		tokens:    tokens,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// SubmitStaff stores a staff-assisted submission for a survey of orgID.
func (s *SubmissionService) SubmitStaff(ctx context.Context, orgID string, req dto.SubmitFeedbackRequest) (*dto.SubmitFeedbackResponse, error) {
	if orgID == "" {
		return nil, appErrors.ErrTenantRequired
	}
	surveyID := strings.TrimSpace(req.SurveyID)
	if surveyID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "surveyId is required")
	}
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	survey, err := s.surveys.FindActiveByOrg(ctx, orgID, surveyID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load survey: %w", err)
	}
	if survey == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "survey not found for this organization")
	}

	return s.store(ctx, orgID, survey.ID, models.SourceStaff, req)
}

// OpenPublicSurvey returns the respondent view of the survey behind token.
func (s *SubmissionService) OpenPublicSurvey(ctx context.Context, token string) (*dto.PublicSurveyResponse, error) {
	qr, err := s.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	survey, err := s.surveys.FindActiveByOrg(ctx, qr.OrgID, qr.SurveyID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load survey: %w", err)
	}
	if survey == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "survey not found")
	}
	questions, err := s.surveys.ListActiveQuestions(ctx, survey.ID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	out := &dto.PublicSurveyResponse{
		OrgID: qr.OrgID,
		Survey: dto.PublicSurvey{
			ID:          survey.ID,
			Title:       survey.Title,
			Description: survey.Description,
			Questions:   make([]dto.PublicQuestion, 0, len(questions)),
		},
	}
	for _, q := range questions {
		out.Survey.Questions = append(out.Survey.Questions, dto.PublicQuestion{
			ID:      q.ID,
			Order:   q.Order,
			Prompt:  q.Prompt,
			Type:    string(q.Type),
			Choices: q.Choices,
		})
	}
	return out, nil
}

// SubmitPublic stores an anonymous submission made through a QR token.
func (s *SubmissionService) SubmitPublic(ctx context.Context, token string, req dto.SubmitFeedbackRequest) (*dto.SubmitFeedbackResponse, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}
	qr, err := s.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, qr.OrgID, qr.SurveyID, models.SourceQR, req)
}

func (s *SubmissionService) resolveToken(ctx context.Context, token string) (*models.QrToken, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "token required")
	}
	qr, err := s.tokens.FindActive(ctx, token)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load qr token: %w", err)
	}
	if qr == nil || !qr.Active || !qr.SurveyActive {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "survey not found")
	}
	if qr.Expired(s.now()) {
		return nil, appErrors.ErrQRExpired
	}
	return qr, nil
}

func (s *SubmissionService) validate(req *dto.SubmitFeedbackRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}
	for i := range req.Items {
		req.Items[i].QuestionID = strings.TrimSpace(req.Items[i].QuestionID)
		req.Items[i].Value = strings.TrimSpace(req.Items[i].Value)
		if req.Items[i].QuestionID == "" {
			return appErrors.Clone(appErrors.ErrValidation, "each item needs questionId")
		}
		if req.Items[i].Value == "" {
			return appErrors.Clone(appErrors.ErrValidation, "each item needs value")
		}
	}
	return nil
}

func (s *SubmissionService) store(ctx context.Context, orgID, surveyID, source string, req dto.SubmitFeedbackRequest) (*dto.SubmitFeedbackResponse, error) {
	questions, err := s.surveys.ListActiveQuestions(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	allowed := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		allowed[q.ID] = struct{}{}
	}
	for _, item := range req.Items {
		if _, ok := allowed[item.QuestionID]; !ok {
			return nil, appErrors.ErrInvalidQuestion
		}
	}

	response := &models.Response{
		ID:             uuid.NewString(),
		OrgID:          orgID,
		SurveyID:       surveyID,
		Source:         source,
		SubmittedAt:    s.now().UTC(),
		VisitFrequency: models.VisitFrequencies.NormalizePtr(req.VisitFrequency),
		TimeSpentMin:   clampMinutes(req.TimeSpentMin),
		FastExitReason: models.FastExitReasons.NormalizePtr(req.FastExitReason),
		PeakHourBucket: blankToNil(req.PeakHourBucket),
	}
	items := make([]models.ResponseItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.ResponseItem{
			ID:         uuid.NewString(),
			ResponseID: response.ID,
			QuestionID: item.QuestionID,
			Value:      item.Value,
		})
	}

	if err := s.responses.CreateWithItems(ctx, response, items); err != nil {
		return nil, fmt.Errorf("store submission: %w", err)
	}

	s.metrics.RecordSubmission(source)
	s.cache.InvalidateOrg(ctx, orgID)
	s.logger.Info("feedback stored",
		zap.String("org_id", orgID),
		zap.String("survey_id", surveyID),
		zap.String("source", source),
		zap.Int("items", len(items)),
	)
	return &dto.SubmitFeedbackResponse{ResponseID: response.ID, SubmittedAt: response.SubmittedAt}, nil
}

// maxMinutes is the largest value the INTEGER time_spent_min column holds.
const maxMinutes = math.MaxInt32

// clampMinutes floors a minute count and clamps it into [0, maxMinutes]; non-finite input is dropped.
func clampMinutes(v *float64) *int {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	minutes := int(math.Min(maxMinutes, math.Max(0, math.Floor(*v))))
	return &minutes
}
