package service

import (
	"context"
	"database/sql"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ehud-Guzman/customerfeedback/internal/dto"
	"github.com/Ehud-Guzman/customerfeedback/internal/models"
	appErrors "github.com/Ehud-Guzman/customerfeedback/pkg/errors"
)

type mockResponseWriter struct {
	response *models.Response
	items    []models.ResponseItem
	calls    int
	err      error
}

func (m *mockResponseWriter) CreateWithItems(_ context.Context, response *models.Response, items []models.ResponseItem) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.response = response
	m.items = items
	return nil
}

type mockQrTokens struct {
	tokens map[string]*models.QrToken
}

func (m *mockQrTokens) FindActive(_ context.Context, token string) (*models.QrToken, error) {
	qr, ok := m.tokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return qr, nil
}

func submissionFixture() (*SubmissionService, *mockResponseWriter) {
	past := fixedNow.Add(-time.Hour)
	future := fixedNow.Add(time.Hour)
	surveys := &fakeSurveyReader{
		surveys: []models.Survey{
			{ID: "s1", OrgID: "org-1", Title: "Checkout", Active: true},
			{ID: "s-off", OrgID: "org-1", Title: "Old", Active: false},
		},
		questions: map[string][]models.Question{
			"s1": {
				{ID: "q1", Order: 1, Type: models.QuestionRating, Prompt: "Rate"},
				{ID: "q2", Order: 2, Type: models.QuestionText, Prompt: "Comments"},
			},
		},
	}
	tokens := &mockQrTokens{tokens: map[string]*models.QrToken{
		"good":     {Token: "good", OrgID: "org-1", SurveyID: "s1", Active: true, SurveyActive: true, ExpiresAt: &future},
		"expired":  {Token: "expired", OrgID: "org-1", SurveyID: "s1", Active: true, SurveyActive: true, ExpiresAt: &past},
		"inactive": {Token: "inactive", OrgID: "org-1", SurveyID: "s1", Active: false, SurveyActive: true},
		"retired":  {Token: "retired", OrgID: "org-1", SurveyID: "s-off", Active: true, SurveyActive: false},
	}}
	writer := &mockResponseWriter{}
	svc := NewSubmissionService(surveys, writer, tokens, nil, nil, nil, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc, writer
}

func validRequest() dto.SubmitFeedbackRequest {
	visit, reason, peak := " weekly ", "teleport", " 10-12 "
	spent := 7.9
	return dto.SubmitFeedbackRequest{
		SurveyID:       "s1",
		Items:          []dto.SubmissionItem{{QuestionID: " q1 ", Value: " 5 "}, {QuestionID: "q2", Value: "great"}},
		VisitFrequency: &visit,
		TimeSpentMin:   &spent,
		FastExitReason: &reason,
		PeakHourBucket: &peak,
	}
}

func TestSubmissionServiceSubmitStaff(t *testing.T) {
	svc, writer := submissionFixture()

	out, err := svc.SubmitStaff(context.Background(), "org-1", validRequest())
	require.NoError(t, err)
	require.Equal(t, 1, writer.calls)

	stored := writer.response
	assert.Equal(t, out.ResponseID, stored.ID)
	assert.Equal(t, fixedNow, out.SubmittedAt)
	assert.Equal(t, "org-1", stored.OrgID)
	assert.Equal(t, models.SourceStaff, stored.Source)
	require.NotNil(t, stored.VisitFrequency)
	assert.Equal(t, "WEEKLY", *stored.VisitFrequency)
	assert.Nil(t, stored.FastExitReason, "unrecognized enums are stored as null")
	require.NotNil(t, stored.TimeSpentMin)
	assert.Equal(t, 7, *stored.TimeSpentMin)
	require.NotNil(t, stored.PeakHourBucket)
	assert.Equal(t, "10-12", *stored.PeakHourBucket)

	require.Len(t, writer.items, 2)
	assert.Equal(t, "q1", writer.items[0].QuestionID)
	assert.Equal(t, "5", writer.items[0].Value)
	assert.Equal(t, stored.ID, writer.items[1].ResponseID)
}

func TestSubmissionServiceRejectsForeignQuestion(t *testing.T) {
	svc, writer := submissionFixture()
	req := validRequest()
	req.Items = append(req.Items, dto.SubmissionItem{QuestionID: "q-other", Value: "x"})

	_, err := svc.SubmitStaff(context.Background(), "org-1", req)
	assert.ErrorIs(t, err, appErrors.ErrInvalidQuestion)
	assert.Zero(t, writer.calls)
}

func TestSubmissionServiceStaffValidation(t *testing.T) {
	svc, writer := submissionFixture()
	ctx := context.Background()

	req := validRequest()
	req.Items = nil
	_, err := svc.SubmitStaff(ctx, "org-1", req)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	req = validRequest()
	req.Items[1].Value = "   "
	_, err = svc.SubmitStaff(ctx, "org-1", req)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	req = validRequest()
	req.SurveyID = ""
	_, err = svc.SubmitStaff(ctx, "org-1", req)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.SubmitStaff(ctx, "org-2", validRequest())
	assert.ErrorIs(t, err, appErrors.ErrNotFound, "survey of another org")

	req = validRequest()
	req.SurveyID = "s-off"
	_, err = svc.SubmitStaff(ctx, "org-1", req)
	assert.ErrorIs(t, err, appErrors.ErrNotFound, "inactive survey")

	_, err = svc.SubmitStaff(ctx, "", validRequest())
	assert.ErrorIs(t, err, appErrors.ErrTenantRequired)
	assert.Zero(t, writer.calls)
}

func TestSubmissionServicePublicFlow(t *testing.T) {
	svc, writer := submissionFixture()
	ctx := context.Background()

	view, err := svc.OpenPublicSurvey(ctx, " good ")
	require.NoError(t, err)
	assert.Equal(t, "org-1", view.OrgID)
	assert.Equal(t, "Checkout", view.Survey.Title)
	require.Len(t, view.Survey.Questions, 2)
	assert.Equal(t, "RATING_1_5", view.Survey.Questions[0].Type)

	req := validRequest()
	req.SurveyID = "ignored"
	out, err := svc.SubmitPublic(ctx, "good", req)
	require.NoError(t, err)
	assert.NotEmpty(t, out.ResponseID)
	assert.Equal(t, models.SourceQR, writer.response.Source)
	assert.Equal(t, "s1", writer.response.SurveyID)
}

func TestSubmissionServicePublicTokenStates(t *testing.T) {
	svc, writer := submissionFixture()
	ctx := context.Background()

	_, err := svc.OpenPublicSurvey(ctx, "expired")
	assert.ErrorIs(t, err, appErrors.ErrQRExpired)
	assert.Equal(t, 410, appErrors.FromError(err).Status)

	for _, token := range []string{"inactive", "retired", "unknown"} {
		_, err = svc.SubmitPublic(ctx, token, validRequest())
		assert.ErrorIs(t, err, appErrors.ErrNotFound, token)
	}

	_, err = svc.OpenPublicSurvey(ctx, "  ")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Zero(t, writer.calls)
}

func TestSubmissionServiceStoreErrorPassthrough(t *testing.T) {
	svc, writer := submissionFixture()
	writer.err = assert.AnError

	_, err := svc.SubmitStaff(context.Background(), "org-1", validRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestClampMinutes(t *testing.T) {
	neg, nan := -4.2, math.NaN()
	assert.Nil(t, clampMinutes(nil))
	assert.Nil(t, clampMinutes(&nan))
	assert.Equal(t, 0, *clampMinutes(&neg))

	huge, large, normal := 1e20, 3e9, 12.9
	assert.Equal(t, math.MaxInt32, *clampMinutes(&huge))
	assert.Equal(t, math.MaxInt32, *clampMinutes(&large))
	assert.Equal(t, 12, *clampMinutes(&normal))
}
