package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ehud-Guzman/customerfeedback/internal/dto"
	appErrors "github.com/Ehud-Guzman/customerfeedback/pkg/errors"
)

type fakeSubmitter struct {
	err       error
	lastOrg   string
	lastToken string
	lastReq   dto.SubmitFeedbackRequest
}

func (f *fakeSubmitter) SubmitStaff(_ context.Context, orgID string, req dto.SubmitFeedbackRequest) (*dto.SubmitFeedbackResponse, error) {
	f.lastOrg, f.lastReq = orgID, req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.SubmitFeedbackResponse{ResponseID: "r1", SubmittedAt: time.Now()}, nil
}

func (f *fakeSubmitter) OpenPublicSurvey(_ context.Context, token string) (*dto.PublicSurveyResponse, error) {
	f.lastToken = token
	if f.err != nil {
		return nil, f.err
	}
	return &dto.PublicSurveyResponse{OrgID: "org-1", Survey: dto.PublicSurvey{ID: "s1", Title: "Checkout"}}, nil
}

func (f *fakeSubmitter) SubmitPublic(_ context.Context, token string, req dto.SubmitFeedbackRequest) (*dto.SubmitFeedbackResponse, error) {
	f.lastToken, f.lastReq = token, req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.SubmitFeedbackResponse{ResponseID: "r2", SubmittedAt: time.Now()}, nil
}

func TestSubmissionHandlerStaffSubmit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	submitter := &fakeSubmitter{}
	handler := NewSubmissionHandler(submitter)

	payload, _ := json.Marshal(map[string]interface{}{
		"surveyId": "s1",
		"orgId":    "org-2",
		"items":    []map[string]string{{"questionId": "q1", "value": "5"}},
	})
	c, w := newGinContext(http.MethodPost, "/staff-feedback/submit", payload)
	scoped(c, "org-1")
	handler.StaffSubmit(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "org-1", submitter.lastOrg, "body orgId is ignored")
	require.Len(t, submitter.lastReq.Items, 1)
	assert.Equal(t, "q1", submitter.lastReq.Items[0].QuestionID)
}

func TestSubmissionHandlerRejectsBadBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSubmissionHandler(&fakeSubmitter{})

	for _, body := range [][]byte{nil, []byte("   "), []byte("{not json")} {
		c, w := newGinContext(http.MethodPost, "/staff-feedback/submit", body)
		scoped(c, "org-1")
		handler.StaffSubmit(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, string(body))
	}
}

func TestSubmissionHandlerPublicSurvey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	submitter := &fakeSubmitter{}
	handler := NewSubmissionHandler(submitter)

	c, w := newGinContext(http.MethodGet, "/public/q/tok", nil)
	c.Params = gin.Params{{Key: "token", Value: "tok"}}
	handler.PublicSurvey(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok", submitter.lastToken)
	assert.Contains(t, w.Body.String(), `"orgId":"org-1"`)
}

func TestSubmissionHandlerPublicExpired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSubmissionHandler(&fakeSubmitter{err: appErrors.ErrQRExpired})

	payload := []byte(`{"items":[{"questionId":"q1","value":"YES"}]}`)
	c, w := newGinContext(http.MethodPost, "/public/q/old/submit", payload)
	c.Params = gin.Params{{Key: "token", Value: "old"}}
	handler.PublicSubmit(c)

	assert.Equal(t, http.StatusGone, w.Code)
	assert.Equal(t, "QR_EXPIRED", decode(t, w).Error.Code)
}
