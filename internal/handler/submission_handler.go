package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ehud-Guzman/customerfeedback/internal/dto"
	"github.com/Ehud-Guzman/customerfeedback/pkg/response"
)

type feedbackSubmitter interface {
	SubmitStaff(ctx context.Context, orgID string, req dto.SubmitFeedbackRequest) (*dto.SubmitFeedbackResponse, error)
	OpenPublicSurvey(ctx context.Context, token string) (*dto.PublicSurveyResponse, error)
	SubmitPublic(ctx context.Context, token string, req dto.SubmitFeedbackRequest) (*dto.SubmitFeedbackResponse, error)
}

// SubmissionHandler accepts staff-assisted and public QR feedback.
type SubmissionHandler struct {
	submissions feedbackSubmitter
}

// NewSubmissionHandler constructs the submission handler.
func NewSubmissionHandler(submissions feedbackSubmitter) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// StaffSubmit godoc
// @Summary Record staff-assisted feedback
// @Tags Feedback
// @Accept json
// @Produce json
// @Param payload body dto.SubmitFeedbackRequest true "Feedback"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /staff-feedback/submit [post]
func (h *SubmissionHandler) StaffSubmit(c *gin.Context) {
	orgID, err := orgIDFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.SubmitFeedbackRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.submissions.SubmitStaff(c.Request.Context(), orgID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, out)
}

// PublicSurvey godoc
// @Summary Open a survey through its QR token
// @Tags Public
// @Produce json
// @Param token path string true "QR token"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /public/q/{token} [get]
func (h *SubmissionHandler) PublicSurvey(c *gin.Context) {
	view, err := h.submissions.OpenPublicSurvey(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// PublicSubmit godoc
// @Summary Submit feedback through a QR token
// @Tags Public
// @Accept json
// @Produce json
// @Param token path string true "QR token"
// @Param payload body dto.SubmitFeedbackRequest true "Feedback"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /public/q/{token}/submit [post]
func (h *SubmissionHandler) PublicSubmit(c *gin.Context) {
	var req dto.SubmitFeedbackRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.submissions.SubmitPublic(c.Request.Context(), c.Param("token"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, out)
}
