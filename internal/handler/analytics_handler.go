package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ehud-Guzman/customerfeedback/internal/models"
	"github.com/Ehud-Guzman/customerfeedback/internal/service"
	"github.com/Ehud-Guzman/customerfeedback/pkg/response"
)

type analyticsReader interface {
	Overview(ctx context.Context, orgID string, days int) (*models.OverviewAnalytics, bool, error)
	Trends(ctx context.Context, orgID string, days int) (*models.TrendsAnalytics, bool, error)
	SurveyAnalytics(ctx context.Context, orgID, surveyID string, days int) (*models.SurveyAnalytics, bool, error)
}

type surveyExporter interface {
	SurveyReport(ctx context.Context, orgID, surveyID string, days int, format string) (*service.ExportFile, error)
}

// AnalyticsHandler exposes dashboard-ready analytics endpoints scoped to the caller's organization.
type AnalyticsHandler struct {
	analytics analyticsReader
	exports   surveyExporter
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(analytics analyticsReader, exports surveyExporter) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, exports: exports}
}

// Overview godoc
// @Summary Organization feedback overview
// @Tags Analytics
// @Produce json
// @Param days query int false "Window in days (1-365, default 7)"
// @Success 200 {object} response.Envelope
// @Router /analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	orgID, err := orgIDFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	days := service.ClampWindow(c.Query("days"), service.DefaultOverviewDays)
	result, hit, err := h.analytics.Overview(c.Request.Context(), orgID, days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, withCacheMeta(c, hit))
}

// Trends godoc
// @Summary Daily response trends
// @Tags Analytics
// @Produce json
// @Param days query int false "Window in days (1-365, default 14)"
// @Success 200 {object} response.Envelope
// @Router /analytics/trends [get]
func (h *AnalyticsHandler) Trends(c *gin.Context) {
	orgID, err := orgIDFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	days := service.ClampWindow(c.Query("days"), service.DefaultTrendsDays)
	result, hit, err := h.analytics.Trends(c.Request.Context(), orgID, days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, withCacheMeta(c, hit))
}

// Survey godoc
// @Summary Per-question survey analytics
// @Tags Analytics
// @Produce json
// @Param surveyId path string true "Survey ID"
// @Param days query int false "Window in days (1-365, default 7)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /analytics/surveys/{surveyId} [get]
func (h *AnalyticsHandler) Survey(c *gin.Context) {
	orgID, err := orgIDFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	days := service.ClampWindow(c.Query("days"), service.DefaultSurveyDays)
	result, hit, err := h.analytics.SurveyAnalytics(c.Request.Context(), orgID, c.Param("surveyId"), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, withCacheMeta(c, hit))
}

// Export godoc
// @Summary Export survey analytics
// @Tags Analytics
// @Produce text/csv
// @Produce application/pdf
// @Param surveyId path string true "Survey ID"
// @Param format query string false "csv or pdf (default csv)"
// @Param days query int false "Window in days (1-365, default 7)"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /analytics/surveys/{surveyId}/export [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	orgID, err := orgIDFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	days := service.ClampWindow(c.Query("days"), service.DefaultSurveyDays)
	file, err := h.exports.SurveyReport(c.Request.Context(), orgID, c.Param("surveyId"), days, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
