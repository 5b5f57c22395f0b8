package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Ehud-Guzman/customerfeedback/internal/models"
	appErrors "github.com/Ehud-Guzman/customerfeedback/pkg/errors"
)

const (
	// MinWindowDays and MaxWindowDays bound the accepted days parameter.
	MinWindowDays = 1
	MaxWindowDays = 365

	DefaultOverviewDays = 7
	DefaultTrendsDays   = 14
	DefaultSurveyDays   = 7

	fastExitTopN         = 5
	unknownSurveyTitle   = "Unknown survey"
	reportOverview       = "overview"
	reportTrends         = "trends"
	reportSurvey         = "survey"
	surveyNotFoundReason = "survey not found"
)

// AnalyticsRepository describes the read queries required by AnalyticsService.
// Every call is scoped by filter.OrgID.
type AnalyticsRepository interface {
	CountResponses(ctx context.Context, filter models.ResponseFilter) (int, error)
	AverageTimeSpent(ctx context.Context, filter models.ResponseFilter) (*float64, error)
	GroupResponses(ctx context.Context, filter models.ResponseFilter, dim models.ResponseDimension) ([]models.GroupCount, error)
	SurveyTitles(ctx context.Context, orgID string, surveyIDs []string) (map[string]string, error)
	TrendRows(ctx context.Context, filter models.ResponseFilter) ([]models.TrendRow, error)
	AnswerRows(ctx context.Context, filter models.ResponseFilter) ([]models.AnswerRow, error)
}

// SurveyReader loads surveys under an organization.
type SurveyReader interface {
	FindByOrg(ctx context.Context, orgID, surveyID string) (*models.Survey, error)
	ListActiveQuestions(ctx context.Context, surveyID string) ([]models.Question, error)
}

// AnalyticsConfig tunes the analytics engine.
type AnalyticsConfig struct {
	Location *time.Location
	CacheTTL time.Duration
}

// AnalyticsService assembles the overview, trends and per-survey reports.
type AnalyticsService struct {
	repo    AnalyticsRepository
	surveys SurveyReader
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     AnalyticsConfig
	now     func() time.Time
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(repo AnalyticsRepository, surveys SurveyReader, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg AnalyticsConfig) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &AnalyticsService{
		repo:    repo,
		surveys: surveys,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// ClampWindow parses a days parameter. Missing, non-numeric or out-of-range
// values fall back to def.
func ClampWindow(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < MinWindowDays || days > MaxWindowDays {
		return def
	}
	return days
}

type window struct {
	days  int
	since time.Time
	until time.Time
}

func (s *AnalyticsService) window(days, def int) window {
	if days < MinWindowDays || days > MaxWindowDays {
		days = def
	}
	now := s.now().UTC()
	return window{days: days, since: now.AddDate(0, 0, -days), until: now}
}

func (w window) filter(orgID, surveyID string) models.ResponseFilter {
	since, until := w.since, w.until
	return models.ResponseFilter{OrgID: orgID, SurveyID: surveyID, Since: &since, Until: &until}
}

// Overview returns the organization dashboard. The boolean reports a cache hit.
func (s *AnalyticsService) Overview(ctx context.Context, orgID string, days int) (*models.OverviewAnalytics, bool, error) {
	if orgID == "" {
		return nil, false, appErrors.ErrTenantRequired
	}
	w := s.window(days, DefaultOverviewDays)

	cacheKey := makeAnalyticsCacheKey(orgID, reportOverview, strconv.Itoa(w.days))
	var cached models.OverviewAnalytics
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, true, nil
	}

	start := time.Now()
	windowed := w.filter(orgID, "")
	var (
		total, inWindow                   int
		avg                               *float64
		peaks, sources, reasons, bySurvey []models.GroupCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = timed(s, "count_responses_all_time", func() (int, error) {
			return s.repo.CountResponses(gctx, models.ResponseFilter{OrgID: orgID})
		})
		return err
	})
	g.Go(func() (err error) {
		inWindow, err = timed(s, "count_responses_window", func() (int, error) {
			return s.repo.CountResponses(gctx, windowed)
		})
		return err
	})
	g.Go(func() (err error) {
		avg, err = timed(s, "avg_time_spent", func() (*float64, error) {
			return s.repo.AverageTimeSpent(gctx, windowed)
		})
		return err
	})
	g.Go(func() (err error) {
		peaks, err = s.group(gctx, windowed, models.DimensionPeakHourBucket)
		return err
	})
	g.Go(func() (err error) {
		sources, err = s.group(gctx, windowed, models.DimensionSource)
		return err
	})
	g.Go(func() (err error) {
		reasons, err = s.group(gctx, windowed, models.DimensionFastExitReason)
		return err
	})
	g.Go(func() (err error) {
		bySurvey, err = s.group(gctx, windowed, models.DimensionSurvey)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, false, fmt.Errorf("overview analytics: %w", err)
	}

	titles := map[string]string{}
	if len(bySurvey) > 0 {
		ids := make([]string, 0, len(bySurvey))
		for _, row := range bySurvey {
			ids = append(ids, row.Key)
		}
		var err error
		titles, err = timed(s, "survey_titles", func() (map[string]string, error) {
			return s.repo.SurveyTitles(ctx, orgID, ids)
		})
		if err != nil {
			return nil, false, fmt.Errorf("overview analytics: %w", err)
		}
	}

	reasonsTop := reasonCounts(reasons)
	if len(reasonsTop) > fastExitTopN {
		reasonsTop = reasonsTop[:fastExitTopN]
	}

	result := &models.OverviewAnalytics{
		WindowDays:         w.days,
		Since:              w.since,
		TotalResponses:     total,
		ResponsesInWindow:  inWindow,
		AvgTimeSpentMin:    avg,
		PeakHours:          peakHourCounts(peaks),
		Sources:            sourceCounts(sources),
		FastExitReasonsTop: reasonsTop,
		SurveyBreakdown:    surveyCounts(bySurvey, titles),
	}
	s.metrics.ObserveReport(reportOverview, time.Since(start))
	s.cache.Set(ctx, cacheKey, result, s.cfg.CacheTTL)
	return result, false, nil
}

// Trends returns the sparse per-day series for the window.
func (s *AnalyticsService) Trends(ctx context.Context, orgID string, days int) (*models.TrendsAnalytics, bool, error) {
	if orgID == "" {
		return nil, false, appErrors.ErrTenantRequired
	}
	w := s.window(days, DefaultTrendsDays)

	cacheKey := makeAnalyticsCacheKey(orgID, reportTrends, strconv.Itoa(w.days))
	var cached models.TrendsAnalytics
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, true, nil
	}

	start := time.Now()
	rows, err := timed(s, "trend_rows", func() ([]models.TrendRow, error) {
		return s.repo.TrendRows(ctx, w.filter(orgID, ""))
	})
	if err != nil {
		return nil, false, fmt.Errorf("trends analytics: %w", err)
	}

	dayRows := make([]DayRow, 0, len(rows))
	for _, row := range rows {
		dayRows = append(dayRows, DayRow{
			At:    row.SubmittedAt,
			Value: row.TimeSpentMin,
			Tag:   models.Sources.Label(row.Source),
		})
	}

	result := &models.TrendsAnalytics{
		WindowDays: w.days,
		Since:      w.since,
		Series:     trendSeries(BucketByDay(dayRows, s.cfg.Location)),
	}
	s.metrics.ObserveReport(reportTrends, time.Since(start))
	s.cache.Set(ctx, cacheKey, result, s.cfg.CacheTTL)
	return result, false, nil
}

// SurveyAnalytics returns the per-question breakdown of one survey. A survey that
// does not belong to orgID is reported as not found.
func (s *AnalyticsService) SurveyAnalytics(ctx context.Context, orgID, surveyID string, days int) (*models.SurveyAnalytics, bool, error) {
	if orgID == "" {
		return nil, false, appErrors.ErrTenantRequired
	}
	surveyID = strings.TrimSpace(surveyID)
	if surveyID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, surveyNotFoundReason)
	}
	w := s.window(days, DefaultSurveyDays)

	cacheKey := makeAnalyticsCacheKey(orgID, reportSurvey, surveyID, strconv.Itoa(w.days))
	var cached models.SurveyAnalytics
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, true, nil
	}

	start := time.Now()
	survey, err := timed(s, "find_survey", func() (*models.Survey, error) {
		return s.surveys.FindByOrg(ctx, orgID, surveyID)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, surveyNotFoundReason)
		}
		return nil, false, fmt.Errorf("survey analytics: %w", err)
	}
	if survey == nil {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, surveyNotFoundReason)
	}

	windowed := w.filter(orgID, survey.ID)
	var (
		questions []models.Question
		inWindow  int
		answers   []models.AnswerRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		questions, err = timed(s, "active_questions", func() ([]models.Question, error) {
			return s.surveys.ListActiveQuestions(gctx, survey.ID)
		})
		return err
	})
	g.Go(func() (err error) {
		inWindow, err = timed(s, "count_survey_responses", func() (int, error) {
			return s.repo.CountResponses(gctx, windowed)
		})
		return err
	})
	g.Go(func() (err error) {
		answers, err = timed(s, "answer_rows", func() ([]models.AnswerRow, error) {
			return s.repo.AnswerRows(gctx, windowed)
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, false, fmt.Errorf("survey analytics: %w", err)
	}

	for _, q := range questions {
		if q.Type == models.QuestionChoiceSingle && q.Choices != nil && strings.TrimSpace(*q.Choices) != "" && len(ParseChoiceOptions(q.Choices)) == 0 {
			s.logger.Debug("unparseable choice definitions", zap.String("question_id", q.ID), zap.String("org_id", orgID))
		}
	}

	result := &models.SurveyAnalytics{
		WindowDays: w.days,
		Since:      w.since,
		Survey: models.SurveyIdentity{
			ID:          survey.ID,
			Title:       survey.Title,
			Description: blankToNil(survey.Description),
		},
		ResponsesInWindow: inWindow,
		Questions:         AggregateQuestions(questions, answers),
	}
	s.metrics.ObserveReport(reportSurvey, time.Since(start))
	s.cache.Set(ctx, cacheKey, result, s.cfg.CacheTTL)
	return result, false, nil
}

func (s *AnalyticsService) group(ctx context.Context, filter models.ResponseFilter, dim models.ResponseDimension) ([]models.GroupCount, error) {
	return timed(s, "group_"+string(dim), func() ([]models.GroupCount, error) {
		return s.repo.GroupResponses(ctx, filter, dim)
	})
}

func timed[T any](s *AnalyticsService, label string, fn func() (T, error)) (T, error) {
	start := time.Now()
	out, err := fn()
	s.metrics.ObserveDBQuery(label, time.Since(start))
	return out, err
}

// mergeLabels folds raw keys onto their normalized label so variants of the same
// value are counted once. Output is sorted by count descending, then label.
func mergeLabels(rows []models.GroupCount, set models.EnumSet) []CategoryCount {
	merged := make(map[string]int, len(rows))
	for _, row := range rows {
		merged[set.Label(row.Key)] += row.Count
	}
	return sortedCategories(merged)
}

func sourceCounts(rows []models.GroupCount) []models.SourceCount {
	out := make([]models.SourceCount, 0, len(rows))
	for _, c := range mergeLabels(rows, models.Sources) {
		out = append(out, models.SourceCount{Source: c.Label, Count: c.Count})
	}
	return out
}

func reasonCounts(rows []models.GroupCount) []models.ReasonCount {
	out := make([]models.ReasonCount, 0, len(rows))
	for _, c := range mergeLabels(rows, models.FastExitReasons) {
		out = append(out, models.ReasonCount{Reason: c.Label, Count: c.Count})
	}
	return out
}

func peakHourCounts(rows []models.GroupCount) []models.PeakHourCount {
	out := make([]models.PeakHourCount, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row.Key) == "" {
			continue
		}
		out = append(out, models.PeakHourCount{Bucket: row.Key, StartHour: ParseStartHour(row.Key), Count: row.Count})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Bucket < out[j].Bucket })
	return out
}

// ParseStartHour reads the leading integer of a bucket such as "10-12" or "9".
// It returns nil when no integer can be read.
func ParseStartHour(bucket string) *int {
	head := strings.TrimSpace(strings.SplitN(bucket, "-", 2)[0])
	if head == "" {
		return nil
	}
	hour, err := strconv.Atoi(head)
	if err != nil {
		return nil
	}
	return &hour
}

func surveyCounts(rows []models.GroupCount, titles map[string]string) []models.SurveyCount {
	out := make([]models.SurveyCount, 0, len(rows))
	for _, row := range rows {
		title, ok := titles[row.Key]
		if !ok {
			title = unknownSurveyTitle
		}
		out = append(out, models.SurveyCount{SurveyID: row.Key, Title: title, Count: row.Count})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].SurveyID < out[j].SurveyID
	})
	return out
}

func blankToNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
