package models

import "time"

// ResponseFilter scopes response queries. OrgID is mandatory; a nil bound is open.
type ResponseFilter struct {
	OrgID    string
	SurveyID string
	Since    *time.Time
	Until    *time.Time
}

// ResponseDimension names a groupable response column.
type ResponseDimension string

const (
	DimensionSource         ResponseDimension = "source"
	DimensionFastExitReason ResponseDimension = "fast_exit_reason"
	DimensionPeakHourBucket ResponseDimension = "peak_hour_bucket"
	DimensionSurvey         ResponseDimension = "survey_id"
)

// GroupCount is one group-by row; absent (NULL) keys never appear.
type GroupCount struct {
	Key   string `db:"key"`
	Count int    `db:"count"`
}

// TrendRow is the minimal per-response projection used for day bucketing.
type TrendRow struct {
	SubmittedAt  time.Time `db:"submitted_at"`
	TimeSpentMin *float64  `db:"time_spent_min"`
	Source       string    `db:"source"`
}

// AnswerRow is one response item joined with its parent response metadata.
type AnswerRow struct {
	QuestionID  string    `db:"question_id"`
	Value       string    `db:"value"`
	SubmittedAt time.Time `db:"submitted_at"`
	Source      string    `db:"source"`
}

// SourceCount is a channel tally.
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// ReasonCount is a fast-exit reason tally.
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// PeakHourCount is a tally per raw peak-hour bucket with its best-effort starting hour.
type PeakHourCount struct {
	Bucket    string `json:"bucket"`
	StartHour *int   `json:"startHour"`
	Count     int    `json:"count"`
}

// SurveyCount is a per-survey response tally.
type SurveyCount struct {
	SurveyID string `json:"surveyId"`
	Title    string `json:"title"`
	Count    int    `json:"count"`
}

// OverviewAnalytics is the organization-wide dashboard payload.
type OverviewAnalytics struct {
	WindowDays         int             `json:"windowDays"`
	Since              time.Time       `json:"since"`
	TotalResponses     int             `json:"totalResponses"`
	ResponsesInWindow  int             `json:"responsesInWindow"`
	AvgTimeSpentMin    *float64        `json:"avgTimeSpentMin"`
	PeakHours          []PeakHourCount `json:"peakHours"`
	Sources            []SourceCount   `json:"sources"`
	FastExitReasonsTop []ReasonCount   `json:"fastExitReasonsTop"`
	SurveyBreakdown    []SurveyCount   `json:"surveyBreakdown"`
}

// TrendPoint is one calendar-day bucket of the trends series.
type TrendPoint struct {
	Day             string        `json:"day"`
	Responses       int           `json:"responses"`
	AvgTimeSpentMin *float64      `json:"avgTimeSpentMin"`
	Sources         []SourceCount `json:"sources"`
}

// TrendsAnalytics is the sparse per-day series for a window.
type TrendsAnalytics struct {
	WindowDays int          `json:"windowDays"`
	Since      time.Time    `json:"since"`
	Series     []TrendPoint `json:"series"`
}

// SurveyIdentity describes the survey an analytics payload belongs to.
type SurveyIdentity struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// SurveyAnalytics is the per-question breakdown of one survey.
type SurveyAnalytics struct {
	WindowDays        int               `json:"windowDays"`
	Since             time.Time         `json:"since"`
	Survey            SurveyIdentity    `json:"survey"`
	ResponsesInWindow int               `json:"responsesInWindow"`
	Questions         []QuestionSummary `json:"questions"`
}

// ChartEntry is one bar of a chart-ready list.
type ChartEntry struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// QuestionSummary is the per-question aggregate. Exactly one of the embedded
// type sections is set, matching Type; its fields flatten into the JSON object.
type QuestionSummary struct {
	QuestionID   string       `json:"questionId"`
	Order        int          `json:"order"`
	Prompt       string       `json:"prompt"`
	Type         QuestionType `json:"type"`
	TotalAnswers int          `json:"totalAnswers"`
	Chart        []ChartEntry `json:"chart"`

	*RatingSummary
	*YesNoSummary
	*ChoiceSummary
	*TextSummary
}

// RatingSummary carries RATING_1_5 statistics.
type RatingSummary struct {
	RatingCount int         `json:"ratingCount"`
	RatingSum   int         `json:"ratingSum"`
	AvgRating   *float64    `json:"avgRating"`
	RatingDist  map[int]int `json:"ratingDist"`
}

// YesNoSummary carries YES_NO statistics.
type YesNoSummary struct {
	Yes        int      `json:"yes"`
	No         int      `json:"no"`
	YesPercent *float64 `json:"yesPercent"`
}

// ChoiceCount is one tallied CHOICE_SINGLE key.
type ChoiceCount struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ChoiceSummary carries CHOICE_SINGLE statistics.
type ChoiceSummary struct {
	Options []ChoiceCount `json:"options"`
}

// TextAnswer is one retained free-text answer.
type TextAnswer struct {
	Value       string    `json:"value"`
	SubmittedAt time.Time `json:"submittedAt"`
	Source      string    `json:"source"`
}

// TextSummary carries TEXT statistics.
type TextSummary struct {
	Latest []TextAnswer `json:"latest"`
}
