package models

import "time"

// Response is one immutable feedback submission.
type Response struct {
	ID             string    `db:"id" json:"id"`
	OrgID          string    `db:"org_id" json:"orgId"`
	SurveyID       string    `db:"survey_id" json:"surveyId"`
	Source         string    `db:"source" json:"source"`
	SubmittedAt    time.Time `db:"submitted_at" json:"submittedAt"`
	VisitFrequency *string   `db:"visit_frequency" json:"visitFrequency"`
	TimeSpentMin   *int      `db:"time_spent_min" json:"timeSpentMin"`
	FastExitReason *string   `db:"fast_exit_reason" json:"fastExitReason"`
	PeakHourBucket *string   `db:"peak_hour_bucket" json:"peakHourBucket"`
}

// ResponseItem is one answer within a response.
type ResponseItem struct {
	ID         string `db:"id" json:"id"`
	ResponseID string `db:"response_id" json:"responseId"`
	QuestionID string `db:"question_id" json:"questionId"`
	Value      string `db:"value" json:"value"`
}

// QrToken maps a public token to the survey it opens.
type QrToken struct {
	Token        string     `db:"token" json:"token"`
	OrgID        string     `db:"org_id" json:"orgId"`
	SurveyID     string     `db:"survey_id" json:"surveyId"`
	ExpiresAt    *time.Time `db:"expires_at" json:"expiresAt"`
	Active       bool       `db:"active" json:"active"`
	SurveyActive bool       `db:"survey_active" json:"-"`
}

// Expired reports whether the token has passed its expiry at now.
func (t *QrToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !t.ExpiresAt.After(now)
}
