package dto

import "time"

// SubmissionItem is one answer in a submission payload.
type SubmissionItem struct {
	QuestionID string `json:"questionId" validate:"required,max=64"`
	Value      string `json:"value" validate:"required,max=2000"`
}

// SubmitFeedbackRequest is the shared body of staff-assisted and public QR submissions.
// Context fields are optional; unrecognized enum values are stored as null.
type SubmitFeedbackRequest struct {
	SurveyID       string           `json:"surveyId"`
	Items          []SubmissionItem `json:"items" validate:"required,min=1,max=100,dive"`
	VisitFrequency *string          `json:"visitFrequency"`
	TimeSpentMin   *float64         `json:"timeSpentMin"`
	FastExitReason *string          `json:"fastExitReason"`
	PeakHourBucket *string          `json:"peakHourBucket" validate:"omitempty,max=32"`
}

// SubmitFeedbackResponse acknowledges a stored submission.
type SubmitFeedbackResponse struct {
	ResponseID  string    `json:"responseId"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// PublicSurveyResponse is returned when a QR token is opened.
type PublicSurveyResponse struct {
	OrgID  string       `json:"orgId"`
	Survey PublicSurvey `json:"survey"`
}

// PublicSurvey is the respondent-facing view of a survey.
type PublicSurvey struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	Questions   []PublicQuestion `json:"questions"`
}

// PublicQuestion is the respondent-facing view of a question.
type PublicQuestion struct {
	ID      string  `json:"id"`
	Order   int     `json:"order"`
	Prompt  string  `json:"prompt"`
	Type    string  `json:"type"`
	Choices *string `json:"choices"`
}
