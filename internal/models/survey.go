package models

import "time"

// QuestionType enumerates the supported answer kinds.
type QuestionType string

const (
	QuestionRating       QuestionType = "RATING_1_5"
	QuestionYesNo        QuestionType = "YES_NO"
	QuestionChoiceSingle QuestionType = "CHOICE_SINGLE"
	QuestionText         QuestionType = "TEXT"
)

// Survey belongs to exactly one organization.
type Survey struct {
	ID          string     `db:"id" json:"id"`
	OrgID       string     `db:"org_id" json:"orgId"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description"`
	Active      bool       `db:"active" json:"active"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	Questions   []Question `db:"-" json:"questions,omitempty"`
}

// Question belongs to one survey. Choices holds the raw serialized option list for CHOICE_SINGLE.
type Question struct {
	ID       string       `db:"id" json:"id"`
	SurveyID string       `db:"survey_id" json:"surveyId"`
	Order    int          `db:"sort_order" json:"order"`
	Prompt   string       `db:"prompt" json:"prompt"`
	Type     QuestionType `db:"type" json:"type"`
	Choices  *string      `db:"choices" json:"choices"`
	Active   bool         `db:"active" json:"active"`
}

// ChoiceOption is one parsed {key,label} entry of a CHOICE_SINGLE question.
type ChoiceOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}
