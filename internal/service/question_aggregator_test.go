package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ehud-Guzman/customerfeedback/internal/models"
)

func answer(questionID, value string, at time.Time) models.AnswerRow {
	return models.AnswerRow{QuestionID: questionID, Value: value, SubmittedAt: at, Source: models.SourceQR}
}

func TestAggregateQuestionsRating(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	questions := []models.Question{{ID: "q1", Order: 1, Prompt: "Rate us", Type: models.QuestionRating}}
	answers := []models.AnswerRow{answer("q1", "5", now), answer("q1", "3", now), answer("q1", "abc", now)}

	out := AggregateQuestions(questions, answers)
	require.Len(t, out, 1)
	q := out[0]
	require.NotNil(t, q.RatingSummary)
	assert.Equal(t, 3, q.TotalAnswers)
	assert.Equal(t, 2, q.RatingCount)
	assert.Equal(t, 8, q.RatingSum)
	require.NotNil(t, q.AvgRating)
	assert.InDelta(t, 4.0, *q.AvgRating, 1e-9)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 1, 4: 0, 5: 1}, q.RatingDist)
	assert.Equal(t, []models.ChartEntry{{Label: "1", Count: 0}, {Label: "2", Count: 0}, {Label: "3", Count: 1}, {Label: "4", Count: 0}, {Label: "5", Count: 1}}, q.Chart)
}

func TestAggregateQuestionsRatingRoundingAndRange(t *testing.T) {
	now := time.Now()
	questions := []models.Question{{ID: "q1", Type: models.QuestionRating}}
	values := []string{"4.5", "0.4", "5.6", "NaN", "Inf", "1.49", " 2 ", ""}
	answers := make([]models.AnswerRow, 0, len(values))
	for _, v := range values {
		answers = append(answers, answer("q1", v, now))
	}

	q := AggregateQuestions(questions, answers)[0]
	assert.Equal(t, 7, q.TotalAnswers, "blank answers are ignored entirely")
	assert.Equal(t, 3, q.RatingCount)
	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 0, 4: 0, 5: 1}, q.RatingDist)

	sum := 0
	for _, n := range q.RatingDist {
		sum += n
	}
	assert.Equal(t, q.RatingCount, sum)
	assert.LessOrEqual(t, q.RatingCount, q.TotalAnswers)
}

func TestAggregateQuestionsYesNo(t *testing.T) {
	now := time.Now()
	questions := []models.Question{{ID: "q1", Type: models.QuestionYesNo}}
	answers := []models.AnswerRow{answer("q1", "yes", now), answer("q1", "YES", now), answer("q1", "no", now), answer("q1", "maybe", now)}

	q := AggregateQuestions(questions, answers)[0]
	require.NotNil(t, q.YesNoSummary)
	assert.Equal(t, 4, q.TotalAnswers)
	assert.Equal(t, 2, q.Yes)
	assert.Equal(t, 1, q.No)
	require.NotNil(t, q.YesPercent)
	assert.InDelta(t, 100*2.0/3.0, *q.YesPercent, 1e-9)
	assert.Equal(t, []models.ChartEntry{{Label: "YES", Count: 2}, {Label: "NO", Count: 1}}, q.Chart)
}

func TestAggregateQuestionsChoiceLabelsAndOrder(t *testing.T) {
	now := time.Now()
	choices := `[{"key":"fast","label":"Fast service"},"Clean"]`
	questions := []models.Question{{ID: "q1", Type: models.QuestionChoiceSingle, Choices: &choices}}
	answers := []models.AnswerRow{
		answer("q1", "fast", now),
		answer("q1", " FAST", now),
		answer("q1", "clean", now),
		answer("q1", "other", now),
		answer("q1", "zzz", now),
	}

	q := AggregateQuestions(questions, answers)[0]
	require.NotNil(t, q.ChoiceSummary)
	assert.Equal(t, []models.ChoiceCount{
		{Key: "FAST", Label: "Fast service", Count: 2},
		{Key: "CLEAN", Label: "Clean", Count: 1},
		{Key: "OTHER", Label: "OTHER", Count: 1},
		{Key: "ZZZ", Label: "ZZZ", Count: 1},
	}, q.Options)

	total := 0
	for _, entry := range q.Chart {
		total += entry.Count
	}
	assert.Equal(t, q.TotalAnswers, total)
	assert.Equal(t, "Fast service", q.Chart[0].Label)
}

func TestAggregateQuestionsChoiceMalformedDefinitions(t *testing.T) {
	broken := `{"not":"a list"`
	questions := []models.Question{{ID: "q1", Type: models.QuestionChoiceSingle, Choices: &broken}}
	q := AggregateQuestions(questions, []models.AnswerRow{answer("q1", "a", time.Now())})[0]
	assert.Equal(t, []models.ChoiceCount{{Key: "A", Label: "A", Count: 1}}, q.Options)
}

func TestAggregateQuestionsTextKeepsLatestTen(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	questions := []models.Question{{ID: "q1", Type: models.QuestionText}}
	var answers []models.AnswerRow
	for i := 0; i < 12; i++ {
		row := answer("q1", fmt.Sprintf("comment %d", i), base.Add(time.Duration(i)*time.Hour))
		if i == 11 {
			row.Source = "kiosk"
		}
		answers = append(answers, row)
	}

	q := AggregateQuestions(questions, answers)[0]
	require.NotNil(t, q.TextSummary)
	assert.Equal(t, 12, q.TotalAnswers)
	require.Len(t, q.Latest, 10)
	assert.Equal(t, "comment 11", q.Latest[0].Value)
	assert.Equal(t, models.UnknownLabel, q.Latest[0].Source)
	assert.Equal(t, "comment 2", q.Latest[9].Value)
	assert.Empty(t, q.Chart)
}

func TestAggregateQuestionsEmptyDefaultsAndOrdering(t *testing.T) {
	questions := []models.Question{
		{ID: "text", Order: 4, Type: models.QuestionText},
		{ID: "choice", Order: 3, Type: models.QuestionChoiceSingle},
		{ID: "yn", Order: 2, Type: models.QuestionYesNo},
		{ID: "rate", Order: 1, Type: models.QuestionRating},
	}
	out := AggregateQuestions(questions, []models.AnswerRow{answer("foreign", "5", time.Now())})
	require.Len(t, out, 4)
	assert.Equal(t, []string{"rate", "yn", "choice", "text"}, []string{out[0].QuestionID, out[1].QuestionID, out[2].QuestionID, out[3].QuestionID})

	assert.Nil(t, out[0].AvgRating)
	assert.Len(t, out[0].Chart, 5)
	assert.Nil(t, out[1].YesPercent)
	assert.Empty(t, out[2].Options)
	assert.Empty(t, out[2].Chart)
	assert.Empty(t, out[3].Latest)
	for _, q := range out {
		assert.Zero(t, q.TotalAnswers)
	}
}
