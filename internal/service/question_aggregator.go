package service

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Ehud-Guzman/customerfeedback/internal/models"
)

const textLatestLimit = 10

// parsedAnswer is a raw answer decoded according to its question type.
type parsedAnswer interface {
	apply(acc *questionAccumulator)
}

type ratingAnswer struct{ value int }

type yesNoAnswer struct{ yes bool }

type choiceAnswer struct{ key string }

type textAnswer struct{ entry models.TextAnswer }

type questionAccumulator struct {
	question models.Question
	total    int

	ratingSum   int
	ratingCount int
	ratingDist  map[int]int

	yes int
	no  int

	choices map[string]int
	text    []models.TextAnswer
}

func (a ratingAnswer) apply(acc *questionAccumulator) {
	acc.ratingSum += a.value
	acc.ratingCount++
	acc.ratingDist[a.value]++
}

func (a yesNoAnswer) apply(acc *questionAccumulator) {
	if a.yes {
		acc.yes++
		return
	}
	acc.no++
}

func (a choiceAnswer) apply(acc *questionAccumulator) {
	acc.choices[a.key]++
}

func (a textAnswer) apply(acc *questionAccumulator) {
	acc.text = append(acc.text, a.entry)
}

// parseAnswer decodes a trimmed, non-empty value. The boolean is false when the
// value carries nothing type-specific, e.g. an out-of-range rating.
func parseAnswer(qType models.QuestionType, value string, row models.AnswerRow) (parsedAnswer, bool) {
	switch qType {
	case models.QuestionRating:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, false
		}
		rounded := int(math.Floor(n + 0.5))
		if rounded < 1 || rounded > 5 {
			return nil, false
		}
		return ratingAnswer{value: rounded}, true
	case models.QuestionYesNo:
		v, ok := models.YesNo.Normalize(value)
		if !ok {
			return nil, false
		}
		return yesNoAnswer{yes: v == "YES"}, true
	case models.QuestionChoiceSingle:
		return choiceAnswer{key: strings.ToUpper(value)}, true
	case models.QuestionText:
		return textAnswer{entry: models.TextAnswer{
			Value:       value,
			SubmittedAt: row.SubmittedAt,
			Source:      models.Sources.Label(row.Source),
		}}, true
	default:
		return nil, false
	}
}

// AggregateQuestions folds answer rows into one summary per question, ordered by
// question order. Answers for questions outside the list are ignored and questions
// without answers still produce a zero-valued summary.
func AggregateQuestions(questions []models.Question, answers []models.AnswerRow) []models.QuestionSummary {
	ordered := make([]models.Question, len(questions))
	copy(ordered, questions)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	accs := make(map[string]*questionAccumulator, len(ordered))
	for _, q := range ordered {
		accs[q.ID] = &questionAccumulator{
			question:   q,
			ratingDist: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
			choices:    make(map[string]int),
		}
	}

	for _, row := range answers {
		acc, ok := accs[row.QuestionID]
		if !ok {
			continue
		}
		value := strings.TrimSpace(row.Value)
		if value == "" {
			continue
		}
		acc.total++
		if parsed, ok := parseAnswer(acc.question.Type, value, row); ok {
			parsed.apply(acc)
		}
	}

	summaries := make([]models.QuestionSummary, 0, len(ordered))
	for _, q := range ordered {
		summaries = append(summaries, accs[q.ID].summary())
	}
	return summaries
}

func (acc *questionAccumulator) summary() models.QuestionSummary {
	q := acc.question
	out := models.QuestionSummary{
		QuestionID:   q.ID,
		Order:        q.Order,
		Prompt:       q.Prompt,
		Type:         q.Type,
		TotalAnswers: acc.total,
		Chart:        []models.ChartEntry{},
	}

	switch q.Type {
	case models.QuestionRating:
		rating := &models.RatingSummary{
			RatingCount: acc.ratingCount,
			RatingSum:   acc.ratingSum,
			RatingDist:  acc.ratingDist,
		}
		if acc.ratingCount > 0 {
			avg := float64(acc.ratingSum) / float64(acc.ratingCount)
			rating.AvgRating = &avg
		}
		for bucket := 1; bucket <= 5; bucket++ {
			out.Chart = append(out.Chart, models.ChartEntry{Label: strconv.Itoa(bucket), Count: acc.ratingDist[bucket]})
		}
		out.RatingSummary = rating
	case models.QuestionYesNo:
		yesNo := &models.YesNoSummary{Yes: acc.yes, No: acc.no}
		if total := acc.yes + acc.no; total > 0 {
			pct := float64(acc.yes) / float64(total) * 100
			yesNo.YesPercent = &pct
		}
		out.Chart = append(out.Chart,
			models.ChartEntry{Label: "YES", Count: acc.yes},
			models.ChartEntry{Label: "NO", Count: acc.no},
		)
		out.YesNoSummary = yesNo
	case models.QuestionChoiceSingle:
		labels := choiceLabels(ParseChoiceOptions(q.Choices))
		options := make([]models.ChoiceCount, 0, len(acc.choices))
		for key, count := range acc.choices {
			label, ok := labels[key]
			if !ok || label == "" {
				label = key
			}
			options = append(options, models.ChoiceCount{Key: key, Label: label, Count: count})
		}
		sort.Slice(options, func(i, j int) bool {
			if options[i].Count != options[j].Count {
				return options[i].Count > options[j].Count
			}
			return options[i].Key < options[j].Key
		})
		for _, opt := range options {
			out.Chart = append(out.Chart, models.ChartEntry{Label: opt.Label, Count: opt.Count})
		}
		out.ChoiceSummary = &models.ChoiceSummary{Options: options}
	case models.QuestionText:
		latest := make([]models.TextAnswer, len(acc.text))
		copy(latest, acc.text)
		sort.SliceStable(latest, func(i, j int) bool { return latest[i].SubmittedAt.After(latest[j].SubmittedAt) })
		if len(latest) > textLatestLimit {
			latest = latest[:textLatestLimit]
		}
		out.TextSummary = &models.TextSummary{Latest: latest}
	}
	return out
}
