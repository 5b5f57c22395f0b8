package service

import (
	"math"
	"sort"
	"time"

	"github.com/Ehud-Guzman/customerfeedback/internal/models"
)

// DayRow is one timestamped observation fed to BucketByDay.
type DayRow struct {
	At    time.Time
	Value *float64
	Tag   string
}

// DayBucket is the accumulated state of one calendar day.
type DayBucket struct {
	Day       string
	Count     int
	Avg       *float64
	Breakdown []CategoryCount
}

// CategoryCount is a tally of one tag within a day.
type CategoryCount struct {
	Label string
	Count int
}

type dayAccumulator struct {
	count      int
	sum        float64
	nonNull    int
	categories map[string]int
}

const dayKeyLayout = "2006-01-02"

// BucketByDay groups rows by calendar day in loc and returns buckets sorted by day.
// Days without rows are not emitted. Non-finite values are left out of the average
// while the row itself and its tag are still counted.
func BucketByDay(rows []DayRow, loc *time.Location) []DayBucket {
	if loc == nil {
		loc = time.UTC
	}
	if len(rows) == 0 {
		return []DayBucket{}
	}

	byDay := make(map[string]*dayAccumulator)
	for _, row := range rows {
		key := row.At.In(loc).Format(dayKeyLayout)
		acc, ok := byDay[key]
		if !ok {
			acc = &dayAccumulator{categories: make(map[string]int)}
			byDay[key] = acc
		}
		acc.count++
		if row.Value != nil && !math.IsNaN(*row.Value) && !math.IsInf(*row.Value, 0) {
			acc.sum += *row.Value
			acc.nonNull++
		}
		acc.categories[row.Tag]++
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	buckets := make([]DayBucket, 0, len(days))
	for _, day := range days {
		acc := byDay[day]
		bucket := DayBucket{Day: day, Count: acc.count, Breakdown: sortedCategories(acc.categories)}
		if acc.nonNull > 0 {
			avg := acc.sum / float64(acc.nonNull)
			bucket.Avg = &avg
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// sortedCategories orders tallies by count descending, then label ascending.
func sortedCategories(counts map[string]int) []CategoryCount {
	out := make([]CategoryCount, 0, len(counts))
	for label, count := range counts {
		out = append(out, CategoryCount{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func trendSeries(buckets []DayBucket) []models.TrendPoint {
	series := make([]models.TrendPoint, 0, len(buckets))
	for _, b := range buckets {
		sources := make([]models.SourceCount, 0, len(b.Breakdown))
		for _, c := range b.Breakdown {
			sources = append(sources, models.SourceCount{Source: c.Label, Count: c.Count})
		}
		series = append(series, models.TrendPoint{
			Day:             b.Day,
			Responses:       b.Count,
			AvgTimeSpentMin: b.Avg,
			Sources:         sources,
		})
	}
	return series
}
