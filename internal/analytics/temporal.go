package analytics

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"hotel_insight/internal/domain"
)

// Dimension names a grouping key over enriched reviews. Rows whose key is
// empty are left out of every grouping on that dimension.
type Dimension struct {
	Name string
	Key  func(domain.EnrichedReview) string
}

var (
	BySentiment   = Dimension{Name: "sentiment", Key: func(r domain.EnrichedReview) string { return string(r.Sentiment) }}
	ByRoomType    = Dimension{Name: "room_type", Key: func(r domain.EnrichedReview) string { return r.RoomType }}
	ByNationality = Dimension{Name: "nationality", Key: func(r domain.EnrichedReview) string { return r.Nationality }}
	ByGroup       = Dimension{Name: "group_name", Key: func(r domain.EnrichedReview) string { return r.GroupName }}

	// ByRoomLabel keys by the anonymized label, falling back to the raw room type.
	ByRoomLabel = Dimension{Name: "room_label", Key: func(r domain.EnrichedReview) string {
		if r.RoomLabel != "" {
			return r.RoomLabel
		}
		return r.RoomType
	}}
)

// PeriodLayout renders a bucket month as "2006-01".
const PeriodLayout = "2006-01"

type Bucket struct {
	Month  time.Time `json:"month"`
	Period string    `json:"period"`
	Key    string    `json:"key"`
	Count  int       `json:"count"`
}

type MonthCount struct {
	Month  time.Time `json:"month"`
	Period string    `json:"period"`
	Count  int       `json:"count"`
}

type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type DimensionScore struct {
	Key    string  `json:"key"`
	Median float64 `json:"median"`
	Count  int     `json:"count"`
}

type SeriesPoint struct {
	Month     time.Time        `json:"month"`
	Period    string           `json:"period"`
	Sentiment domain.Sentiment `json:"sentiment"`
	Count     int              `json:"count"`
}

// SentimentSeries is one trend panel: every (month, sentiment) pair of the
// shared window, zero-filled.
type SentimentSeries struct {
	Key    string        `json:"key"`
	Points []SeriesPoint `json:"points"`
}

// MonthScores is boxplot input for one month.
type MonthScores struct {
	Month  time.Time `json:"month"`
	Period string    `json:"period"`
	Scores []float64 `json:"scores"`
	Min    float64   `json:"min"`
	Q1     float64   `json:"q1"`
	Median float64   `json:"median"`
	Q3     float64   `json:"q3"`
	Max    float64   `json:"max"`
}

type bucketKey struct {
	month time.Time
	key   string
}

// BucketByMonth counts dated rows per (month, dimension value), ordered by
// month then value.
func BucketByMonth(rows []domain.EnrichedReview, dim Dimension) []Bucket {
	counts := map[bucketKey]int{}
	for _, r := range rows {
		if r.Date == nil {
			continue
		}
		k := dim.Key(r)
		if k == "" {
			continue
		}
		counts[bucketKey{month: monthOf(*r.Date), key: k}]++
	}
	out := make([]Bucket, 0, len(counts))
	for k, n := range counts {
		out = append(out, Bucket{Month: k.month, Period: k.month.Format(PeriodLayout), Key: k.key, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Month.Equal(out[j].Month) {
			return out[i].Month.Before(out[j].Month)
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// MonthlyCounts counts dated rows per month.
func MonthlyCounts(rows []domain.EnrichedReview) []MonthCount {
	counts := map[time.Time]int{}
	for _, r := range rows {
		if r.Date != nil {
			counts[monthOf(*r.Date)]++
		}
	}
	out := make([]MonthCount, 0, len(counts))
	for m, n := range counts {
		out = append(out, MonthCount{Month: m, Period: m.Format(PeriodLayout), Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// ValueCounts counts rows per dimension value, most frequent first; ties keep
// first-seen order.
func ValueCounts(rows []domain.EnrichedReview, dim Dimension) []KeyCount {
	idx := map[string]int{}
	var out []KeyCount
	for _, r := range rows {
		k := dim.Key(r)
		if k == "" {
			continue
		}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, KeyCount{Key: k})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if out == nil {
		out = []KeyCount{}
	}
	return out
}

// MedianScoreBy computes the median score per dimension value over rows with
// a score, highest median first.
func MedianScoreBy(rows []domain.EnrichedReview, dim Dimension) []DimensionScore {
	groups := map[string][]float64{}
	for _, r := range rows {
		if r.Score == nil {
			continue
		}
		k := dim.Key(r)
		if k == "" {
			continue
		}
		groups[k] = append(groups[k], *r.Score)
	}
	out := make([]DimensionScore, 0, len(groups))
	for k, scores := range groups {
		med, err := stats.Median(scores)
		if err != nil {
			continue
		}
		out = append(out, DimensionScore{Key: k, Median: med, Count: len(scores)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Median != out[j].Median {
			return out[i].Median > out[j].Median
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// SentimentTimeSeries builds one zero-filled series per dimension value, all
// spanning the months from start through the latest dated row. Values appear
// in first-seen order. Months before start are not part of the window.
func SentimentTimeSeries(rows []domain.EnrichedReview, dim Dimension, start time.Time) []SentimentSeries {
	type cell struct {
		month     time.Time
		sentiment domain.Sentiment
	}
	var keys []string
	counts := map[string]map[cell]int{}
	var last time.Time
	for _, r := range rows {
		if r.Date == nil {
			continue
		}
		k := dim.Key(r)
		if k == "" {
			continue
		}
		m := monthOf(*r.Date)
		if m.After(last) {
			last = m
		}
		if _, ok := counts[k]; !ok {
			keys = append(keys, k)
			counts[k] = map[cell]int{}
		}
		counts[k][cell{month: m, sentiment: r.Sentiment}]++
	}
	if len(keys) == 0 {
		return []SentimentSeries{}
	}

	window := MonthRange(monthOf(start), last)
	out := make([]SentimentSeries, 0, len(keys))
	for _, k := range keys {
		points := make([]SeriesPoint, 0, len(window)*len(domain.Sentiments))
		for _, m := range window {
			for _, s := range domain.Sentiments {
				points = append(points, SeriesPoint{
					Month:     m,
					Period:    m.Format(PeriodLayout),
					Sentiment: s,
					Count:     counts[k][cell{month: m, sentiment: s}],
				})
			}
		}
		out = append(out, SentimentSeries{Key: k, Points: points})
	}
	return out
}

// ScoreByMonth groups scores of dated rows per month for boxplots.
func ScoreByMonth(rows []domain.EnrichedReview) []MonthScores {
	groups := map[time.Time][]float64{}
	for _, r := range rows {
		if r.Date == nil || r.Score == nil {
			continue
		}
		m := monthOf(*r.Date)
		groups[m] = append(groups[m], *r.Score)
	}
	out := make([]MonthScores, 0, len(groups))
	for m, scores := range groups {
		ms := MonthScores{Month: m, Period: m.Format(PeriodLayout), Scores: scores}
		ms.Min, _ = stats.Min(scores)
		ms.Max, _ = stats.Max(scores)
		ms.Median, _ = stats.Median(scores)
		ms.Q1, ms.Q3 = ms.Median, ms.Median
		if len(scores) > 1 {
			if q, err := stats.Quartile(scores); err == nil {
				ms.Q1, ms.Q3 = q.Q1, q.Q3
			}
		}
		out = append(out, ms)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// MonthRange lists the first of every month from 'from' through 'to'
// inclusive; empty when from is after to.
func MonthRange(from, to time.Time) []time.Time {
	from, to = monthOf(from), monthOf(to)
	var out []time.Time
	for m := from; !m.After(to); m = m.AddDate(0, 1, 0) {
		out = append(out, m)
	}
	return out
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
