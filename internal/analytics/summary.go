package analytics

import (
	"sort"

	"github.com/montanaflynn/stats"

	"hotel_insight/internal/domain"
)

type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

type ScoreSummary struct {
	Count     int            `json:"count"`
	Mean      float64        `json:"mean"`
	Median    float64        `json:"median"`
	Min       float64        `json:"min"`
	Max       float64        `json:"max"`
	Histogram []HistogramBin `json:"histogram"`
}

type NightsCount struct {
	Nights int `json:"nights"`
	Count  int `json:"count"`
}

type NightsSummary struct {
	Count        int           `json:"count"`
	Median       *float64      `json:"median"`
	Distribution []NightsCount `json:"distribution"`
}

// Histogram splits values into equal-width bins over [min, max]; the last
// bin is closed on the right. A single distinct value gets a unit-wide range
// centred on it.
func Histogram(values []float64, bins int) []HistogramBin {
	if len(values) == 0 || bins <= 0 {
		return []HistogramBin{}
	}
	lo, _ := stats.Min(values)
	hi, _ := stats.Max(values)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)
	out := make([]HistogramBin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		out[i].Count++
	}
	return out
}

// SummarizeScores ignores rows without a score.
func SummarizeScores(rows []domain.EnrichedReview, bins int) ScoreSummary {
	var scores []float64
	for _, r := range rows {
		if r.Score != nil {
			scores = append(scores, *r.Score)
		}
	}
	out := ScoreSummary{Count: len(scores), Histogram: Histogram(scores, bins)}
	if len(scores) == 0 {
		return out
	}
	out.Mean, _ = stats.Mean(scores)
	out.Median, _ = stats.Median(scores)
	out.Min, _ = stats.Min(scores)
	out.Max, _ = stats.Max(scores)
	return out
}

// SummarizeNights ignores rows whose stay details had no nights count.
func SummarizeNights(rows []domain.EnrichedReview) NightsSummary {
	counts := map[int]int{}
	var nights []float64
	for _, r := range rows {
		if r.NightsStayed == nil {
			continue
		}
		counts[*r.NightsStayed]++
		nights = append(nights, float64(*r.NightsStayed))
	}
	out := NightsSummary{Count: len(nights), Distribution: make([]NightsCount, 0, len(counts))}
	for n, c := range counts {
		out.Distribution = append(out.Distribution, NightsCount{Nights: n, Count: c})
	}
	sort.Slice(out.Distribution, func(i, j int) bool { return out.Distribution[i].Nights < out.Distribution[j].Nights })
	if med, err := stats.Median(nights); err == nil {
		out.Median = &med
	}
	return out
}
