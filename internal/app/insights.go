package app

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog/log"

	"hotel_insight/internal/analytics"
	"hotel_insight/internal/domain"
)

type InsightConfig struct {
	TrendStart    time.Time
	TopWords      int
	CloudWords    int
	SampleSize    int
	HistogramBins int
}

func DefaultInsightConfig() InsightConfig {
	return InsightConfig{
		TrendStart:    time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC),
		TopWords:      analytics.TopWords,
		CloudWords:    analytics.CloudWords,
		SampleSize:    5,
		HistogramBins: 10,
	}
}

// PipelineRecorder receives per-build measurements. Nil is allowed.
type PipelineRecorder interface {
	ObserveBuild(rows int, d time.Duration)
	ObserveParseFailures(field string, n int)
}

type WordStats struct {
	Total  int                   `json:"total"`
	Unique int                   `json:"unique"`
	Top    []analytics.WordCount `json:"top"`
	Cloud  []analytics.WordCount `json:"cloud"`
}

type NationalitySummary struct {
	Nationality  string                   `json:"nationality"`
	MedianNights *float64                 `json:"median_nights"`
	Sentiments   map[domain.Sentiment]int `json:"sentiments"`
}

type NationalityInsights struct {
	Distribution []analytics.KeyCount       `json:"distribution"`
	MedianScores []analytics.DimensionScore `json:"median_scores"`
	Summary      []NationalitySummary       `json:"summary"`
}

type RoomTypeLabel struct {
	Label    string `json:"label"`
	RoomType string `json:"room_type"`
}

type RoomTypeInsights struct {
	Labels  []RoomTypeLabel             `json:"labels"`
	Monthly []analytics.Bucket          `json:"monthly"`
	Trends  []analytics.SentimentSeries `json:"trends"`
}

type GroupInsights struct {
	Distribution []analytics.KeyCount        `json:"distribution"`
	Monthly      []analytics.Bucket          `json:"monthly"`
	Trends       []analytics.SentimentSeries `json:"trends"`
}

// InsightBundle is everything the dashboard renders for one hotel.
type InsightBundle struct {
	HotelID           string                      `json:"hotel_id"`
	Hotel             *domain.Hotel               `json:"hotel,omitempty"`
	TotalReviews      int                         `json:"total_reviews"`
	Undated           int                         `json:"undated_reviews"`
	SampleReviews     []SampleReview              `json:"sample_reviews"`
	SentimentCounts   []analytics.KeyCount        `json:"sentiment_counts"`
	Scores            analytics.ScoreSummary      `json:"scores"`
	Nights            analytics.NightsSummary     `json:"nights"`
	MonthlyStays      []analytics.MonthCount      `json:"monthly_stays"`
	SentimentByMonth  []analytics.Bucket          `json:"sentiment_by_month"`
	SentimentOverTime []analytics.SentimentSeries `json:"sentiment_over_time"`
	ScoreByMonth      []analytics.MonthScores     `json:"score_by_month"`
	PositiveWords     WordStats                   `json:"positive_words"`
	NegativeWords     WordStats                   `json:"negative_words"`
	Nationality       NationalityInsights         `json:"nationality"`
	RoomTypes         RoomTypeInsights            `json:"room_types"`
	Groups            GroupInsights               `json:"groups"`
}

// InsightService derives per-hotel bundles from the shared base tables.
// Each call works on its own enriched copy of the selection, so concurrent
// sessions never see each other's derived rows.
type InsightService struct {
	q   *QueryService
	cfg InsightConfig
	rec PipelineRecorder
}

func NewInsightService(q *QueryService, cfg InsightConfig, rec PipelineRecorder) *InsightService {
	return &InsightService{q: q, cfg: cfg, rec: rec}
}

// Insights selects, enriches and aggregates the reviews of one hotel.
// An unknown id yields an empty bundle, not an error.
func (s *InsightService) Insights(hotelID string) InsightBundle {
	start := time.Now()
	rows, labels := s.Enrich(s.SelectHotel(hotelID))
	b := s.BuildInsightBundle(hotelID, rows, labels)
	if h, err := s.q.HotelProfile(hotelID); err == nil {
		b.Hotel = &h
	}
	b.SampleReviews = s.q.ListReviews(hotelID, s.cfg.SampleSize)
	if s.rec != nil {
		s.rec.ObserveBuild(len(rows), time.Since(start))
	}
	log.Debug().Str("hotel_id", hotelID).Int("rows", len(rows)).Dur("took", time.Since(start)).Msg("insights built")
	return b
}

// SelectHotel filters the review table by exact hotel id.
func (s *InsightService) SelectHotel(hotelID string) []domain.Review {
	return s.q.SelectHotel(hotelID)
}

// Enrich derives nights, month and timestamp per row and assigns room labels.
// The label table is returned alongside the rows.
func (s *InsightService) Enrich(rs []domain.Review) ([]domain.EnrichedReview, []RoomTypeLabel) {
	rows := make([]domain.EnrichedReview, len(rs))
	var noNights, noMonth int
	for i, r := range rs {
		rows[i] = analytics.Enrich(r)
		if rows[i].NightsStayed == nil {
			noNights++
		}
		if rows[i].MonthYear == nil {
			noMonth++
		}
	}
	labels := RelabelRoomTypes(rows)
	if noNights > 0 || noMonth > 0 {
		log.Debug().Int("rows", len(rows)).Int("no_nights", noNights).Int("no_month", noMonth).Msg("stay details not parsed")
	}
	if s.rec != nil {
		s.rec.ObserveParseFailures("nights", noNights)
		s.rec.ObserveParseFailures("month_year", noMonth)
	}
	return rows, labels
}

// RelabelRoomTypes sets RoomLabel to "Type k" where k is the 1-based rank of
// the room type in first-seen order. Rows without a room type keep no label.
func RelabelRoomTypes(rows []domain.EnrichedReview) []RoomTypeLabel {
	labels := []RoomTypeLabel{}
	seen := map[string]string{}
	for i := range rows {
		rt := rows[i].RoomType
		if rt == "" {
			continue
		}
		l, ok := seen[rt]
		if !ok {
			l = "Type " + strconv.Itoa(len(labels)+1)
			seen[rt] = l
			labels = append(labels, RoomTypeLabel{Label: l, RoomType: rt})
		}
		rows[i].RoomLabel = l
	}
	return labels
}

// BuildInsightBundle aggregates already-enriched rows and their label table.
// Sample reviews and the hotel profile are filled in by Insights.
func (s *InsightService) BuildInsightBundle(hotelID string, rows []domain.EnrichedReview, labels []RoomTypeLabel) InsightBundle {
	if labels == nil {
		labels = []RoomTypeLabel{}
	}
	b := InsightBundle{
		HotelID:           hotelID,
		TotalReviews:      len(rows),
		SampleReviews:     []SampleReview{},
		SentimentCounts:   analytics.ValueCounts(rows, analytics.BySentiment),
		Scores:            analytics.SummarizeScores(rows, s.cfg.HistogramBins),
		Nights:            analytics.SummarizeNights(rows),
		MonthlyStays:      analytics.MonthlyCounts(rows),
		SentimentByMonth:  analytics.BucketByMonth(rows, analytics.BySentiment),
		SentimentOverTime: analytics.SentimentTimeSeries(rows, analytics.BySentiment, s.cfg.TrendStart),
		ScoreByMonth:      analytics.ScoreByMonth(rows),
		PositiveWords:     s.wordStats(textsOf(rows, domain.Positive), nil),
		Nationality: NationalityInsights{
			Distribution: analytics.ValueCounts(rows, analytics.ByNationality),
			MedianScores: analytics.MedianScoreBy(rows, analytics.ByNationality),
			Summary:      summarizeNationalities(rows),
		},
		RoomTypes: RoomTypeInsights{
			Labels:  labels,
			Monthly: analytics.BucketByMonth(rows, analytics.ByRoomLabel),
			Trends:  analytics.SentimentTimeSeries(rows, analytics.ByRoomLabel, s.cfg.TrendStart),
		},
		Groups: GroupInsights{
			Distribution: analytics.ValueCounts(rows, analytics.ByGroup),
			Monthly:      analytics.BucketByMonth(rows, analytics.ByGroup),
			Trends:       analytics.SentimentTimeSeries(rows, analytics.ByGroup, s.cfg.TrendStart),
		},
	}
	for _, r := range rows {
		if r.Date == nil {
			b.Undated++
		}
	}
	positive := analytics.Vocabulary(textsOf(rows, domain.Positive))
	b.NegativeWords = s.wordStats(textsOf(rows, domain.Negative), positive)
	return b
}

func (s *InsightService) wordStats(texts []string, exclude map[string]struct{}) WordStats {
	if exclude != nil {
		texts = analytics.FilterExcludingVocabulary(texts, exclude)
	}
	t := analytics.WordFrequency(texts)
	return WordStats{Total: t.Total, Unique: t.Unique, Top: t.Top(s.cfg.TopWords), Cloud: t.Top(s.cfg.CloudWords)}
}

func textsOf(rows []domain.EnrichedReview, label domain.Sentiment) []string {
	out := []string{}
	for _, r := range rows {
		if r.Sentiment == label {
			out = append(out, r.ReviewNew)
		}
	}
	return out
}

// summarizeNationalities pairs median nights with sentiment counts per
// nationality, ordered by nationality.
func summarizeNationalities(rows []domain.EnrichedReview) []NationalitySummary {
	nights := map[string][]float64{}
	counts := map[string]map[domain.Sentiment]int{}
	for _, r := range rows {
		if r.Nationality == "" {
			continue
		}
		if counts[r.Nationality] == nil {
			counts[r.Nationality] = map[domain.Sentiment]int{}
		}
		if r.Sentiment != "" {
			counts[r.Nationality][r.Sentiment]++
		}
		if r.NightsStayed != nil {
			nights[r.Nationality] = append(nights[r.Nationality], float64(*r.NightsStayed))
		}
	}
	out := make([]NationalitySummary, 0, len(counts))
	for nat, c := range counts {
		ns := NationalitySummary{Nationality: nat, Sentiments: c}
		if v := nights[nat]; len(v) > 0 {
			if m, err := stats.Median(v); err == nil {
				ns.MedianNights = &m
			}
		}
		out = append(out, ns)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nationality < out[j].Nationality })
	return out
}

// String renders a label table row for text output.
func (l RoomTypeLabel) String() string { return fmt.Sprintf("%s: %s", l.Label, l.RoomType) }
