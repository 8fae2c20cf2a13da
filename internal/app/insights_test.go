package app_test

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_insight/internal/analytics"
	"hotel_insight/internal/app"
	"hotel_insight/internal/domain"
)

func score(v float64) *float64 { return &v }

type fakeRecorder struct {
	mu       sync.Mutex
	builds   int
	failures map[string]int
}

func (f *fakeRecorder) ObserveBuild(rows int, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builds++
}

func (f *fakeRecorder) ObserveParseFailures(field string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures == nil {
		f.failures = map[string]int{}
	}
	f.failures[field] += n
}

func insightDataset() domain.Dataset {
	return domain.Dataset{
		Hotels: []domain.Hotel{{Num: 1, ID: "H1", Name: "Alpha"}, {Num: 2, ID: "H2", Name: "Beta"}},
		Reviews: []domain.Review{
			{HotelID: "H1", Title: "r1", RoomType: "Deluxe", Nationality: "Việt Nam", GroupName: "Gia đình",
				Sentiment: domain.Positive, Score: score(9), StayDetails: "Đã ở 2 đêm · tháng 1 năm 2022", ReviewNew: "phòng sạch đẹp"},
			{HotelID: "H1", Title: "r2", RoomType: "Suite", Nationality: "Hàn Quốc", GroupName: "Cặp đôi",
				Sentiment: domain.Negative, Score: score(5), StayDetails: "Đã ở 1 đêm · tháng 2 năm 2022", ReviewNew: "phòng bẩn ồn"},
			{HotelID: "H2", Title: "other", RoomType: "Suite", Sentiment: domain.Negative, StayDetails: "Đã ở 1 đêm · tháng 5 năm 2023"},
			{HotelID: "H1", Title: "r3", RoomType: "Deluxe", Nationality: "Việt Nam", GroupName: "Gia đình",
				Sentiment: domain.Positive, Score: score(8), StayDetails: "Đã ở 4 đêm · tháng 2 năm 2022", ReviewNew: "nhân viên đẹp"},
			{HotelID: "H1", Title: "r4", RoomType: "Deluxe", Nationality: "Việt Nam",
				Sentiment: domain.Neutral, StayDetails: "Không rõ", ReviewNew: "bình thường"},
		},
	}
}

func newInsights(rec app.PipelineRecorder) *app.InsightService {
	return app.NewInsightService(app.NewQueryService(insightDataset()), app.DefaultInsightConfig(), rec)
}

func TestInsights_Bundle(t *testing.T) {
	rec := &fakeRecorder{}
	b := newInsights(rec).Insights("H1")

	require.NotNil(t, b.Hotel)
	assert.Equal(t, "Alpha", b.Hotel.Name)
	assert.Equal(t, 4, b.TotalReviews)
	assert.Equal(t, 1, b.Undated)
	assert.Len(t, b.SampleReviews, 4)

	assert.Equal(t, []analytics.KeyCount{
		{Key: string(domain.Positive), Count: 2},
		{Key: string(domain.Negative), Count: 1},
		{Key: string(domain.Neutral), Count: 1},
	}, b.SentimentCounts)
	assert.Equal(t, 3, b.Scores.Count)
	assert.Equal(t, 3, b.Nights.Count)

	require.Len(t, b.MonthlyStays, 2)
	assert.Equal(t, "2022-01", b.MonthlyStays[0].Period)
	assert.Equal(t, 1, b.MonthlyStays[0].Count)
	assert.Equal(t, 2, b.MonthlyStays[1].Count)

	// the neutral row is undated so only two sentiments have a series
	require.Len(t, b.SentimentOverTime, 2)
	assert.Equal(t, string(domain.Positive), b.SentimentOverTime[0].Key)
	assert.Len(t, b.SentimentOverTime[0].Points, 2*len(domain.Sentiments))

	assert.Equal(t, 6, b.PositiveWords.Total)
	assert.Equal(t, 5, b.PositiveWords.Unique)
	assert.Equal(t, analytics.WordCount{Word: "đẹp", Count: 2}, b.PositiveWords.Top[0])
	// "phòng" is in the positive vocabulary
	assert.Equal(t, 2, b.NegativeWords.Total)
	assert.Equal(t, []analytics.WordCount{{Word: "bẩn", Count: 1}, {Word: "ồn", Count: 1}}, b.NegativeWords.Top)

	require.Len(t, b.Nationality.Summary, 2)
	vn := b.Nationality.Summary[1]
	assert.Equal(t, "Việt Nam", vn.Nationality)
	require.NotNil(t, vn.MedianNights)
	assert.InDelta(t, 3.0, *vn.MedianNights, 1e-9)
	assert.Equal(t, map[domain.Sentiment]int{domain.Positive: 2, domain.Neutral: 1}, vn.Sentiments)

	assert.Equal(t, []app.RoomTypeLabel{{Label: "Type 1", RoomType: "Deluxe"}, {Label: "Type 2", RoomType: "Suite"}}, b.RoomTypes.Labels)
	for _, bk := range b.RoomTypes.Monthly {
		assert.Contains(t, []string{"Type 1", "Type 2"}, bk.Key)
	}
	assert.Equal(t, []analytics.KeyCount{{Key: "Gia đình", Count: 2}, {Key: "Cặp đôi", Count: 1}}, b.Groups.Distribution)

	assert.Equal(t, 1, rec.builds)
	assert.Equal(t, 1, rec.failures["nights"])
	assert.Equal(t, 1, rec.failures["month_year"])
}

func TestInsights_UnknownHotelIsEmpty(t *testing.T) {
	b := newInsights(nil).Insights("NONEXISTENT")

	assert.Nil(t, b.Hotel)
	assert.Zero(t, b.TotalReviews)
	assert.NotNil(t, b.SampleReviews)
	assert.Empty(t, b.SentimentCounts)
	assert.Empty(t, b.MonthlyStays)
	assert.Empty(t, b.SentimentOverTime)
	assert.Empty(t, b.PositiveWords.Top)
	assert.Empty(t, b.RoomTypes.Labels)
	assert.Nil(t, b.Nights.Median)

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"sample_reviews":[]`)
	assert.Contains(t, string(raw), `"sentiment_over_time":[]`)
	assert.Contains(t, string(raw), `"labels":[]`)
}

func TestRelabelRoomTypes_FirstSeenOrder(t *testing.T) {
	rows := []domain.EnrichedReview{
		{Review: domain.Review{RoomType: "B"}},
		{Review: domain.Review{RoomType: "A"}},
		{Review: domain.Review{RoomType: ""}},
		{Review: domain.Review{RoomType: "B"}},
	}
	labels := app.RelabelRoomTypes(rows)

	assert.Equal(t, []app.RoomTypeLabel{{Label: "Type 1", RoomType: "B"}, {Label: "Type 2", RoomType: "A"}}, labels)
	assert.Equal(t, "Type 1", rows[0].RoomLabel)
	assert.Equal(t, "Type 2", rows[1].RoomLabel)
	assert.Empty(t, rows[2].RoomLabel)
	assert.Equal(t, "Type 1", rows[3].RoomLabel)
}

func TestInsights_RoomLabelTableKeepsAssignmentOrder(t *testing.T) {
	var reviews []domain.Review
	var want []app.RoomTypeLabel
	for i := 1; i <= 12; i++ {
		rt := fmt.Sprintf("Room %02d", i)
		reviews = append(reviews, domain.Review{HotelID: "H1", RoomType: rt, Sentiment: domain.Positive})
		want = append(want, app.RoomTypeLabel{Label: fmt.Sprintf("Type %d", i), RoomType: rt})
	}
	ds := domain.Dataset{Hotels: []domain.Hotel{{Num: 1, ID: "H1"}}, Reviews: reviews}
	svc := app.NewInsightService(app.NewQueryService(ds), app.DefaultInsightConfig(), nil)

	b := svc.Insights("H1")

	assert.Equal(t, want, b.RoomTypes.Labels)
}

func TestInsights_ConcurrentSessionsAreIsolated(t *testing.T) {
	svc := newInsights(&fakeRecorder{})
	want1, want2 := svc.Insights("H1"), svc.Insights("H2")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				assert.Equal(t, want1, svc.Insights("H1"))
			} else {
				assert.Equal(t, want2, svc.Insights("H2"))
			}
		}(i)
	}
	wg.Wait()

	// in the H2 selection "Suite" is seen first
	assert.Equal(t, []app.RoomTypeLabel{{Label: "Type 1", RoomType: "Suite"}}, want2.RoomTypes.Labels)
}
