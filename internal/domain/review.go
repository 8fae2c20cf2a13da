package domain

import "time"

type Sentiment string

// Labels as they appear in the source data.
const (
	Positive Sentiment = "Tích cực"
	Negative Sentiment = "Tiêu cực"
	Neutral  Sentiment = "Trung tính"
)

// Sentiments is the closed label set in canonical order.
var Sentiments = []Sentiment{Positive, Negative, Neutral}

func (s Sentiment) Known() bool {
	for _, k := range Sentiments {
		if s == k {
			return true
		}
	}
	return false
}

// Review is one row of the review table.
type Review struct {
	HotelID     string
	Title       string
	Body        string
	ReviewNew   string // normalized review text
	Sentiment   Sentiment
	Score       *float64
	Nationality string
	RoomType    string
	GroupName   string
	StayDetails string
	TravelDate  string
}

// EnrichedReview carries the per-row fields derived from StayDetails.
// A nil field means the source text did not parse.
type EnrichedReview struct {
	Review
	NightsStayed *int
	MonthYear    *string    // canonical "January 2006"
	Date         *time.Time // first of month, re-parsed from MonthYear
	RoomLabel    string     // anonymized "Type N", assigned per selection
}

// LabeledText is one row of the held-out test table.
type LabeledText struct {
	Text  string
	Label Sentiment
}
