package domain

import "context"

// Dataset holds the base tables. It is loaded once and never mutated.
type Dataset struct {
	Hotels  []Hotel
	Reviews []Review
}

// TableSource loads the base tables from wherever they live.
type TableSource interface {
	LoadHotels(ctx context.Context) ([]Hotel, error)
	LoadReviews(ctx context.Context) ([]Review, error)
}

// TableStore is the write side used by the importer.
type TableStore interface {
	TableSource
	UpsertHotels(ctx context.Context, hs []Hotel) error
	InsertReviews(ctx context.Context, rs []Review) error
	DeleteReviews(ctx context.Context, hotelID string) error
}

// Classifier scores a batch of texts with a pre-trained model.
type Classifier interface {
	Predict(texts []string) []Sentiment
}
