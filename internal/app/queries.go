package app

import (
	"sort"

	"hotel_insight/internal/domain"
)

type SampleReview struct {
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Sentiment domain.Sentiment `json:"sentiment"`
}

// QueryService answers lookups against the base tables. The tables are
// shared read-only; every result is a fresh slice.
type QueryService struct {
	hotels  []domain.Hotel // sorted by Num
	reviews []domain.Review
}

func NewQueryService(ds domain.Dataset) *QueryService {
	hotels := make([]domain.Hotel, len(ds.Hotels))
	copy(hotels, ds.Hotels)
	sort.SliceStable(hotels, func(i, j int) bool { return hotels[i].Num < hotels[j].Num })
	return &QueryService{hotels: hotels, reviews: ds.Reviews}
}

// TopHotels returns the first n hotels in ordinal order; n <= 0 means all.
func (s *QueryService) TopHotels(n int) []domain.Hotel {
	if n <= 0 || n > len(s.hotels) {
		n = len(s.hotels)
	}
	out := make([]domain.Hotel, n)
	copy(out, s.hotels[:n])
	return out
}

func (s *QueryService) HotelProfile(id string) (domain.Hotel, error) {
	for _, h := range s.hotels {
		if h.ID == id {
			return h, nil
		}
	}
	return domain.Hotel{}, domain.ErrNotFound
}

// SelectHotel returns the hotel's reviews in table order; empty when none match.
func (s *QueryService) SelectHotel(id string) []domain.Review {
	out := []domain.Review{}
	for _, r := range s.reviews {
		if r.HotelID == id {
			out = append(out, r)
		}
	}
	return out
}

// ListReviews returns up to limit sample rows of the hotel's reviews.
func (s *QueryService) ListReviews(id string, limit int) []SampleReview {
	out := []SampleReview{}
	for _, r := range s.reviews {
		if limit > 0 && len(out) == limit {
			break
		}
		if r.HotelID == id {
			out = append(out, SampleReview{Title: r.Title, Body: r.Body, Sentiment: r.Sentiment})
		}
	}
	return out
}
