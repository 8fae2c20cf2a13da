package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"hotel_insight/internal/domain"
)

// ImportPlan is the source tables grouped for a per-hotel copy.
type ImportPlan struct {
	Hotels   []domain.Hotel
	HotelIDs []string // first-seen order in the review table
	Reviews  map[string][]domain.Review
}

// ImportService copies the base tables from a source into a store.
type ImportService struct {
	src   domain.TableSource
	dst   domain.TableStore
	batch int
}

func NewImportService(src domain.TableSource, dst domain.TableStore, batch int) *ImportService {
	if batch <= 0 {
		batch = 500
	}
	return &ImportService{src: src, dst: dst, batch: batch}
}

func (s *ImportService) Plan(ctx context.Context) (ImportPlan, error) {
	hs, err := s.src.LoadHotels(ctx)
	if err != nil {
		return ImportPlan{}, fmt.Errorf("load hotels: %w", err)
	}
	rs, err := s.src.LoadReviews(ctx)
	if err != nil {
		return ImportPlan{}, fmt.Errorf("load reviews: %w", err)
	}
	p := ImportPlan{Hotels: hs, Reviews: map[string][]domain.Review{}}
	for _, r := range rs {
		if r.HotelID == "" {
			continue
		}
		if _, ok := p.Reviews[r.HotelID]; !ok {
			p.HotelIDs = append(p.HotelIDs, r.HotelID)
		}
		p.Reviews[r.HotelID] = append(p.Reviews[r.HotelID], r)
	}
	return p, nil
}

func (s *ImportService) ImportHotels(ctx context.Context, hs []domain.Hotel) error {
	for start := 0; start < len(hs); start += s.batch {
		end := min(start+s.batch, len(hs))
		if err := s.dst.UpsertHotels(ctx, hs[start:end]); err != nil {
			return fmt.Errorf("upsert hotels %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// ImportHotel replaces the stored reviews of one hotel, keeping row order.
// It returns the number of rows written.
func (s *ImportService) ImportHotel(ctx context.Context, hotelID string, rs []domain.Review) (int, error) {
	if err := s.dst.DeleteReviews(ctx, hotelID); err != nil {
		return 0, fmt.Errorf("delete reviews: %w", err)
	}
	n := 0
	for start := 0; start < len(rs); start += s.batch {
		end := min(start+s.batch, len(rs))
		if err := s.dst.InsertReviews(ctx, rs[start:end]); err != nil {
			return n, fmt.Errorf("insert reviews %d-%d: %w", start, end, err)
		}
		n = end
	}
	log.Debug().Str("hotel_id", hotelID).Int("rows", n).Msg("hotel imported")
	return n, nil
}
