// Package csvsource loads the hotel, review and test tables from CSV files.
package csvsource

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotel_insight/internal/domain"
)

// Column names as they appear in the source files.
const (
	colNum         = "num"
	colHotelID     = "Hotel ID"
	colHotelName   = "Hotel Name"
	colHotelRank   = "Hotel Rank"
	colHotelAddr   = "Hotel Address"
	colTotalScore  = "Total Score"
	colTitle       = "Title"
	colBody        = "Body"
	colReviewNew   = "Review_new"
	colSentiment   = "Sentiment"
	colScore       = "Score"
	colNationality = "Nationality"
	colRoomType    = "Room Type"
	colGroupName   = "Group Name"
	colStayDetails = "Stay Details"
	colDate        = "Date"
)

var (
	hotelColumns  = []string{colNum, colHotelID, colHotelName, colHotelRank, colHotelAddr, colTotalScore}
	reviewColumns = []string{colHotelID, colTitle, colBody, colReviewNew, colSentiment, colScore,
		colNationality, colRoomType, colGroupName, colStayDetails}
	testColumns = []string{colReviewNew, colSentiment}
)

type Source struct {
	HotelsPath  string
	ReviewsPath string
	TestPath    string
}

var _ domain.TableSource = (*Source)(nil)

func New(hotels, reviews, test string) *Source {
	return &Source{HotelsPath: hotels, ReviewsPath: reviews, TestPath: test}
}

func (s *Source) LoadHotels(ctx context.Context) ([]domain.Hotel, error) {
	f, err := s.open(ctx, s.HotelsPath, "hotels", hotelColumns)
	if err != nil {
		return nil, err
	}
	return mapHotels(f), nil
}

func (s *Source) LoadReviews(ctx context.Context) ([]domain.Review, error) {
	f, err := s.open(ctx, s.ReviewsPath, "reviews", reviewColumns)
	if err != nil {
		return nil, err
	}
	return mapReviews(f), nil
}

func (s *Source) LoadTest(ctx context.Context) ([]domain.LabeledText, error) {
	f, err := s.open(ctx, s.TestPath, "test", testColumns)
	if err != nil {
		return nil, err
	}
	return mapTest(f), nil
}

// LoadDataset reads the hotel and review tables concurrently.
func (s *Source) LoadDataset(ctx context.Context) (domain.Dataset, error) {
	var ds domain.Dataset
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ds.Hotels, err = s.LoadHotels(ctx)
		return err
	})
	g.Go(func() (err error) {
		ds.Reviews, err = s.LoadReviews(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Dataset{}, err
	}
	log.Info().Int("hotels", len(ds.Hotels)).Int("reviews", len(ds.Reviews)).Msg("csv dataset loaded")
	return ds, nil
}

func (s *Source) open(ctx context.Context, path, table string, required []string) (frame, error) {
	if err := ctx.Err(); err != nil {
		return frame{}, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return frame{}, fmt.Errorf("open %s table: %w", table, err)
	}
	defer fh.Close()
	return readFrame(fh, table, required)
}

// readFrame parses every column as a string and checks the required header.
func readFrame(r io.Reader, table string, required []string) (frame, error) {
	df := dataframe.ReadCSV(r,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	)
	if df.Err != nil {
		return frame{}, fmt.Errorf("parse %s table: %w", table, df.Err)
	}
	f := newFrame(df)
	var missing []string
	for _, c := range required {
		if !f.has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return frame{}, &domain.SchemaError{Table: table, Missing: missing}
	}
	return f, nil
}

func mapHotels(f frame) []domain.Hotel {
	out := make([]domain.Hotel, 0, f.rows())
	for i := 0; i < f.rows(); i++ {
		h := domain.Hotel{
			ID:      f.str(colHotelID, i),
			Name:    f.str(colHotelName, i),
			Rank:    f.str(colHotelRank, i),
			Address: f.str(colHotelAddr, i),
		}
		if n, ok := f.integer(colNum, i); ok {
			h.Num = n
		} else {
			log.Warn().Str("hotel_id", h.ID).Str("num", f.str(colNum, i)).Msg("hotel ordinal not an integer")
		}
		if v, ok := f.decimal(colTotalScore, i); ok {
			h.TotalScore = v
		}
		out = append(out, h)
	}
	return out
}

func mapReviews(f frame) []domain.Review {
	out := make([]domain.Review, 0, f.rows())
	unknown := map[domain.Sentiment]int{}
	badScores := 0
	for i := 0; i < f.rows(); i++ {
		r := domain.Review{
			HotelID:     f.str(colHotelID, i),
			Title:       f.str(colTitle, i),
			Body:        f.str(colBody, i),
			ReviewNew:   f.str(colReviewNew, i),
			Sentiment:   domain.Sentiment(f.str(colSentiment, i)),
			Nationality: f.str(colNationality, i),
			RoomType:    f.str(colRoomType, i),
			GroupName:   f.str(colGroupName, i),
			StayDetails: f.str(colStayDetails, i),
			TravelDate:  f.str(colDate, i),
		}
		if v, ok := f.decimal(colScore, i); ok {
			r.Score = v
		} else {
			badScores++
		}
		if r.Sentiment != "" && !r.Sentiment.Known() {
			unknown[r.Sentiment]++
		}
		out = append(out, r)
	}
	for l, n := range unknown {
		log.Warn().Str("label", string(l)).Int("rows", n).Msg("unknown sentiment label")
	}
	if badScores > 0 {
		log.Warn().Int("rows", badScores).Msg("unparseable review scores treated as missing")
	}
	return out
}

func mapTest(f frame) []domain.LabeledText {
	out := make([]domain.LabeledText, 0, f.rows())
	for i := 0; i < f.rows(); i++ {
		out = append(out, domain.LabeledText{
			Text:  f.str(colReviewNew, i), // missing text reads as ""
			Label: domain.Sentiment(f.str(colSentiment, i)),
		})
	}
	return out
}
