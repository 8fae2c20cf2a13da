package mysql

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"hotel_insight/internal/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullStr(s sql.NullString) string {
	if s.Valid {
		return s.String
	}
	return ""
}

func nullF64(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// Repo stores the base hotel and review tables. It implements domain.TableStore.
type Repo struct{ db *sql.DB }

var _ domain.TableStore = (*Repo)(nil)

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Migrate applies the embedded schema files in name order. Statements are
// idempotent, so it is safe on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)
	for _, f := range files {
		b, err := migrations.ReadFile(f)
		if err != nil {
			return err
		}
		for _, stmt := range strings.Split(string(b), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrate %s: %w", f, err)
			}
		}
	}
	return nil
}

func (r *Repo) UpsertHotels(ctx context.Context, hs []domain.Hotel) error {
	if len(hs) == 0 {
		return nil
	}
	values := make([]string, 0, len(hs))
	args := make([]any, 0, len(hs)*6)
	for _, h := range hs {
		values = append(values, "(?,?,?,?,?,?)")
		args = append(args, h.ID, h.Num, h.Name, h.Rank, h.Address, valF64(h.TotalScore))
	}
	_, err := r.db.ExecContext(ctx, upsertHotelsPrefix+strings.Join(values, ",")+upsertHotelsOnDup, args...)
	return err
}

func (r *Repo) InsertReviews(ctx context.Context, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*11)
	for _, rv := range rs {
		values = append(values, "(?,?,?,?,?,?,?,?,?,?,?)")
		args = append(args,
			rv.HotelID,
			rv.Title,
			rv.Body,
			rv.ReviewNew,
			string(rv.Sentiment),
			valF64(rv.Score),
			rv.Nationality,
			rv.RoomType,
			rv.GroupName,
			rv.StayDetails,
			rv.TravelDate,
		)
	}
	_, err := r.db.ExecContext(ctx, insertReviewsPrefix+strings.Join(values, ","), args...)
	return err
}

func (r *Repo) DeleteReviews(ctx context.Context, hotelID string) error {
	_, err := r.db.ExecContext(ctx, deleteReviewsSQL, hotelID)
	return err
}

func (r *Repo) LoadHotels(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, listHotelsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Hotel{}
	for rows.Next() {
		var h domain.Hotel
		var addr sql.NullString
		var score sql.NullFloat64
		if err := rows.Scan(&h.ID, &h.Num, &h.Name, &h.Rank, &addr, &score); err != nil {
			return nil, err
		}
		h.Address = nullStr(addr)
		h.TotalScore = nullF64(score)
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repo) LoadReviews(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		var rv domain.Review
		var title, body, reviewNew, stay sql.NullString
		var sentiment string
		var score sql.NullFloat64
		if err := rows.Scan(&rv.HotelID, &title, &body, &reviewNew, &sentiment, &score,
			&rv.Nationality, &rv.RoomType, &rv.GroupName, &stay, &rv.TravelDate); err != nil {
			return nil, err
		}
		rv.Title, rv.Body, rv.ReviewNew, rv.StayDetails = nullStr(title), nullStr(body), nullStr(reviewNew), nullStr(stay)
		rv.Sentiment = domain.Sentiment(sentiment)
		rv.Score = nullF64(score)
		out = append(out, rv)
	}
	return out, rows.Err()
}

// LoadDataset reads both base tables.
func (r *Repo) LoadDataset(ctx context.Context) (domain.Dataset, error) {
	hs, err := r.LoadHotels(ctx)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("load hotels: %w", err)
	}
	rs, err := r.LoadReviews(ctx)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("load reviews: %w", err)
	}
	return domain.Dataset{Hotels: hs, Reviews: rs}, nil
}
