//go:build integration

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"hotel_insight/internal/domain"
	mysqlrepo "hotel_insight/internal/storage/mysql"
)

func pfloat(f float64) *float64 { return &f }

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=insight",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		"root", hostPort, "insight")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRepo_MySQL_ImportAndLoad(t *testing.T) {
	db := startMySQL(t)
	ctx := context.Background()

	if err := mysqlrepo.Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	// second run must be a no-op
	if err := mysqlrepo.Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate again: %v", err)
	}

	repo := mysqlrepo.New(db)

	hotels := []domain.Hotel{
		{Num: 2, ID: "H2", Name: "Beta", Rank: "4 sao", Address: "Hà Nội"},
		{Num: 1, ID: "H1", Name: "Alpha", Rank: "5 sao", Address: "Đà Nẵng", TotalScore: pfloat(9.1)},
	}
	if err := repo.UpsertHotels(ctx, hotels); err != nil {
		t.Fatalf("UpsertHotels: %v", err)
	}
	hotels[1].Name = "Alpha Renamed"
	if err := repo.UpsertHotels(ctx, hotels[1:]); err != nil {
		t.Fatalf("UpsertHotels again: %v", err)
	}

	reviews := []domain.Review{
		{HotelID: "H1", Title: "Tốt", ReviewNew: "phòng đẹp", Sentiment: domain.Positive, Score: pfloat(9), StayDetails: "Đã ở 2 đêm"},
		{HotelID: "H1", Title: "Tệ", ReviewNew: "ồn ào", Sentiment: domain.Negative, RoomType: "Suite"},
	}
	if err := repo.InsertReviews(ctx, reviews); err != nil {
		t.Fatalf("InsertReviews: %v", err)
	}
	// re-import replaces the hotel's rows
	if err := repo.DeleteReviews(ctx, "H1"); err != nil {
		t.Fatalf("DeleteReviews: %v", err)
	}
	if err := repo.InsertReviews(ctx, reviews); err != nil {
		t.Fatalf("InsertReviews again: %v", err)
	}

	ds, err := repo.LoadDataset(ctx)
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if len(ds.Hotels) != 2 || ds.Hotels[0].ID != "H1" || ds.Hotels[0].Name != "Alpha Renamed" {
		t.Fatalf("unexpected hotels: %+v", ds.Hotels)
	}
	if ds.Hotels[1].TotalScore != nil {
		t.Fatalf("NULL score must load as nil, got %v", *ds.Hotels[1].TotalScore)
	}
	if len(ds.Reviews) != 2 {
		t.Fatalf("want 2 reviews after re-import, got %d", len(ds.Reviews))
	}
	if ds.Reviews[0].Title != "Tốt" || ds.Reviews[1].RoomType != "Suite" {
		t.Fatalf("reviews out of order: %+v", ds.Reviews)
	}
	if ds.Reviews[1].Score != nil || ds.Reviews[0].Score == nil || *ds.Reviews[0].Score != 9 {
		t.Fatalf("unexpected scores: %+v", ds.Reviews)
	}
}
