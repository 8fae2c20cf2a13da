//go:build integration

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"hotel_insight/internal/adapters/csvsource"
	httpserver "hotel_insight/internal/adapters/http_server"
	"hotel_insight/internal/app"
	mysqlrepo "hotel_insight/internal/storage/mysql"
)

const hotelsCSV = `num,Hotel ID,Hotel Name,Hotel Rank,Hotel Address,Total Score
1,H1,Alpha,5 sao,Đà Nẵng,9.1
2,H2,Beta,4 sao,Hà Nội,8.0
`

const reviewsCSV = `Hotel ID,Title,Body,Review_new,Sentiment,Score,Nationality,Room Type,Group Name,Stay Details,Date
H1,Tốt,Phòng đẹp,phòng đẹp,Tích cực,9.0,Việt Nam,Deluxe,Gia đình,Đã ở 2 đêm · tháng 3 năm 2022,
H1,Tệ,Ồn ào,phòng ồn,Tiêu cực,4.0,Hàn Quốc,Suite,Cặp đôi,Đã ở 1 đêm · tháng 4 năm 2022,
H2,Ổn,Được,bình thường,Trung tính,7.0,Việt Nam,Suite,Gia đình,Đã ở 3 đêm · tháng 4 năm 2022,
`

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=insight"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/insight?parseTime=true&charset=utf8mb4&loc=UTC", resource.GetPort("3306/tcp"))
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

// CSV -> importer -> MySQL -> API, end to end.
func TestE2E_ImportThenServeInsights(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	for name, body := range map[string]string{"hotels.csv": hotelsCSV, "reviews.csv": reviewsCSV} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	db := startMySQL(t)
	if err := mysqlrepo.Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	repo := mysqlrepo.New(db)

	src := csvsource.New(filepath.Join(dir, "hotels.csv"), filepath.Join(dir, "reviews.csv"), "")
	imp := app.NewImportService(src, repo, 1)
	plan, err := imp.Plan(ctx)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if err := imp.ImportHotels(ctx, plan.Hotels); err != nil {
		t.Fatalf("ImportHotels: %v", err)
	}
	for _, id := range plan.HotelIDs {
		if _, err := imp.ImportHotel(ctx, id, plan.Reviews[id]); err != nil {
			t.Fatalf("ImportHotel %s: %v", id, err)
		}
	}

	ds, err := repo.LoadDataset(ctx)
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	q := app.NewQueryService(ds)
	srv := httpserver.New(httpserver.Options{})
	srv.MountHandlers(&httpserver.Handlers{
		Q:         q,
		I:         app.NewInsightService(q, app.DefaultInsightConfig(), nil),
		E:         app.NewEvaluationService(nil, nil, nil),
		TopHotels: 10,
		Samples:   5,
	})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/hotels/H1/insights")
	if err != nil {
		t.Fatalf("GET insights: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var b app.InsightBundle
	if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.TotalReviews != 2 || b.Hotel == nil || b.Hotel.Name != "Alpha" {
		t.Fatalf("unexpected bundle: total=%d hotel=%+v", b.TotalReviews, b.Hotel)
	}
	if len(b.MonthlyStays) != 2 || len(b.RoomTypes.Labels) != 2 {
		t.Fatalf("unexpected aggregates: %+v %+v", b.MonthlyStays, b.RoomTypes.Labels)
	}
	// "phòng" is positive vocabulary, so only "ồn" survives in the negative table
	if len(b.NegativeWords.Top) != 1 || b.NegativeWords.Top[0].Word != "ồn" {
		t.Fatalf("unexpected negative words: %+v", b.NegativeWords.Top)
	}
}
