package main

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_insight/internal/adapters/csvsource"
	"hotel_insight/internal/adapters/observability"
	"hotel_insight/internal/app"
	"hotel_insight/internal/shared"
	mysqlrepo "hotel_insight/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("hotels", cfg.HotelsCSV).
		Str("reviews", cfg.ReviewsCSV).
		Int("workers", cfg.ImportWorkers).
		Int("batch", cfg.ImportBatch).
		Msg("importer starting")

	reg := observability.InitRegistry()
	if ms := observability.Serve(cfg.MetricsAddr, reg); ms != nil {
		defer ms.Close()
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")
	if err := mysqlrepo.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	repo := mysqlrepo.New(db)
	src := csvsource.New(cfg.HotelsCSV, cfg.ReviewsCSV, cfg.TestCSV)
	imp := app.NewImportService(src, repo, cfg.ImportBatch)

	plan, err := imp.Plan(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("read source tables failed")
	}
	if err := imp.ImportHotels(ctx, plan.Hotels); err != nil {
		log.Fatal().Err(err).Msg("import hotels failed")
	}
	observability.ObserveImport("hotels", len(plan.Hotels), nil)

	sem := semaphore.NewWeighted(int64(cfg.ImportWorkers))
	var wg sync.WaitGroup
	var failed atomic.Int64

	for _, id := range plan.HotelIDs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(hotelID string) {
			defer wg.Done()
			defer sem.Release(int64(1))

			n, err := imp.ImportHotel(ctx, hotelID, plan.Reviews[hotelID])
			observability.ObserveImport("reviews", n, err)
			if err != nil {
				failed.Add(1)
				log.Warn().Str("hotel_id", hotelID).Int("written", n).Err(err).Msg("import failed")
				return
			}
			log.Info().Str("hotel_id", hotelID).Int("rows", n).Msg("import ok")
		}(id)
	}

	wg.Wait()
	log.Info().Int("hotels", len(plan.HotelIDs)).Int64("failed", failed.Load()).Msg("import completed")
}
