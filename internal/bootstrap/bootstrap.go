// Package bootstrap assembles the read-side services shared by the API and
// the CLI from configuration.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_insight/internal/adapters/classifier"
	"hotel_insight/internal/adapters/csvsource"
	"hotel_insight/internal/adapters/observability"
	"hotel_insight/internal/app"
	"hotel_insight/internal/domain"
	"hotel_insight/internal/shared"
	mysqlrepo "hotel_insight/internal/storage/mysql"
)

type Runtime struct {
	Q *app.QueryService
	I *app.InsightService
	E *app.EvaluationService

	db *sql.DB
}

func (r *Runtime) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load reads the base tables and the classifier artifact. A bad data table is
// an error; a bad artifact or test table only disables evaluation.
func Load(ctx context.Context, cfg shared.Config) (*Runtime, error) {
	rt := &Runtime{}
	csv := csvsource.New(cfg.HotelsCSV, cfg.ReviewsCSV, cfg.TestCSV)

	var ds domain.Dataset
	var err error
	switch cfg.DataSource {
	case "mysql":
		rt.db, err = sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err = rt.db.PingContext(ctx); err != nil {
			_ = rt.db.Close()
			return nil, fmt.Errorf("db.Ping: %w", err)
		}
		ds, err = mysqlrepo.New(rt.db).LoadDataset(ctx)
	default:
		ds, err = csv.LoadDataset(ctx)
	}
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	log.Info().Str("source", cfg.DataSource).Int("hotels", len(ds.Hotels)).Int("reviews", len(ds.Reviews)).Msg("base tables loaded")

	rt.Q = app.NewQueryService(ds)
	rt.I = app.NewInsightService(rt.Q, app.InsightConfig{
		TrendStart:    cfg.TrendStart,
		TopWords:      cfg.TopWords,
		CloudWords:    cfg.CloudWords,
		SampleSize:    cfg.SampleReviews,
		HistogramBins: 10,
	}, observability.Pipeline{})
	rt.E = loadEvaluation(ctx, csv, cfg)
	return rt, nil
}

func loadEvaluation(ctx context.Context, csv *csvsource.Source, cfg shared.Config) *app.EvaluationService {
	art, err := classifier.LoadArtifact(cfg.ModelPath, cfg.VectorizerPath)
	if err != nil {
		log.Warn().Err(err).Msg("classifier unavailable; evaluation disabled")
		return app.NewEvaluationService(nil, err, nil)
	}
	test, err := csv.LoadTest(ctx)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.TestCSV).Msg("test table unavailable; evaluation disabled")
		var le *domain.LoadError
		if !errors.As(err, &le) {
			err = &domain.LoadError{Path: cfg.TestCSV, Reason: "test table unavailable", Err: err}
		}
		return app.NewEvaluationService(nil, err, nil)
	}
	log.Info().Int("classes", len(art.Classes())).Int("test_rows", len(test)).Msg("classifier loaded")
	return app.NewEvaluationService(art, nil, test)
}
