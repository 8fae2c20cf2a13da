package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "hotel_insight/internal/adapters/http_server"
	"hotel_insight/internal/adapters/observability"
	"hotel_insight/internal/bootstrap"
	"hotel_insight/internal/domain"
	"hotel_insight/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	if ms := observability.Serve(cfg.MetricsAddr, reg); ms != nil {
		defer ms.Close()
	}

	rt, err := bootstrap.Load(ctx, cfg)
	if err != nil {
		var se *domain.SchemaError
		if errors.As(err, &se) {
			log.Fatal().Str("table", se.Table).Strs("missing", se.Missing).Msg("input schema mismatch")
		}
		log.Fatal().Err(err).Msg("load base tables failed")
	}
	defer rt.Close()

	// http
	srv := server.New(server.Options{Timeout: cfg.RequestTimeout, RateLimitRPS: cfg.RateLimitRPS})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: rt.Q, I: rt.I, E: rt.E, TopHotels: cfg.TopHotels, Samples: cfg.SampleReviews})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
