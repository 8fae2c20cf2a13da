package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hotel_insight/internal/adapters/cli"
	"hotel_insight/internal/adapters/observability"
	"hotel_insight/internal/bootstrap"
	"hotel_insight/internal/shared"
)

func main() {
	cfg := shared.Load()

	// logs go to stdout in the API; keep the terminal report clean here
	log.Logger = observability.NewLogger(cfg.AppEnv).Level(zerolog.WarnLevel)

	rt, err := bootstrap.Load(context.Background(), cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer rt.Close()

	if err := cli.Execute(&cli.Services{Q: rt.Q, I: rt.I, E: rt.E, TopHotels: cfg.TopHotels}); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		rt.Close()
		os.Exit(1)
	}
}
