// Package cli is the terminal front end: hotel listing, per-hotel reports
// and the classifier evaluation report.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"hotel_insight/internal/app"
)

// Services are the use cases the commands drive.
type Services struct {
	Q         *app.QueryService
	I         *app.InsightService
	E         *app.EvaluationService
	TopHotels int
}

var services *Services

var rootCmd = &cobra.Command{
	Use:           "insight",
	Short:         "Hotel review sentiment insights",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree against s.
func Execute(s *Services) error {
	services = s
	return rootCmd.Execute()
}

func requireServices() (*Services, error) {
	if services == nil || services.Q == nil {
		return nil, errors.New("services not configured")
	}
	return services, nil
}
