package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	hotelsLimit int
	hotelsJSON  bool
)

var hotelsCmd = &cobra.Command{
	Use:   "hotels",
	Short: "List hotels in ordinal order",
	Args:  cobra.NoArgs,
	RunE:  runHotels,
}

func init() {
	hotelsCmd.Flags().IntVarP(&hotelsLimit, "limit", "n", 0, "maximum number of hotels (default TOP_HOTELS)")
	hotelsCmd.Flags().BoolVar(&hotelsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(hotelsCmd)
}

func runHotels(cmd *cobra.Command, _ []string) error {
	s, err := requireServices()
	if err != nil {
		return err
	}
	limit := hotelsLimit
	if limit == 0 {
		limit = s.TopHotels
	}
	hotels := s.Q.TopHotels(limit)

	if hotelsJSON {
		data, err := json.MarshalIndent(hotels, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal hotels: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	out := cmd.OutOrStdout()
	if len(hotels) == 0 {
		fmt.Fprintln(out, "No hotels found.")
		return nil
	}
	for _, h := range hotels {
		score := "-"
		if h.TotalScore != nil {
			score = fmt.Sprintf("%.1f", *h.TotalScore)
		}
		fmt.Fprintf(out, "  %3d  %-12s %-40s %5s\n", h.Num, h.ID, truncate(h.Name, 40), score)
	}
	return nil
}
