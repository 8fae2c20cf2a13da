package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var reportJSON bool

var reportCmd = &cobra.Command{
	Use:   "report [hotel-id]",
	Short: "Print the insight report of one hotel",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score the classifier against the held-out test table",
	Args:  cobra.NoArgs,
	RunE:  runEvaluate,
}

func init() {
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(reportCmd, evaluateCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	s, err := requireServices()
	if err != nil {
		return err
	}
	if s.I == nil {
		return errors.New("insight service not configured")
	}
	b := s.I.Insights(args[0])
	if reportJSON {
		data, err := json.MarshalIndent(b, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	PrintInsightReport(cmd.OutOrStdout(), b)
	return nil
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	s, err := requireServices()
	if err != nil {
		return err
	}
	if s.E == nil {
		return errors.New("evaluation service not configured")
	}
	rep, err := s.E.Report()
	if err != nil {
		return fmt.Errorf("evaluation unavailable: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Accuracy: %.4f\n\n", rep.Accuracy)
	fmt.Fprint(out, rep.Text)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Confusion matrix (rows actual, columns predicted):")
	for i, row := range rep.Confusion {
		fmt.Fprintf(out, "  %-12s", truncate(string(rep.Labels[i]), 12))
		for _, n := range row {
			fmt.Fprintf(out, " %6d", n)
		}
		fmt.Fprintln(out)
	}
	return nil
}
