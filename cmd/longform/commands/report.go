// ABOUTME: CLI command to show a session's coherence report
// ABOUTME: Prints totals, score, and any detected conflicts
package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/longform/internal/models"
	"github.com/harper/longform/internal/storage"
)

// NewReportCmd creates the report command
func NewReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report [session-id]",
		Short: "Show the coherence report for a completed session",
		Long: `Show the stitch report for a completed session: total words,
the coherence score, and every conflict detected across its chunks.

Examples:
  longform report session_20260830_142501_a1b2c3d4
  longform report session_20260830_142501_a1b2c3d4 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: runReport,
	}
}

func runReport(cmd *cobra.Command, args []string) error {
	_, charmClient, store, err := openStore()
	if err != nil {
		return err
	}
	defer charmClient.Close()

	report, err := store.GetReport(args[0])
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no report for session %s; has it completed?", args[0])
	}
	if err != nil {
		return fmt.Errorf("loading report: %w", err)
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Session:   %s\n", report.SessionID)
	fmt.Fprintf(cmd.OutOrStdout(), "Words:     %d\n", report.TotalWords)
	fmt.Fprintf(cmd.OutOrStdout(), "Coherence: %s\n", report.CoherenceScore)
	if report.CoherenceScore == models.ScoreNeedsRepair {
		fmt.Fprintf(cmd.OutOrStdout(), "Conflicts (%d):\n", len(report.Conflicts))
		for _, c := range report.Conflicts {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", c)
		}
	}
	return nil
}
