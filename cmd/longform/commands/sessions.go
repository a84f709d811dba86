// ABOUTME: CLI command to list sessions and show one session's text
// ABOUTME: Tabular summary by default, full JSON record with --format json
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/longform/internal/models"
)

// NewSessionsCmd creates the sessions command
func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions [session-id]",
		Short: "List generation sessions or show one",
		Long: `List all generation sessions, newest first. With a session id,
print that session's assembled text.

Examples:
  longform sessions
  longform sessions --format json
  longform sessions session_20260830_142501_a1b2c3d4`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSessions,
	}
	return cmd
}

func runSessions(cmd *cobra.Command, args []string) error {
	_, charmClient, store, err := openStore()
	if err != nil {
		return err
	}
	defer charmClient.Close()

	if len(args) == 1 {
		session, err := store.GetSession(args[0])
		if err != nil {
			return fmt.Errorf("loading session: %w", err)
		}
		if outputFormat == "json" {
			data, err := json.MarshalIndent(session, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		for _, chunk := range session.Chunks {
			if chunk.Status == models.ChunkComplete {
				fmt.Fprintln(cmd.OutOrStdout(), chunk.Text)
				fmt.Fprintln(cmd.OutOrStdout())
			}
		}
		return nil
	}

	sessions, err := store.ListSessions()
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(sessions, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tSUBJECT\tKIND\tSTATUS\tWORDS\tUPDATED")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%s\n",
			s.ID, truncate(s.SubjectLabel, 20), s.Kind, s.Status,
			s.ActualWords, s.TargetWords, formatTime(s.UpdatedAt))
	}
	return w.Flush()
}
