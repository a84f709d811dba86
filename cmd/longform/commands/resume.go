// ABOUTME: CLI command to resume an interrupted generation session
// ABOUTME: Picks up after the last persisted chunk without re-extracting the skeleton
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewResumeCmd creates the resume command
func NewResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume [session-id]",
		Short: "Resume an interrupted generation session",
		Long: `Resume a session that was interrupted or whose consumer went away.
Generation continues after the last completed chunk; already-written
text is not regenerated.

Examples:
  longform resume session_20260830_142501_a1b2c3d4`,
		Args: cobra.ExactArgs(1),
		RunE: runResume,
	}
}

func runResume(cmd *cobra.Command, args []string) error {
	s, err := buildStack()
	if err != nil {
		return err
	}
	defer s.close()

	sessionID := args[0]
	session, err := s.store.GetSession(sessionID)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if session.Terminal() {
		return fmt.Errorf("session %s is already %s", sessionID, session.Status)
	}

	if !quiet {
		fmt.Fprintf(os.Stderr, "Resuming %s at chunk %d (%d/%d words so far)\n",
			sessionID, len(session.Chunks)+1, session.ActualWords, session.TargetWords)
	}
	return runToCompletion(cmd, s, sessionID)
}
