// ABOUTME: CLI command to run a full generation session
// ABOUTME: Streams chunk fragments to stdout and prints the coherence report
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/longform/internal/core"
	"github.com/harper/longform/internal/models"
)

var (
	generateSubject string
	generateLabel   string
	generateWords   int
	generateKind    string
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [prompt]",
		Short: "Generate a long-form document",
		Long: `Generate a long-form document from a prompt, streaming text as it
is written. Progress notes go to stderr; the document itself goes to
stdout.

Interrupting a generation (Ctrl-C) keeps completed chunks; pick the
session up later with 'longform resume'.

Examples:
  longform generate "On the nature of freedom" --subject spinoza --words 5000
  longform generate "Mind and body" --subject descartes --kind dialogue`,
		Args: cobra.ExactArgs(1),
		RunE: runGenerate,
	}

	cmd.Flags().StringVar(&generateSubject, "subject", "", "Library id of the subject to write as")
	cmd.Flags().StringVar(&generateLabel, "label", "", "Display name of the subject (defaults to --subject)")
	cmd.Flags().IntVar(&generateWords, "words", 2000, "Target document length in words")
	cmd.Flags().StringVar(&generateKind, "kind", "document", "Output format: chat, debate, interview, dialogue, or document")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	s, err := buildStack()
	if err != nil {
		return err
	}
	defer s.close()

	label := generateLabel
	if label == "" {
		label = generateSubject
	}

	session, err := s.orchestrator.Start(models.SessionKind(generateKind), generateSubject, label, args[0], generateWords)
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(os.Stderr, "Session %s started (%d words, %s)\n", session.ID, generateWords, generateKind)
	}

	return runToCompletion(cmd, s, session.ID)
}

// runToCompletion drives a session with an interrupt-aware context,
// streaming output per the global flags. Shared with resume.
func runToCompletion(cmd *cobra.Command, s *stack, sessionID string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var report *models.StitchReport
	sink := func(e core.Event) error {
		switch e.Type {
		case core.EventSkeleton:
			if verbose {
				fmt.Fprintf(os.Stderr, "Skeleton: %s\n", e.Text)
			}
		case core.EventChunkStart:
			if verbose {
				fmt.Fprintf(os.Stderr, "Chunk %d started (%d words)\n", e.ChunkIndex+1, e.TargetWords)
			}
		case core.EventFragment:
			fmt.Fprint(cmd.OutOrStdout(), e.Text)
		case core.EventChunkComplete:
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout())
			if !quiet {
				fmt.Fprintf(os.Stderr, "Chunk %d complete (%d/%d words)\n", e.ChunkIndex+1, e.RunningWords, e.TargetWords)
			}
		case core.EventShortfall:
			if !quiet {
				fmt.Fprintf(os.Stderr, "Short of target (%d/%d words), writing a supplemental section\n", e.RunningWords, e.TargetWords)
			}
		case core.EventReport:
			report = e.Report
		case core.EventFailure:
			fmt.Fprintf(os.Stderr, "Generation failed: %s\n", e.Text)
		}
		return nil
	}

	if err := s.orchestrator.Run(ctx, sessionID, sink); err != nil {
		if ctx.Err() != nil {
			fmt.Fprintf(os.Stderr, "Interrupted; resume with: longform resume %s\n", sessionID)
			return nil
		}
		return err
	}

	if report == nil {
		return nil
	}
	if outputFormat == "json" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	if !quiet {
		fmt.Fprintf(os.Stderr, "Done: %d words, coherence %s", report.TotalWords, report.CoherenceScore)
		if len(report.Conflicts) > 0 {
			fmt.Fprintf(os.Stderr, " (%d conflicts)", len(report.Conflicts))
		}
		fmt.Fprintln(os.Stderr)
		for _, c := range report.Conflicts {
			fmt.Fprintf(os.Stderr, "  - %s\n", c)
		}
	}
	return nil
}
