// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Defines the longform command tree and output format handling
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
██╗      ██████╗ ███╗   ██╗ ██████╗ ███████╗ ██████╗ ██████╗ ███╗   ███╗
██║     ██╔═══██╗████╗  ██║██╔════╝ ██╔════╝██╔═══██╗██╔══██╗████╗ ████║
██║     ██║   ██║██╔██╗ ██║██║  ███╗█████╗  ██║   ██║██████╔╝██╔████╔██║
██║     ██║   ██║██║╚██╗██║██║   ██║██╔══╝  ██║   ██║██╔══██╗██║╚██╔╝██║
███████╗╚██████╔╝██║ ╚████║╚██████╔╝██║     ╚██████╔╝██║  ██║██║ ╚═╝ ██║
╚══════╝ ╚═════╝ ╚═╝  ╚═══╝ ╚═════╝ ╚═╝      ╚═════╝ ╚═╝  ╚═╝╚═╝     ╚═╝
`

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "longform",
		Short: "Generate long coherent documents in a thinker's voice",
		Long: banner + `
Longform generates book-length philosophical texts that stay coherent
from the first page to the last. A structural skeleton is extracted
once, then bounded chunks are written against it, each one checked for
drift from the text's thesis and commitments.

Sessions persist across interruptions: a stopped generation resumes
after its last completed chunk.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, text, or json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewResumeCmd())
	cmd.AddCommand(NewSessionsCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
