package commands

import (
	"github.com/spf13/cobra"

	"github.com/cmdql/cmdql/cli/internal/ui"
	"github.com/cmdql/cmdql/docs"
	"github.com/cmdql/cmdql/telemetry"
)

// NewDocsCommand creates the docs command, rendering the embedded
// reference to the terminal.
func NewDocsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "docs",
		Short: "Show the command file and filter language reference",
		RunE: func(cmd *cobra.Command, args []string) error {
			telemetry.RecordCLI("docs")
			return ui.Markdown(docs.Reference)
		},
	}
}
