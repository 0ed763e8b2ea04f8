package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmdql/cmdql/cli/internal/ui"
	"github.com/cmdql/cmdql/cli/internal/update"
	"github.com/cmdql/cmdql/cli/internal/version"
	"github.com/cmdql/cmdql/telemetry"
)

// NewVersionCommand creates the version command with an optional update
// check against GitHub releases.
func NewVersionCommand() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			telemetry.RecordCLI("version")
			info := version.Get()
			fmt.Println(info.FullString())

			if !check {
				return nil
			}
			newer, err := update.Check(info.Version)
			if err != nil {
				ui.Warning("update check failed: %v", err)
				return nil
			}
			if newer != "" {
				ui.Warning("version %s is available (running %s)", newer, info.Version)
			} else {
				ui.Success("up to date")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Check for a newer release")
	return cmd
}
