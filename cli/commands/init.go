package commands

import (
	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/cmdql/cmdql/cli/internal/config"
	"github.com/cmdql/cmdql/cli/internal/ui"
	"github.com/cmdql/cmdql/telemetry"
)

// NewInitCommand creates the interactive init command, which writes the
// user's answers to ~/.config/cmdql/.cmdql.yaml.
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the cmdql configuration interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			telemetry.RecordCLI("init")
			ui.Header("cmdql", "typed command translation")

			answers := struct {
				Driver    string
				Schema    string
				Strategy  string
				Telemetry bool
			}{}
			questions := []*survey.Question{
				{
					Name: "driver",
					Prompt: &survey.Select{
						Message: "Default driver:",
						Options: []string{"sqlserver", "sqlite3", "postgres", "mysql"},
						Default: "sqlserver",
					},
				},
				{
					Name:   "schema",
					Prompt: &survey.Input{Message: "Default schema (empty for none):"},
				},
				{
					Name: "strategy",
					Prompt: &survey.Select{
						Message: "Upsert strategy:",
						Options: []string{"merge", "portable"},
						Default: "merge",
						Help:    "merge renders a native MERGE; portable renders IF EXISTS ... UPDATE ... ELSE INSERT",
					},
				},
				{
					Name:   "telemetry",
					Prompt: &survey.Confirm{Message: "Enable anonymous usage telemetry?", Default: false},
				},
			}
			if err := survey.Ask(questions, &answers); err != nil {
				return err
			}

			cfg := &config.Config{
				Driver:         answers.Driver,
				Schema:         answers.Schema,
				UpsertStrategy: answers.Strategy,
				Telemetry:      answers.Telemetry,
			}
			if err := config.Save(cfg); err != nil {
				return err
			}
			ui.Success("configuration written")
			return nil
		},
	}
}
