package commands

import (
	"github.com/spf13/cobra"

	"github.com/cmdql/cmdql/cli/internal/config"
	"github.com/cmdql/cmdql/cli/internal/ui"
	"github.com/cmdql/cmdql/command"
)

// NewValidateCommand creates the validate command. It builds the command
// file and reports the validation outcome without printing any SQL.
func NewValidateCommand(cfg *config.Config) *cobra.Command {
	var (
		file     string
		strategy string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a command file",
		Long:  "Build the command described in a YAML file and report the first structural violation, if any.",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, _, err := generatorFor(cfg, strategy)
			if err != nil {
				return err
			}
			cf, err := LoadCommandFile(file)
			if err != nil {
				return err
			}
			built, err := cf.Build(gen, cfg.Schema)
			if err != nil {
				if f, ok := command.AsFailure(err); ok {
					ui.Error("%s: %s", f.Code, f.Message)
					return err
				}
				return err
			}
			ui.Success("%s against %s is valid", built.Kind(), built.Target())
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "command.yaml", "Command file to validate")
	cmd.Flags().StringVar(&strategy, "upsert-strategy", "", "Upsert strategy: merge or portable")
	return cmd
}
