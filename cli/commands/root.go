// Package commands implements the cmdql CLI commands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/cmdql/cmdql/cli/internal/config"
	"github.com/cmdql/cmdql/cli/internal/ui"
	"github.com/cmdql/cmdql/cli/internal/version"
	"github.com/cmdql/cmdql/sqlgen"
	"github.com/cmdql/cmdql/telemetry"
)

// Execute loads configuration, wires the command tree and runs it.
func Execute() error {
	cfg, err := config.Load()
	if err != nil {
		ui.Error("config: %v", err)
		return err
	}

	telemetry.Init(version.Version, cfg.Telemetry)
	defer telemetry.Shutdown()

	root := &cobra.Command{
		Use:           "cmdql",
		Short:         "Typed command translation for SQL Server",
		Long:          "cmdql turns command descriptions into parameterized T-SQL with ordered, named parameters.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		NewTranslateCommand(cfg),
		NewValidateCommand(cfg),
		NewExecCommand(cfg),
		NewInitCommand(),
		NewDocsCommand(),
		NewVersionCommand(),
	)

	if err := root.Execute(); err != nil {
		ui.Error("%v", err)
		return err
	}
	return nil
}

// generatorFor builds the statement generator from configuration plus an
// optional per-invocation strategy override.
func generatorFor(cfg *config.Config, strategyFlag string) (*sqlgen.Generator, string, error) {
	name := cfg.UpsertStrategy
	if strategyFlag != "" {
		name = strategyFlag
	}
	if name == "" {
		name = sqlgen.UpsertMerge.String()
	}
	strategy, err := sqlgen.ParseUpsertStrategy(name)
	if err != nil {
		return nil, "", err
	}
	return sqlgen.NewGenerator(sqlgen.WithUpsertStrategy(strategy)), strategy.String(), nil
}
