package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cmdql/cmdql/cli/internal/config"
	"github.com/cmdql/cmdql/cli/internal/ui"
	"github.com/cmdql/cmdql/cli/internal/watch"
	"github.com/cmdql/cmdql/command"
	"github.com/cmdql/cmdql/sqlgen"
	"github.com/cmdql/cmdql/telemetry"
)

// NewTranslateCommand creates the translate command: command file in,
// native text plus ordered parameters out.
func NewTranslateCommand(cfg *config.Config) *cobra.Command {
	var (
		file      string
		strategy  string
		asJSON    bool
		watchFile bool
	)

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate a command file to T-SQL",
		Long:  "Build the command described in a YAML file, validate it, and print the native text with its ordered parameters.",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, strategyName, err := generatorFor(cfg, strategy)
			if err != nil {
				return err
			}
			run := func() error {
				return translateOnce(gen, strategyName, cfg.Schema, file, asJSON)
			}
			if !watchFile {
				return run()
			}
			w, err := watch.New(file, run)
			if err != nil {
				return err
			}
			defer w.Stop()
			ui.Info("watching %s, ctrl-c to stop", file)
			return w.Start()
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "command.yaml", "Command file to translate")
	cmd.Flags().StringVar(&strategy, "upsert-strategy", "", "Upsert strategy: merge or portable")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the translation as JSON")
	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "Re-translate whenever the file changes")
	return cmd
}

func translateOnce(gen *sqlgen.Generator, strategy, defaultSchema, file string, asJSON bool) error {
	started := time.Now()
	cf, err := LoadCommandFile(file)
	if err != nil {
		return err
	}
	cmd, err := cf.Build(gen, defaultSchema)
	if err != nil {
		telemetry.RecordTranslation(cf.Kind, strategy, time.Since(started), failureCode(err))
		return err
	}
	tr, err := sqlgen.Translate(cmd)
	telemetry.RecordTranslation(cf.Kind, strategy, time.Since(started), failureCode(err))
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(cmd, tr)
	}
	ui.SQL(tr.Text)
	printParameters(tr.Parameters)
	ui.Success("%s against %s: %d parameter(s)", cmd.Kind(), cmd.Target(), len(tr.Parameters))
	return nil
}

func printParameters(params command.Parameters) {
	if len(params) == 0 {
		return
	}
	rows := make([][]string, len(params))
	for i, p := range params {
		rows[i] = []string{"@" + p.Name, fmt.Sprintf("%v", p.Value)}
	}
	ui.Table([]string{"Parameter", "Value"}, rows)
}

func printJSON(cmd command.Command, tr sqlgen.Translation) error {
	type param struct {
		Name  string `json:"name"`
		Value any    `json:"value"`
	}
	out := struct {
		Kind       string  `json:"kind"`
		Target     string  `json:"target"`
		Text       string  `json:"text"`
		Parameters []param `json:"parameters"`
	}{
		Kind:       cmd.Kind().String(),
		Target:     cmd.Target(),
		Text:       tr.Text,
		Parameters: make([]param, len(tr.Parameters)),
	}
	for i, p := range tr.Parameters {
		out.Parameters[i] = param{Name: p.Name, Value: p.Value}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// failureCode maps an error to its taxonomy code for telemetry; plain
// errors report as "error", success as "".
func failureCode(err error) string {
	if err == nil {
		return ""
	}
	if f, ok := command.AsFailure(err); ok {
		return string(f.Code)
	}
	return "error"
}
