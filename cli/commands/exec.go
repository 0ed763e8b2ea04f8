package commands

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmdql/cmdql/cli/internal/config"
	"github.com/cmdql/cmdql/cli/internal/ui"
	"github.com/cmdql/cmdql/command"
	"github.com/cmdql/cmdql/executor"
	"github.com/cmdql/cmdql/sqlgen"
)

// NewExecCommand creates the exec command: translate a command file and
// run it against a live connection. The drivers themselves are linked
// into the binary via blank imports in main.
func NewExecCommand(cfg *config.Config) *cobra.Command {
	var (
		file     string
		driver   string
		url      string
		strategy string
	)

	cmd := &cobra.Command{
		Use:   "exec",
		Short: "Translate and execute a command file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if driver == "" {
				driver = cfg.Driver
			}
			if url == "" {
				url = cfg.DatabaseURL
			}
			if url == "" {
				return fmt.Errorf("no connection string: set --url or DATABASE_URL")
			}
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
				return err
			}
			tr, err := sqlgen.Translate(built)
			if err != nil {
				return err
			}
			return runExec(cmd, driver, url, built, tr)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "command.yaml", "Command file to execute")
	cmd.Flags().StringVar(&driver, "driver", "", "Driver: sqlserver, sqlite3, postgres or mysql")
	cmd.Flags().StringVar(&url, "url", "", "Connection string (defaults to DATABASE_URL)")
	cmd.Flags().StringVar(&strategy, "upsert-strategy", "", "Upsert strategy: merge or portable")
	return cmd
}

func runExec(cmd *cobra.Command, driver, url string, built command.Command, tr sqlgen.Translation) error {
	db, err := sql.Open(driver, url)
	if err != nil {
		return fmt.Errorf("open %s: %w", driver, err)
	}
	defer db.Close()

	exec := executor.NewDB(db, driver)
	defer exec.Close()
	ctx := cmd.Context()

	if built.ExpectedResult() == command.ResultNone {
		spinner := ui.Spinner("executing")
		result, err := exec.Exec(ctx, built, tr)
		spinner.Stop()
		if err != nil {
			return err
		}
		ui.Success("%s against %s: %d row(s) affected", built.Kind(), built.Target(), result.RowsAffected)
		return nil
	}

	spinner := ui.Spinner("executing")
	rows, err := exec.Query(ctx, built, tr)
	spinner.Stop()
	if err != nil {
		return err
	}
	defer rows.Close()
	return printRows(rows)
}

// printRows renders an arbitrary row set as a table, every value as its
// string form.
func printRows(rows *sql.Rows) error {
	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	var data [][]string
	for rows.Next() {
		raw := make([]sql.RawBytes, len(columns))
		targets := make([]any, len(columns))
		for i := range raw {
			targets[i] = &raw[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return err
		}
		row := make([]string, len(columns))
		for i, b := range raw {
			if b == nil {
				row[i] = "NULL"
			} else {
				row[i] = string(b)
			}
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(data) == 0 {
		ui.Info("no rows")
		return nil
	}
	ui.Table(columns, data)
	ui.Success("%d row(s)", len(data))
	return nil
}
