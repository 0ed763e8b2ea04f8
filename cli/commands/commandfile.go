package commands

import (
	"fmt"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/cmdql/cmdql/cli/internal/config"
	"github.com/cmdql/cmdql/command"
	"github.com/cmdql/cmdql/predicate"
	"github.com/cmdql/cmdql/predicate/dsl"
	"github.com/cmdql/cmdql/sqlgen"
)

// ColumnValue is one ordered (name, value) pair. A YAML sequence keeps
// column order, which a mapping would not.
type ColumnValue struct {
	Name  string `yaml:"name"`
	Value any    `yaml:"value"`
}

// OrderingSpec is one ORDER BY element in a command file.
type OrderingSpec struct {
	Column string `yaml:"column"`
	Desc   bool   `yaml:"desc,omitempty"`
}

// CommandFile is the YAML description the translate, validate and exec
// commands consume. Either Text (the raw path) or Columns/Rows/Where
// (the built path) drives the statement.
type CommandFile struct {
	Kind   string `yaml:"kind"`
	Table  string `yaml:"table"`
	Schema string `yaml:"schema,omitempty"`

	// Raw path: caller-written native text plus its parameters.
	Text   string        `yaml:"text,omitempty"`
	Params []ColumnValue `yaml:"params,omitempty"`

	// Built path.
	Columns []ColumnValue   `yaml:"columns,omitempty"`
	Rows    [][]ColumnValue `yaml:"rows,omitempty"`
	Keys    []string        `yaml:"keys,omitempty"`
	Select  []string        `yaml:"select,omitempty"`
	Where   string          `yaml:"where,omitempty"`
	OrderBy []OrderingSpec  `yaml:"orderBy,omitempty"`
	Skip    int             `yaml:"skip,omitempty"`
	Take    int             `yaml:"take,omitempty"`

	NoOutput       bool `yaml:"noOutput,omitempty"`
	AllowFullTable bool `yaml:"allowFullTable,omitempty"`
	TimeoutSeconds int  `yaml:"timeoutSeconds,omitempty"`
}

// LoadCommandFile reads and decodes a command file.
func LoadCommandFile(path string) (*CommandFile, error) {
	data, err := afero.ReadFile(config.AppFs, path)
	if err != nil {
		return nil, err
	}
	var cf CommandFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cf.Kind == "" {
		return nil, fmt.Errorf("%s: missing kind", path)
	}
	return &cf, nil
}

// Build turns the description into a validated command. defaultSchema
// applies when the file sets none.
func (cf *CommandFile) Build(gen *sqlgen.Generator, defaultSchema string) (command.Command, error) {
	kind, err := command.ParseKind(cf.Kind)
	if err != nil {
		return command.Command{}, err
	}
	schema := cf.Schema
	if schema == "" {
		schema = defaultSchema
	}

	if cf.Text != "" {
		return cf.finish(kind, cf.Text, paramList(cf.Params), schema)
	}

	target := sqlgen.Target{Schema: schema, Name: cf.Table}
	where, err := cf.compileWhere()
	if err != nil {
		return command.Command{}, err
	}

	var text string
	var params command.Parameters
	switch kind {
	case command.KindQuery:
		text, params, err = gen.Select(sqlgen.SelectSpec{
			Target:  target,
			Columns: cf.Select,
			Where:   where,
			OrderBy: cf.orderings(),
			Page:    cf.page(),
		})
	case command.KindInsert:
		if len(cf.Rows) > 0 {
			names, rows, rowsErr := cf.rowValues()
			if rowsErr != nil {
				return command.Command{}, rowsErr
			}
			text, params, err = gen.InsertMany(sqlgen.InsertManySpec{
				Target:  target,
				Columns: names,
				Rows:    rows,
				Output:  !cf.NoOutput,
			})
		} else {
			text, params, err = gen.Insert(sqlgen.InsertSpec{
				Target:  target,
				Columns: names(cf.Columns),
				Values:  values(cf.Columns),
				Output:  !cf.NoOutput,
			})
		}
	case command.KindUpdate:
		text, params, err = gen.Update(sqlgen.UpdateSpec{
			Target:  target,
			Columns: names(cf.Columns),
			Values:  values(cf.Columns),
			Where:   where,
			Output:  !cf.NoOutput,
		})
	case command.KindDelete:
		text, params, err = gen.Delete(sqlgen.DeleteSpec{
			Target: target,
			Where:  where,
			Output: !cf.NoOutput,
		})
	case command.KindUpsert:
		if len(cf.Rows) > 0 {
			colNames, rows, rowsErr := cf.rowValues()
			if rowsErr != nil {
				return command.Command{}, rowsErr
			}
			text, params, err = gen.UpsertMany(sqlgen.UpsertManySpec{
				Target:     target,
				Columns:    colNames,
				Rows:       rows,
				KeyColumns: cf.Keys,
				Output:     !cf.NoOutput,
			})
		} else {
			text, params, err = gen.Upsert(sqlgen.UpsertSpec{
				Target:     target,
				Columns:    names(cf.Columns),
				Values:     values(cf.Columns),
				KeyColumns: cf.Keys,
				Output:     !cf.NoOutput,
			})
		}
	}
	if err != nil {
		return command.Command{}, err
	}
	return cf.finish(kind, text, params, schema)
}

func (cf *CommandFile) finish(kind command.Kind, text string, params command.Parameters, schema string) (command.Command, error) {
	cmd := command.New(kind, cf.Table, text, params)
	if schema != "" {
		cmd = cmd.WithMetadata(command.MetaSchema, schema)
	}
	if cf.AllowFullTable {
		cmd = cmd.WithMetadata(command.MetaAllowFullTableOperation, true)
	}
	if cf.TimeoutSeconds != 0 {
		cmd = cmd.WithTimeout(time.Duration(cf.TimeoutSeconds) * time.Second)
	}
	if err := cmd.Validate(); err != nil {
		return command.Command{}, err
	}
	return cmd, nil
}

func (cf *CommandFile) compileWhere() (predicate.Node, error) {
	if cf.Where == "" {
		return nil, nil
	}
	return dsl.Compile(cf.Where)
}

func (cf *CommandFile) orderings() []predicate.Ordering {
	out := make([]predicate.Ordering, len(cf.OrderBy))
	for i, o := range cf.OrderBy {
		if o.Desc {
			out[i] = predicate.Desc(o.Column)
		} else {
			out[i] = predicate.Asc(o.Column)
		}
	}
	return out
}

func (cf *CommandFile) page() *predicate.Page {
	if cf.Skip == 0 && cf.Take == 0 {
		return nil
	}
	return &predicate.Page{Skip: cf.Skip, Take: cf.Take}
}

// rowValues flattens the bulk rows, checking every row against the first
// row's column names.
func (cf *CommandFile) rowValues() ([]string, [][]any, error) {
	first := names(cf.Rows[0])
	rows := make([][]any, len(cf.Rows))
	for i, row := range cf.Rows {
		if len(row) != len(first) {
			return nil, nil, fmt.Errorf("row %d has %d columns, want %d", i, len(row), len(first))
		}
		for j, cv := range row {
			if cv.Name != first[j] {
				return nil, nil, fmt.Errorf("row %d column %d is %q, want %q", i, j, cv.Name, first[j])
			}
		}
		rows[i] = values(row)
	}
	return first, rows, nil
}

func names(columns []ColumnValue) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.Name
	}
	return out
}

func values(columns []ColumnValue) []any {
	out := make([]any, len(columns))
	for i, c := range columns {
		out[i] = c.Value
	}
	return out
}

func paramList(columns []ColumnValue) command.Parameters {
	out := make(command.Parameters, len(columns))
	for i, c := range columns {
		out[i] = command.Param(c.Name, c.Value)
	}
	return out
}
