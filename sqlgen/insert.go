package sqlgen

import (
	"strconv"
	"strings"

	"github.com/cmdql/cmdql/command"
)

// InsertSpec describes one single-row INSERT statement. Values[i] binds to
// Columns[i]; the two lists always have equal length and matching order.
type InsertSpec struct {
	Target        Target
	Columns       []string
	Values        []any
	Output        bool     // OUTPUT INSERTED.*
	OutputColumns []string // explicit OUTPUT columns, wins over Output
}

// Insert renders INSERT INTO <target> (<cols>) [OUTPUT ...] VALUES (...).
// Each column binds a parameter carrying the column's own name, so the
// placeholder list mirrors the column list exactly.
func (g *Generator) Insert(spec InsertSpec) (string, command.Parameters, error) {
	if len(spec.Columns) == 0 {
		return "", nil, command.NewFailure(command.CodeEmptyCommandText,
			"insert into %q has no columns", spec.Target.Name)
	}
	if len(spec.Values) != len(spec.Columns) {
		panic("sqlgen: insert column/value count mismatch")
	}
	target, err := spec.Target.quoted()
	if err != nil {
		return "", nil, err
	}
	quoted, err := quoteColumns(spec.Columns)
	if err != nil {
		return "", nil, err
	}
	output, err := outputClause("INSERTED", spec.Output, spec.OutputColumns)
	if err != nil {
		return "", nil, err
	}

	params := make(command.Parameters, len(spec.Columns))
	holders := make([]string, len(spec.Columns))
	for i, col := range spec.Columns {
		params[i] = command.Param(col, spec.Values[i])
		holders[i] = placeholder(col)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(target)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(quoted, ", "))
	sb.WriteString(")")
	sb.WriteString(output)
	sb.WriteString(" VALUES (")
	sb.WriteString(strings.Join(holders, ", "))
	sb.WriteString(")")
	return sb.String(), params, nil
}

// InsertManySpec describes a multi-row INSERT. Every row has one value per
// column, in column order.
type InsertManySpec struct {
	Target  Target
	Columns []string
	Rows    [][]any
	Output  bool
}

// InsertMany renders one INSERT with one VALUES tuple per row. Parameter
// names carry a row suffix (Col_0, Col_1, ...) so every binding stays
// unique while the tuple shape repeats.
func (g *Generator) InsertMany(spec InsertManySpec) (string, command.Parameters, error) {
	if len(spec.Columns) == 0 || len(spec.Rows) == 0 {
		return "", nil, command.NewFailure(command.CodeEmptyCommandText,
			"bulk insert into %q has no columns or no rows", spec.Target.Name)
	}
	target, err := spec.Target.quoted()
	if err != nil {
		return "", nil, err
	}
	quoted, err := quoteColumns(spec.Columns)
	if err != nil {
		return "", nil, err
	}
	output, err := outputClause("INSERTED", spec.Output, nil)
	if err != nil {
		return "", nil, err
	}

	params := make(command.Parameters, 0, len(spec.Rows)*len(spec.Columns))
	tuples := make([]string, len(spec.Rows))
	for r, row := range spec.Rows {
		if len(row) != len(spec.Columns) {
			panic("sqlgen: bulk insert row " + strconv.Itoa(r) + " column/value count mismatch")
		}
		holders := make([]string, len(spec.Columns))
		for i, col := range spec.Columns {
			name := col + "_" + strconv.Itoa(r)
			params = append(params, command.Param(name, row[i]))
			holders[i] = placeholder(name)
		}
		tuples[r] = "(" + strings.Join(holders, ", ") + ")"
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(target)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(quoted, ", "))
	sb.WriteString(")")
	sb.WriteString(output)
	sb.WriteString(" VALUES ")
	sb.WriteString(strings.Join(tuples, ", "))
	return sb.String(), params, nil
}
