package sqlgen

import (
	"strings"

	"github.com/cmdql/cmdql/command"
	"github.com/cmdql/cmdql/predicate"
)

// UpdateSpec describes one UPDATE statement. SET columns bind parameters
// named after the column; the WHERE predicate mints its own p-sequence.
type UpdateSpec struct {
	Target  Target
	Columns []string
	Values  []any
	Where   predicate.Node
	Output  bool // OUTPUT INSERTED.*
}

// Update renders UPDATE <target> SET ... [OUTPUT INSERTED.*] WHERE ...
// A nil Where produces an unguarded statement; Validate rejects it later
// unless AllowFullTableOperation is set, so an accidental full-table
// update never reaches an executor.
func (g *Generator) Update(spec UpdateSpec) (string, command.Parameters, error) {
	if len(spec.Columns) == 0 {
		return "", nil, command.NewFailure(command.CodeEmptyCommandText,
			"update of %q sets no columns", spec.Target.Name)
	}
	if len(spec.Values) != len(spec.Columns) {
		panic("sqlgen: update column/value count mismatch")
	}
	target, err := spec.Target.quoted()
	if err != nil {
		return "", nil, err
	}
	output, err := outputClause("INSERTED", spec.Output, nil)
	if err != nil {
		return "", nil, err
	}

	params := make(command.Parameters, len(spec.Columns))
	assignments := make([]string, len(spec.Columns))
	for i, col := range spec.Columns {
		quoted, err := quoteColumn(col)
		if err != nil {
			return "", nil, err
		}
		params[i] = command.Param(col, spec.Values[i])
		assignments[i] = quoted + " = " + placeholder(col)
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(target)
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(assignments, ", "))
	sb.WriteString(output)

	if spec.Where != nil {
		fragment, whereParams, err := TranslateExpression(spec.Where)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(fragment)
		params = append(params, whereParams...)
	}
	return sb.String(), params, nil
}
