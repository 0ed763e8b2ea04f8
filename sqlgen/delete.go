package sqlgen

import (
	"strings"

	"github.com/cmdql/cmdql/command"
	"github.com/cmdql/cmdql/predicate"
)

// DeleteSpec describes one DELETE statement.
type DeleteSpec struct {
	Target Target
	Where  predicate.Node
	Output bool // OUTPUT DELETED.*
}

// Delete renders DELETE FROM <target> [OUTPUT DELETED.*] [WHERE ...].
// As with Update, an unguarded statement renders but fails Validate unless
// the command carries AllowFullTableOperation; only the DeleteAll factory
// sets that flag on its own.
func (g *Generator) Delete(spec DeleteSpec) (string, command.Parameters, error) {
	target, err := spec.Target.quoted()
	if err != nil {
		return "", nil, err
	}
	output, err := outputClause("DELETED", spec.Output, nil)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(target)
	sb.WriteString(output)

	var params command.Parameters
	if spec.Where != nil {
		fragment, whereParams, err := TranslateExpression(spec.Where)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(fragment)
		params = whereParams
	}
	return sb.String(), params, nil
}
