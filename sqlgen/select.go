package sqlgen

import (
	"strconv"
	"strings"

	"github.com/cmdql/cmdql/command"
	"github.com/cmdql/cmdql/predicate"
)

// SelectSpec describes one SELECT statement.
type SelectSpec struct {
	Target  Target
	Columns []string // empty means *
	Where   predicate.Node
	OrderBy []predicate.Ordering
	Page    *predicate.Page
}

// Select renders a SELECT statement. Paging without an explicit ordering
// synthesizes ORDER BY (SELECT NULL): OFFSET/FETCH requires an ORDER BY,
// and a caller asking for a page of an unordered set gets the provider's
// arbitrary-but-valid order rather than an error.
func (g *Generator) Select(spec SelectSpec) (string, command.Parameters, error) {
	target, err := spec.Target.quoted()
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(spec.Columns) == 0 {
		sb.WriteString("*")
	} else {
		quoted, err := quoteColumns(spec.Columns)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(strings.Join(quoted, ", "))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(target)

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

	paged := spec.Page != nil && (spec.Page.Skip > 0 || spec.Page.Take > 0)
	if len(spec.OrderBy) > 0 {
		clause, err := orderByClause(spec.OrderBy)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(clause)
	} else if paged {
		sb.WriteString(" ORDER BY (SELECT NULL)")
	}

	if paged {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.Itoa(spec.Page.Skip))
		sb.WriteString(" ROWS")
		if spec.Page.Take > 0 {
			sb.WriteString(" FETCH NEXT ")
			sb.WriteString(strconv.Itoa(spec.Page.Take))
			sb.WriteString(" ROWS ONLY")
		}
	}

	return sb.String(), params, nil
}

// orderByClause renders " ORDER BY ..." for a non-empty ordering list.
func orderByClause(orderBy []predicate.Ordering) (string, error) {
	var sb strings.Builder
	sb.WriteString(" ORDER BY ")
	for i, o := range orderBy {
		quoted, err := quoteColumn(o.Column)
		if err != nil {
			return "", err
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(quoted)
		if o.Direction == predicate.Descending {
			sb.WriteString(" DESC")
		}
	}
	return sb.String(), nil
}
