package sqlgen

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/cmdql/cmdql/command"
	"github.com/cmdql/cmdql/predicate"
)

// TranslateExpression renders a predicate description to a text fragment
// plus the parameters it binds. Constants become parameters named p0, p1, …
// in left-to-right visit order; the counter lives on the stack of this one
// call, so concurrent translations cannot interfere and repeated
// translation of the same tree yields identical output.
func TranslateExpression(node predicate.Node) (string, command.Parameters, error) {
	if node == nil {
		panic("sqlgen: nil predicate")
	}
	tr := exprTranslator{}
	text, err := tr.visit(node)
	if err != nil {
		return "", nil, err
	}
	return text, tr.params, nil
}

type exprTranslator struct {
	params command.Parameters
	next   int
}

// mint assigns the next synthetic parameter name to value and returns its
// placeholder.
func (t *exprTranslator) mint(value any) string {
	name := fmt.Sprintf("p%d", t.next)
	t.next++
	t.params = append(t.params, command.Param(name, value))
	return placeholder(name)
}

func (t *exprTranslator) visit(node predicate.Node) (string, error) {
	switch n := node.(type) {
	case *predicate.Compare:
		return t.visitCompare(n)
	case *predicate.Logical:
		return t.visitLogical(n)
	case *predicate.Not:
		return t.visitNot(n)
	case *predicate.Call:
		return t.visitCall(n)
	case predicate.Field, predicate.Value:
		return "", command.NewFailure(command.CodeUnsupportedExpressionKind,
			"%T is not a boolean expression", n)
	case nil:
		return "", command.NewFailure(command.CodeUnsupportedExpressionKind,
			"predicate tree contains a nil node")
	default:
		return "", command.NewFailure(command.CodeUnsupportedExpressionKind,
			"unrecognized expression kind %T", n)
	}
}

func (t *exprTranslator) visitCompare(n *predicate.Compare) (string, error) {
	switch n.Op {
	case predicate.OpEqual, predicate.OpNotEqual,
		predicate.OpGreater, predicate.OpGreaterOrEqual,
		predicate.OpLess, predicate.OpLessOrEqual:
	default:
		return "", command.NewFailure(command.CodeUnsupportedOperator,
			"comparison operator %q is not supported", string(n.Op))
	}

	left, err := t.operand(n.Left)
	if err != nil {
		return "", err
	}

	// Equality against a nil constant renders as a NULL test; "= NULL"
	// never matches in SQL and is never what the caller meant.
	if v, ok := n.Right.(predicate.Value); ok && v.V == nil {
		switch n.Op {
		case predicate.OpEqual:
			return left + " IS NULL", nil
		case predicate.OpNotEqual:
			return left + " IS NOT NULL", nil
		}
	}

	right, err := t.operand(n.Right)
	if err != nil {
		return "", err
	}
	return left + " " + string(n.Op) + " " + right, nil
}

func (t *exprTranslator) visitLogical(n *predicate.Logical) (string, error) {
	if n.Op != predicate.OpAnd && n.Op != predicate.OpOr {
		return "", command.NewFailure(command.CodeUnsupportedOperator,
			"logical operator %q is not supported", string(n.Op))
	}
	left, err := t.visit(n.Left)
	if err != nil {
		return "", err
	}
	right, err := t.visit(n.Right)
	if err != nil {
		return "", err
	}
	return "(" + left + " " + string(n.Op) + " " + right + ")", nil
}

func (t *exprTranslator) visitNot(n *predicate.Not) (string, error) {
	inner, err := t.visit(n.Inner)
	if err != nil {
		return "", err
	}
	return "NOT (" + inner + ")", nil
}

func (t *exprTranslator) visitCall(n *predicate.Call) (string, error) {
	switch recv := n.Recv.(type) {
	case predicate.Field:
		return t.stringMatch(n, recv)
	case predicate.Value:
		return t.membership(n, recv)
	default:
		return "", command.NewFailure(command.CodeUnsupportedExpressionKind,
			"method call receiver %T is neither a field nor a constant collection", n.Recv)
	}
}

// stringMatch renders field.Contains/StartsWith/EndsWith(constant) as a
// LIKE against a parameterized pattern. The wildcards travel inside the
// parameter value, never inside the text, and literal %, _ and [ in the
// argument are escaped first.
func (t *exprTranslator) stringMatch(n *predicate.Call, field predicate.Field) (string, error) {
	column, err := quoteColumn(field.Name)
	if err != nil {
		return "", err
	}
	if len(n.Args) != 1 {
		return "", command.NewFailure(command.CodeUnsupportedExpressionKind,
			"%s takes exactly one argument, got %d", string(n.Method), len(n.Args))
	}
	val, ok := n.Args[0].(predicate.Value)
	if !ok {
		return "", command.NewFailure(command.CodeUnsupportedExpressionKind,
			"%s argument must be a constant, got %T", string(n.Method), n.Args[0])
	}
	s, ok := val.V.(string)
	if !ok {
		return "", command.NewFailure(command.CodeUnsupportedExpressionKind,
			"%s argument must be a string constant, got %T", string(n.Method), val.V)
	}

	escaped := escapeLikePattern(s)
	var pattern string
	switch n.Method {
	case predicate.MethodContains:
		pattern = "%" + escaped + "%"
	case predicate.MethodStartsWith:
		pattern = escaped + "%"
	case predicate.MethodEndsWith:
		pattern = "%" + escaped
	default:
		return "", command.NewFailure(command.CodeUnsupportedExpressionKind,
			"method %q is not in the whitelist", string(n.Method))
	}
	return column + " LIKE " + t.mint(pattern), nil
}

// membership renders collection.Contains(field) as IN with one parameter
// per element. Only collections fixed at construction translate; anything
// else is rejected.
func (t *exprTranslator) membership(n *predicate.Call, recv predicate.Value) (string, error) {
	if n.Method != predicate.MethodContains {
		return "", command.NewFailure(command.CodeUnsupportedExpressionKind,
			"method %q is not defined on a constant collection", string(n.Method))
	}
	if len(n.Args) != 1 {
		return "", command.NewFailure(command.CodeUnsupportedExpressionKind,
			"membership takes exactly one argument, got %d", len(n.Args))
	}
	field, ok := n.Args[0].(predicate.Field)
	if !ok {
		return "", command.NewFailure(command.CodeUnsupportedExpressionKind,
			"membership argument must be a field, got %T", n.Args[0])
	}
	column, err := quoteColumn(field.Name)
	if err != nil {
		return "", err
	}

	elements, ok := constantCollection(recv.V)
	if !ok {
		return "", command.NewFailure(command.CodeUnsupportedExpressionKind,
			"membership requires a compile-time-constant collection, got %T", recv.V)
	}
	if len(elements) == 0 {
		// IN () is not valid SQL; an empty collection matches nothing.
		return "(0 = 1)", nil
	}

	holders := make([]string, len(elements))
	for i, e := range elements {
		holders[i] = t.mint(e)
	}
	return column + " IN (" + strings.Join(holders, ", ") + ")", nil
}

// operand renders a comparison operand: a field becomes an escaped column
// reference, a constant becomes a fresh parameter.
func (t *exprTranslator) operand(n predicate.Node) (string, error) {
	switch o := n.(type) {
	case predicate.Field:
		return quoteColumn(o.Name)
	case predicate.Value:
		return t.mint(o.V), nil
	case nil:
		return "", command.NewFailure(command.CodeUnsupportedExpressionKind,
			"comparison is missing an operand")
	default:
		return "", command.NewFailure(command.CodeUnsupportedExpressionKind,
			"comparison operand %T is neither a field nor a constant", n)
	}
}

// constantCollection flattens a slice or array of any element type into
// []any, preserving order. Strings are scalars here, not collections.
func constantCollection(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if direct, ok := v.([]any); ok {
		return direct, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
