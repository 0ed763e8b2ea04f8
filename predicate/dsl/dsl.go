// Package dsl compiles a small filter language down to the predicate AST,
// so command-line callers can write WHERE conditions as text instead of
// constructing nodes. The language covers exactly what the translator
// supports; there is nothing expressible here that fails translation for
// being outside the whitelist.
//
//	Amount > 100 AND Status = "Active"
//	Name CONTAINS "widget" OR Name STARTSWITH "w"
//	Status IN ("A", "B") AND NOT (Price <= 10)
//	DeletedAt IS NULL
//
// Keywords are upper-case; identifiers follow the engine's allow-list.
package dsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/cmdql/cmdql/predicate"
)

var filterLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `\b(AND|OR|NOT|IN|IS|NULL|CONTAINS|STARTSWITH|ENDSWITH|TRUE|FALSE)\b`},
	{Name: "Op", Pattern: `<>|<=|>=|!=|=|<|>`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

type expression struct {
	First *andExpression   `parser:"@@"`
	Rest  []*andExpression `parser:"( \"OR\" @@ )*"`
}

type andExpression struct {
	First *unaryExpression   `parser:"@@"`
	Rest  []*unaryExpression `parser:"( \"AND\" @@ )*"`
}

type unaryExpression struct {
	Not     *unaryExpression `parser:"\"NOT\" @@"`
	Primary *primary         `parser:"| @@"`
}

type primary struct {
	Group     *expression `parser:"\"(\" @@ \")\""`
	Condition *condition  `parser:"| @@"`
}

type condition struct {
	Column string      `parser:"@Ident"`
	Null   *nullTest   `parser:"( @@"`
	Match  *matchTest  `parser:"| @@"`
	In     *inTest     `parser:"| @@"`
	Cmp    *comparison `parser:"| @@ )"`
}

type nullTest struct {
	Not bool `parser:"\"IS\" @\"NOT\"? \"NULL\""`
}

type matchTest struct {
	Method string `parser:"@(\"CONTAINS\" | \"STARTSWITH\" | \"ENDSWITH\")"`
	Arg    string `parser:"@String"`
}

type inTest struct {
	Values []*literal `parser:"\"IN\" \"(\" @@ ( \",\" @@ )* \")\""`
}

type comparison struct {
	Op    string   `parser:"@Op"`
	Value *literal `parser:"@@"`
}

type literal struct {
	Str   *string `parser:"@String"`
	Num   *string `parser:"| @Number"`
	True  bool    `parser:"| @\"TRUE\""`
	False bool    `parser:"| @\"FALSE\""`
	Null  bool    `parser:"| @\"NULL\""`
}

var parser = participle.MustBuild[expression](
	participle.Lexer(filterLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

// Compile parses a filter string into a predicate tree. Syntax errors
// come back as parse errors with position information; the resulting tree
// always translates, since the language is the translator's whitelist.
func Compile(input string) (predicate.Node, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("dsl: empty filter")
	}
	expr, err := parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("dsl: %w", err)
	}
	return expr.lower(), nil
}

func (e *expression) lower() predicate.Node {
	node := e.First.lower()
	for _, rest := range e.Rest {
		node = predicate.Or(node, rest.lower())
	}
	return node
}

func (a *andExpression) lower() predicate.Node {
	node := a.First.lower()
	for _, rest := range a.Rest {
		node = predicate.And(node, rest.lower())
	}
	return node
}

func (u *unaryExpression) lower() predicate.Node {
	if u.Not != nil {
		return predicate.Negate(u.Not.lower())
	}
	return u.Primary.lower()
}

func (p *primary) lower() predicate.Node {
	if p.Group != nil {
		return p.Group.lower()
	}
	return p.Condition.lower()
}

func (c *condition) lower() predicate.Node {
	column := predicate.Column(c.Column)
	switch {
	case c.Null != nil:
		if c.Null.Not {
			return column.IsNotNull()
		}
		return column.IsNull()
	case c.Match != nil:
		switch c.Match.Method {
		case "CONTAINS":
			return column.Contains(c.Match.Arg)
		case "STARTSWITH":
			return column.StartsWith(c.Match.Arg)
		default:
			return column.EndsWith(c.Match.Arg)
		}
	case c.In != nil:
		values := make([]any, len(c.In.Values))
		for i, v := range c.In.Values {
			values[i] = v.value()
		}
		return column.In(values...)
	default:
		op := c.Cmp.Op
		if op == "!=" {
			op = string(predicate.OpNotEqual)
		}
		return &predicate.Compare{
			Op:    predicate.CompareOp(op),
			Left:  column,
			Right: predicate.Value{V: c.Cmp.Value.value()},
		}
	}
}

// value converts a parsed literal to its Go value. Integral numbers stay
// int64 so repeated compilation binds identical parameter values.
func (l *literal) value() any {
	switch {
	case l.Str != nil:
		return *l.Str
	case l.Num != nil:
		if strings.Contains(*l.Num, ".") {
			f, _ := strconv.ParseFloat(*l.Num, 64)
			return f
		}
		n, _ := strconv.ParseInt(*l.Num, 10, 64)
		return n
	case l.True:
		return true
	case l.False:
		return false
	default:
		return nil
	}
}
