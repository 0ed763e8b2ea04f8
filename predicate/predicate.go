// Package predicate defines the restricted, transient expression
// description the translation engine consumes. The node set is closed and
// deliberately small: binary comparisons, AND/OR, NOT, member access,
// constant literals, and a fixed method whitelist (string matching and
// constant-collection membership). Anything outside this set is rejected
// during translation, never silently passed through.
package predicate

// Node is one vertex of a predicate description. Implementations are
// closed; the translator rejects kinds it does not recognize.
type Node interface {
	isNode()
}

// CompareOp is a binary comparison operator.
type CompareOp string

const (
	OpEqual          CompareOp = "="
	OpNotEqual       CompareOp = "<>"
	OpGreater        CompareOp = ">"
	OpGreaterOrEqual CompareOp = ">="
	OpLess           CompareOp = "<"
	OpLessOrEqual    CompareOp = "<="
)

// LogicalOp connects two boolean subtrees.
type LogicalOp string

const (
	OpAnd LogicalOp = "AND"
	OpOr  LogicalOp = "OR"
)

// Method names one whitelisted member call.
type Method string

const (
	// MethodContains doubles as substring match (field receiver) and
	// membership test (constant-collection receiver).
	MethodContains   Method = "Contains"
	MethodStartsWith Method = "StartsWith"
	MethodEndsWith   Method = "EndsWith"
)

// Field is a member access on the queried entity. It translates to an
// escaped column reference.
type Field struct {
	Name string
}

// Value is a constant literal. It translates to a freshly minted
// parameter, never to inline text.
type Value struct {
	V any
}

// Compare applies a binary comparison to two operands. Operands must be
// Field or Value nodes.
type Compare struct {
	Op    CompareOp
	Left  Node
	Right Node
}

// Logical connects two boolean subtrees with AND or OR. The translation
// parenthesizes every connective group.
type Logical struct {
	Op    LogicalOp
	Left  Node
	Right Node
}

// Not negates a boolean subtree.
type Not struct {
	Inner Node
}

// Call applies a whitelisted method. String matches take a Field receiver
// and one constant argument; membership takes a constant-collection Value
// receiver and one Field argument.
type Call struct {
	Method Method
	Recv   Node
	Args   []Node
}

func (Field) isNode()    {}
func (Value) isNode()    {}
func (*Compare) isNode() {}
func (*Logical) isNode() {}
func (*Not) isNode()     {}
func (*Call) isNode()    {}
