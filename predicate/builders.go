package predicate

// Column starts a predicate over the named column.
func Column(name string) Field {
	return Field{Name: name}
}

// operand lifts a plain Go value into a Value node. Passing another node
// (for example a Field, to compare two columns) keeps it as-is.
func operand(v any) Node {
	if n, ok := v.(Node); ok {
		return n
	}
	return Value{V: v}
}

// Equal compares the column for equality. A nil value translates to
// IS NULL.
func (f Field) Equal(v any) *Compare {
	return &Compare{Op: OpEqual, Left: f, Right: operand(v)}
}

// NotEqual compares the column for inequality. A nil value translates to
// IS NOT NULL.
func (f Field) NotEqual(v any) *Compare {
	return &Compare{Op: OpNotEqual, Left: f, Right: operand(v)}
}

// Greater compares with >.
func (f Field) Greater(v any) *Compare {
	return &Compare{Op: OpGreater, Left: f, Right: operand(v)}
}

// GreaterOrEqual compares with >=.
func (f Field) GreaterOrEqual(v any) *Compare {
	return &Compare{Op: OpGreaterOrEqual, Left: f, Right: operand(v)}
}

// Less compares with <.
func (f Field) Less(v any) *Compare {
	return &Compare{Op: OpLess, Left: f, Right: operand(v)}
}

// LessOrEqual compares with <=.
func (f Field) LessOrEqual(v any) *Compare {
	return &Compare{Op: OpLessOrEqual, Left: f, Right: operand(v)}
}

// IsNull matches rows where the column is NULL.
func (f Field) IsNull() *Compare {
	return f.Equal(nil)
}

// IsNotNull matches rows where the column is not NULL.
func (f Field) IsNotNull() *Compare {
	return f.NotEqual(nil)
}

// Contains matches rows whose column contains the substring.
func (f Field) Contains(substring string) *Call {
	return &Call{Method: MethodContains, Recv: f, Args: []Node{Value{V: substring}}}
}

// StartsWith matches rows whose column starts with the prefix.
func (f Field) StartsWith(prefix string) *Call {
	return &Call{Method: MethodStartsWith, Recv: f, Args: []Node{Value{V: prefix}}}
}

// EndsWith matches rows whose column ends with the suffix.
func (f Field) EndsWith(suffix string) *Call {
	return &Call{Method: MethodEndsWith, Recv: f, Args: []Node{Value{V: suffix}}}
}

// In matches rows whose column equals one of the given constants. The
// collection is fixed at construction, which is what makes it
// translatable.
func (f Field) In(values ...any) *Call {
	return &Call{Method: MethodContains, Recv: Value{V: values}, Args: []Node{f}}
}

// And connects two subtrees with AND.
func And(left, right Node) *Logical {
	return &Logical{Op: OpAnd, Left: left, Right: right}
}

// Or connects two subtrees with OR.
func Or(left, right Node) *Logical {
	return &Logical{Op: OpOr, Left: left, Right: right}
}

// Negate wraps a subtree in NOT (...).
func Negate(inner Node) *Not {
	return &Not{Inner: inner}
}
