package predicate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldComparisons(t *testing.T) {
	tests := []struct {
		name string
		node *Compare
		op   CompareOp
	}{
		{"equal", Column("A").Equal(1), OpEqual},
		{"not equal", Column("A").NotEqual(1), OpNotEqual},
		{"greater", Column("A").Greater(1), OpGreater},
		{"greater or equal", Column("A").GreaterOrEqual(1), OpGreaterOrEqual},
		{"less", Column("A").Less(1), OpLess},
		{"less or equal", Column("A").LessOrEqual(1), OpLessOrEqual},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.op, tt.node.Op)
			assert.Equal(t, Field{Name: "A"}, tt.node.Left)
			assert.Equal(t, Value{V: 1}, tt.node.Right)
		})
	}
}

func TestFieldToFieldComparison(t *testing.T) {
	node := Column("A").Equal(Column("B"))
	assert.Equal(t, Field{Name: "B"}, node.Right)
}

func TestNullComparisons(t *testing.T) {
	assert.Equal(t, &Compare{Op: OpEqual, Left: Field{Name: "A"}, Right: Value{}}, Column("A").IsNull())
	assert.Equal(t, &Compare{Op: OpNotEqual, Left: Field{Name: "A"}, Right: Value{}}, Column("A").IsNotNull())
}

func TestStringMatchCalls(t *testing.T) {
	tests := []struct {
		node   *Call
		method Method
	}{
		{Column("Name").Contains("x"), MethodContains},
		{Column("Name").StartsWith("x"), MethodStartsWith},
		{Column("Name").EndsWith("x"), MethodEndsWith},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.method, tt.node.Method)
		assert.Equal(t, Field{Name: "Name"}, tt.node.Recv)
		require.Len(t, tt.node.Args, 1)
		assert.Equal(t, Value{V: "x"}, tt.node.Args[0])
	}
}

func TestMembership(t *testing.T) {
	node := Column("Status").In("A", "B")

	assert.Equal(t, MethodContains, node.Method)
	assert.Equal(t, Value{V: []any{"A", "B"}}, node.Recv)
	require.Len(t, node.Args, 1)
	assert.Equal(t, Field{Name: "Status"}, node.Args[0])
}

func TestConnectives(t *testing.T) {
	left := Column("A").Equal(1)
	right := Column("B").Equal(2)

	and := And(left, right)
	assert.Equal(t, OpAnd, and.Op)
	assert.Same(t, left, and.Left.(*Compare))
	assert.Same(t, right, and.Right.(*Compare))

	or := Or(left, right)
	assert.Equal(t, OpOr, or.Op)

	not := Negate(left)
	assert.Same(t, left, not.Inner.(*Compare))
}

func TestOrdering(t *testing.T) {
	assert.Equal(t, Ordering{Column: "Name", Direction: Ascending}, Asc("Name"))
	assert.Equal(t, Ordering{Column: "Name", Direction: Descending}, Desc("Name"))
	assert.Equal(t, "ASC", Ascending.String())
	assert.Equal(t, "DESC", Descending.String())
}
