package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdql/cmdql/predicate"
	"github.com/cmdql/cmdql/sqlgen"
)

func compileAndTranslate(t *testing.T, input string) (string, []any) {
	t.Helper()
	node, err := Compile(input)
	require.NoError(t, err)
	text, params, err := sqlgen.TranslateExpression(node)
	require.NoError(t, err)
	values := make([]any, len(params))
	for i, p := range params {
		values[i] = p.Value
	}
	return text, values
}

func TestCompileComparison(t *testing.T) {
	text, values := compileAndTranslate(t, `Amount > 100 AND Status = "Active"`)
	assert.Equal(t, "([Amount] > @p0 AND [Status] = @p1)", text)
	assert.Equal(t, []any{int64(100), "Active"}, values)
}

func TestCompileOperators(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`A = 1`, "[A] = @p0"},
		{`A <> 1`, "[A] <> @p0"},
		{`A != 1`, "[A] <> @p0"},
		{`A < 1`, "[A] < @p0"},
		{`A <= 1`, "[A] <= @p0"},
		{`A > 1`, "[A] > @p0"},
		{`A >= 1`, "[A] >= @p0"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			text, _ := compileAndTranslate(t, tt.input)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestCompilePrecedence(t *testing.T) {
	// AND binds tighter than OR.
	text, _ := compileAndTranslate(t, `A = 1 OR B = 2 AND C = 3`)
	assert.Equal(t, "([A] = @p0 OR ([B] = @p1 AND [C] = @p2))", text)
}

func TestCompileGrouping(t *testing.T) {
	text, _ := compileAndTranslate(t, `(A = 1 OR B = 2) AND C = 3`)
	assert.Equal(t, "(([A] = @p0 OR [B] = @p1) AND [C] = @p2)", text)
}

func TestCompileNot(t *testing.T) {
	text, _ := compileAndTranslate(t, `NOT (A = 1)`)
	assert.Equal(t, "NOT ([A] = @p0)", text)
}

func TestCompileStringMatches(t *testing.T) {
	text, values := compileAndTranslate(t, `Name CONTAINS "wid"`)
	assert.Equal(t, "[Name] LIKE @p0", text)
	assert.Equal(t, []any{"%wid%"}, values)

	_, values = compileAndTranslate(t, `Name STARTSWITH "w"`)
	assert.Equal(t, []any{"w%"}, values)

	_, values = compileAndTranslate(t, `Name ENDSWITH "t"`)
	assert.Equal(t, []any{"%t"}, values)
}

func TestCompileIn(t *testing.T) {
	text, values := compileAndTranslate(t, `Status IN ("A", "B", "C")`)
	assert.Equal(t, "[Status] IN (@p0, @p1, @p2)", text)
	assert.Equal(t, []any{"A", "B", "C"}, values)
}

func TestCompileNullTests(t *testing.T) {
	text, _ := compileAndTranslate(t, `DeletedAt IS NULL`)
	assert.Equal(t, "[DeletedAt] IS NULL", text)

	text, _ = compileAndTranslate(t, `DeletedAt IS NOT NULL`)
	assert.Equal(t, "[DeletedAt] IS NOT NULL", text)
}

func TestCompileLiterals(t *testing.T) {
	node, err := Compile(`Active = TRUE AND Ratio = 0.5 AND Legacy = FALSE AND Gone = NULL`)
	require.NoError(t, err)
	_, params, err := sqlgen.TranslateExpression(node)
	require.NoError(t, err)
	// Gone = NULL renders IS NULL, so only three values bind.
	require.Len(t, params, 3)
	assert.Equal(t, true, params[0].Value)
	assert.Equal(t, 0.5, params[1].Value)
	assert.Equal(t, false, params[2].Value)
}

func TestCompileDeterminism(t *testing.T) {
	const input = `Amount > 100 AND (Status IN ("A", "B") OR Name CONTAINS "x")`
	first, err := Compile(input)
	require.NoError(t, err)
	second, err := Compile(input)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompileErrors(t *testing.T) {
	for _, input := range []string{"", "   ", "AND", "A =", `A = 1 OR`, `IN ("x")`} {
		_, err := Compile(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestCompiledTreeIsPlainPredicate(t *testing.T) {
	node, err := Compile(`A = 1`)
	require.NoError(t, err)
	cmp, ok := node.(*predicate.Compare)
	require.True(t, ok)
	assert.Equal(t, predicate.OpEqual, cmp.Op)
}
