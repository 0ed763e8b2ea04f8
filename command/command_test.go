package command

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindQuery, "query"},
		{KindInsert, "insert"},
		{KindUpdate, "update"},
		{KindDelete, "delete"},
		{KindUpsert, "upsert"},
		{Kind(42), "Kind(42)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindQuery, KindInsert, KindUpdate, KindDelete, KindUpsert} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("merge")
	require.Error(t, err)
}

func TestNewDefaults(t *testing.T) {
	cmd := New(KindQuery, "Product", "SELECT * FROM [Product]", nil)

	assert.NotEqual(t, uuid.Nil, cmd.ID())
	assert.Equal(t, cmd.ID(), cmd.CorrelationID())
	assert.False(t, cmd.Timestamp().IsZero())
	assert.Equal(t, "Product", cmd.Target())
	assert.Empty(t, cmd.Parameters())
	assert.Empty(t, cmd.Metadata())

	_, ok := cmd.Timeout()
	assert.False(t, ok)
}

func TestNewPanicsOnInvalidKind(t *testing.T) {
	assert.Panics(t, func() {
		New(Kind(0), "Product", "SELECT 1", nil)
	})
}

func TestIsDataModifying(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindQuery, false},
		{KindInsert, true},
		{KindUpdate, true},
		{KindDelete, true},
		{KindUpsert, true},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			cmd := New(tt.kind, "T", "text", nil)
			assert.Equal(t, tt.want, cmd.IsDataModifying())
		})
	}
}

func TestWithParametersReturnsCopy(t *testing.T) {
	original := New(KindQuery, "T", "SELECT 1", Parameters{Param("p0", 1)})
	modified := original.WithParameters(Param("p0", 1), Param("p1", 2))

	assert.Len(t, original.Parameters(), 1)
	assert.Len(t, modified.Parameters(), 2)
	assert.Equal(t, original.ID(), modified.ID())
}

func TestWithMetadataReturnsCopy(t *testing.T) {
	original := New(KindDelete, "T", "DELETE FROM [T] WHERE [Id] = @Id", Parameters{Param("Id", 1)})
	modified := original.WithMetadata(MetaSchema, "catalog")

	assert.Empty(t, original.Metadata())
	assert.Equal(t, "catalog", modified.Schema())

	// The map handed back to the caller must not alias internal state.
	leaked := modified.Metadata()
	leaked[MetaSchema] = "other"
	assert.Equal(t, "catalog", modified.Schema())
}

func TestWithTimeout(t *testing.T) {
	cmd := New(KindQuery, "T", "SELECT 1", nil).WithTimeout(5 * time.Second)
	d, ok := cmd.Timeout()
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, d)
}

func TestWithCorrelationID(t *testing.T) {
	corr := uuid.New()
	cmd := New(KindQuery, "T", "SELECT 1", nil).WithCorrelationID(corr)
	assert.Equal(t, corr, cmd.CorrelationID())
	assert.NotEqual(t, cmd.ID(), cmd.CorrelationID())
}

func TestParametersAreCopiedOnConstruction(t *testing.T) {
	params := Parameters{Param("p0", 1)}
	cmd := New(KindQuery, "T", "SELECT 1", params)

	params[0] = Param("p0", 99)
	got := cmd.Parameters()
	assert.Equal(t, 1, got[0].Value)
}

func TestParametersHelpers(t *testing.T) {
	ps := Parameters{Param("Name", "Widget"), Param("Price", 9.5)}

	assert.Equal(t, []string{"Name", "Price"}, ps.Names())

	v, ok := ps.Lookup("Price")
	require.True(t, ok)
	assert.Equal(t, 9.5, v)

	_, ok = ps.Lookup("Missing")
	assert.False(t, ok)

	clone := ps.Clone()
	clone[0].Value = "Changed"
	assert.Equal(t, "Widget", ps[0].Value)
}
