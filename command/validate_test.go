package command

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmptyText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		cmd := New(KindQuery, "T", text, nil)
		err := cmd.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEmptyCommandText))
	}
}

func TestValidateNonPositiveTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		wantErr bool
	}{
		{"negative", -time.Second, true},
		{"zero", 0, true},
		{"positive", time.Second, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := New(KindQuery, "T", "SELECT 1", nil).WithTimeout(tt.timeout)
			err := cmd.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrNonPositiveTimeout))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUnsetTimeoutPasses(t *testing.T) {
	cmd := New(KindQuery, "T", "SELECT 1", nil)
	assert.NoError(t, cmd.Validate())
}

func TestValidateMissingWhereClause(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		text    string
		allow   bool
		wantErr bool
	}{
		{"delete without guard", KindDelete, "DELETE FROM [T]", false, true},
		{"update without guard", KindUpdate, "UPDATE [T] SET [A] = @A", false, true},
		{"delete with guard", KindDelete, "DELETE FROM [T] WHERE [Id] = @Id", false, false},
		{"update with guard", KindUpdate, "UPDATE [T] SET [A] = @A WHERE [Id] = @Id", false, false},
		{"delete all sanctioned", KindDelete, "DELETE FROM [T]", true, false},
		{"update sanctioned", KindUpdate, "UPDATE [T] SET [A] = @A", true, false},
		{"query never guarded", KindQuery, "SELECT * FROM [T]", false, false},
		{"insert never guarded", KindInsert, "INSERT INTO [T] ([A]) VALUES (@A)", false, false},
		{"where inside string literal", KindDelete, "DELETE FROM [T] -- 'where'", false, true},
		{"where inside bracketed name", KindUpdate, "UPDATE [T] SET [where] = @A", false, true},
		{"lowercase where", KindDelete, "delete from [T] where [Id] = @Id", false, false},
		{"where as word prefix only", KindDelete, "DELETE FROM [T] /* wherever */", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := New(tt.kind, "T", tt.text, nil)
			if tt.allow {
				cmd = cmd.WithMetadata(MetaAllowFullTableOperation, true)
			}
			err := cmd.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMissingWhereClause))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDuplicateParameterName(t *testing.T) {
	cmd := New(KindQuery, "T", "SELECT * FROM [T] WHERE [A] = @p0 OR [B] = @p0",
		Parameters{Param("p0", 1), Param("p0", 2)})

	err := cmd.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateParameterName))

	f, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, "p0", f.Details["parameter"])
}

func TestValidateInvalidTarget(t *testing.T) {
	for _, target := range []string{"Pro[duct", "Product]; DROP TABLE x; --", "1Product", "Pro duct", "Pro-duct"} {
		t.Run(target, func(t *testing.T) {
			cmd := New(KindQuery, target, "SELECT 1", nil)
			err := cmd.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidIdentifier))
		})
	}
}

func TestValidateInvalidSchema(t *testing.T) {
	cmd := New(KindQuery, "Product", "SELECT 1", nil).
		WithMetadata(MetaSchema, "cat]alog")
	err := cmd.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidIdentifier))
}

func TestValidateEmptyTargetAllowedForRawText(t *testing.T) {
	cmd := New(KindQuery, "", "SELECT 1", nil)
	assert.NoError(t, cmd.Validate())
}

func TestValidateFirstViolationWins(t *testing.T) {
	// Empty text outranks the missing guard and the bad identifier.
	cmd := New(KindDelete, "bad name", "", nil)
	err := cmd.Validate()
	assert.True(t, errors.Is(err, ErrEmptyCommandText))
}

func TestValidateIdentifier(t *testing.T) {
	valid := []string{"Product", "_private", "Tbl_2", "a", "A1_b2"}
	for _, name := range valid {
		assert.NoError(t, ValidateIdentifier(name), name)
	}

	invalid := []string{"", "1abc", "a b", "a-b", "a.b", "[a]", "a;", "äöü", "a\x00b"}
	for _, name := range invalid {
		err := ValidateIdentifier(name)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrInvalidIdentifier), name)
	}

	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, ValidateIdentifier(string(long)))
	assert.NoError(t, ValidateIdentifier(string(long[:128])))
}

func TestFailureFormatting(t *testing.T) {
	f := NewFailure(CodeInvalidIdentifier, "identifier %q contains characters outside the allow-list", "x;y").
		WithDetail("identifier", "x;y")

	assert.Contains(t, f.Error(), "InvalidIdentifier: ")
	assert.Contains(t, f.Error(), `identifier=x;y`)
}

func TestIsFailureCode(t *testing.T) {
	err := NewFailure(CodeUnsupportedOperator, "operator %q", "%")
	assert.True(t, IsFailureCode(err, CodeUnsupportedOperator))
	assert.False(t, IsFailureCode(err, CodeUnsupportedExpressionKind))
	assert.False(t, IsFailureCode(errors.New("plain"), CodeUnsupportedOperator))
}
