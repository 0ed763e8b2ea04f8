package executor

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdql/cmdql/command"
	"github.com/cmdql/cmdql/sqlgen"
)

// The round-trip tests need the sqlite3 driver and are gated the same way
// as the e2e suite: set CMDQL_E2E=1 to run them.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	if os.Getenv("CMDQL_E2E") == "" {
		t.Skip("set CMDQL_E2E=1 to run executor round-trip tests")
	}
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE Product (Id INTEGER PRIMARY KEY, Name TEXT, Price REAL)`)
	require.NoError(t, err)
	e := NewDB(db, "sqlite3")
	t.Cleanup(func() { e.Close() })
	return e
}

func TestExecRejectsInvalidCommand(t *testing.T) {
	e := &DB{db: new(sql.DB), driver: "sqlite3", stmts: map[string]*sql.Stmt{}}
	cmd := command.New(command.KindDelete, "Product", "DELETE FROM [Product]", nil)
	_, err := e.Exec(context.Background(), cmd, sqlgen.Translation{Text: cmd.Text()})
	assert.ErrorIs(t, err, command.ErrMissingWhereClause)
}

func TestExecInsertAndQueryBack(t *testing.T) {
	e := openTestDB(t)
	ctx := context.Background()

	// sqlite has no OUTPUT clause; exercise the raw path.
	insert := command.New(command.KindInsert, "Product",
		"INSERT INTO [Product] ([Name], [Price]) VALUES (@Name, @Price)",
		command.Parameters{
			command.Param("Name", "Widget"),
			command.Param("Price", 9.99),
		})
	tr, err := sqlgen.Translate(insert)
	require.NoError(t, err)
	res, err := e.Exec(ctx, insert, tr)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.RowsAffected)

	query := command.New(command.KindQuery, "Product",
		"SELECT [Id], [Name], [Price] FROM [Product] WHERE [Name] = @Name",
		command.Parameters{command.Param("Name", "Widget")})
	tr, err = sqlgen.Translate(query)
	require.NoError(t, err)
	rows, err := e.Query(ctx, query, tr)
	require.NoError(t, err)

	type product struct {
		Id    int
		Name  string
		Price float64
	}
	got, ok, err := ScanFirst[product](rows)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Widget", got.Name)
	assert.Equal(t, 9.99, got.Price)
}

func TestStatementCacheReuse(t *testing.T) {
	e := openTestDB(t)
	ctx := context.Background()

	cmd := command.New(command.KindInsert, "Product",
		"INSERT INTO [Product] ([Name], [Price]) VALUES (@Name, @Price)",
		command.Parameters{command.Param("Name", "a"), command.Param("Price", 1.0)})
	tr, err := sqlgen.Translate(cmd)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := e.Exec(ctx, cmd, tr)
		require.NoError(t, err)
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	assert.Len(t, e.stmts, 1)
}
