package executor

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdql/cmdql/command"
)

func TestBindArgsNamedDrivers(t *testing.T) {
	params := command.Parameters{
		command.Param("Name", "Widget"),
		command.Param("Price", 9),
	}
	for _, driver := range []string{"sqlserver", "sqlite3"} {
		text, args, err := BindArgs(driver, "INSERT INTO [T] ([Name], [Price]) VALUES (@Name, @Price)", params)
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO [T] ([Name], [Price]) VALUES (@Name, @Price)", text)
		require.Len(t, args, 2)
		assert.Equal(t, sql.Named("Name", "Widget"), args[0])
	}
}

func TestBindArgsPostgres(t *testing.T) {
	params := command.Parameters{
		command.Param("Id", 1),
		command.Param("Name", "W"),
	}
	text, args, err := BindArgs("postgres",
		"IF EXISTS (SELECT 1 FROM [T] WHERE [Id] = @Id) UPDATE [T] SET [Name] = @Name WHERE [Id] = @Id", params)
	require.NoError(t, err)
	assert.Equal(t,
		"IF EXISTS (SELECT 1 FROM [T] WHERE [Id] = $1) UPDATE [T] SET [Name] = $2 WHERE [Id] = $1",
		text)
	// The repeated name reuses its index; each value binds once.
	assert.Equal(t, []any{1, "W"}, args)
}

func TestBindArgsMySQL(t *testing.T) {
	params := command.Parameters{
		command.Param("Id", 1),
		command.Param("Name", "W"),
	}
	text, args, err := BindArgs("mysql",
		"UPDATE [T] SET [Name] = @Name WHERE [Id] = @Id AND [Id] = @Id", params)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE [T] SET [Name] = ? WHERE [Id] = ? AND [Id] = ?", text)
	// Positional-only syntax duplicates the repeated value.
	assert.Equal(t, []any{"W", 1, 1}, args)
}

func TestBindArgsSkipsLiteralsAndIdentifiers(t *testing.T) {
	params := command.Parameters{command.Param("p0", 1)}
	text, args, err := BindArgs("postgres",
		"SELECT * FROM [weird@table] WHERE [A] = '@notaparam' AND [B] = @p0", params)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM [weird@table] WHERE [A] = '@notaparam' AND [B] = $1",
		text)
	assert.Equal(t, []any{1}, args)
}

func TestBindArgsUnboundPlaceholder(t *testing.T) {
	_, _, err := BindArgs("postgres", "SELECT @missing", nil)
	assert.Error(t, err)
}

func TestBindArgsUnknownDriver(t *testing.T) {
	_, _, err := BindArgs("oracle", "SELECT 1", nil)
	assert.Error(t, err)
}
