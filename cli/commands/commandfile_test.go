package commands

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdql/cmdql/cli/internal/config"
	"github.com/cmdql/cmdql/command"
	"github.com/cmdql/cmdql/sqlgen"
)

func writeCommandFile(t *testing.T, content string) string {
	t.Helper()
	fs := afero.NewMemMapFs()
	prev := config.AppFs
	config.AppFs = fs
	t.Cleanup(func() { config.AppFs = prev })
	require.NoError(t, afero.WriteFile(fs, "command.yaml", []byte(content), 0o644))
	return "command.yaml"
}

func TestCommandFileInsert(t *testing.T) {
	path := writeCommandFile(t, `
kind: insert
table: Product
schema: catalog
columns:
  - name: Name
    value: Widget
  - name: Price
    value: 9.99
`)
	cf, err := LoadCommandFile(path)
	require.NoError(t, err)
	cmd, err := cf.Build(sqlgen.NewGenerator(), "")
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO [catalog].[Product] ([Name], [Price]) OUTPUT INSERTED.* VALUES (@Name, @Price)",
		cmd.Text())
	assert.Equal(t, []string{"Name", "Price"}, cmd.Parameters().Names())
}

func TestCommandFileQueryWithFilter(t *testing.T) {
	path := writeCommandFile(t, `
kind: query
table: Product
select: [Id, Name]
where: 'Price > 100 AND Status = "Active"'
orderBy:
  - column: Price
    desc: true
skip: 20
take: 10
`)
	cf, err := LoadCommandFile(path)
	require.NoError(t, err)
	cmd, err := cf.Build(sqlgen.NewGenerator(), "")
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT [Id], [Name] FROM [Product] WHERE ([Price] > @p0 AND [Status] = @p1)"+
			" ORDER BY [Price] DESC OFFSET 20 ROWS FETCH NEXT 10 ROWS ONLY",
		cmd.Text())
}

func TestCommandFileDeleteNeedsGuard(t *testing.T) {
	path := writeCommandFile(t, `
kind: delete
table: Product
`)
	cf, err := LoadCommandFile(path)
	require.NoError(t, err)
	_, err = cf.Build(sqlgen.NewGenerator(), "")
	assert.True(t, errors.Is(err, command.ErrMissingWhereClause))
}

func TestCommandFileDeleteAllBypass(t *testing.T) {
	path := writeCommandFile(t, `
kind: delete
table: Product
allowFullTable: true
`)
	cf, err := LoadCommandFile(path)
	require.NoError(t, err)
	cmd, err := cf.Build(sqlgen.NewGenerator(), "")
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM [Product] OUTPUT DELETED.*", cmd.Text())
}

func TestCommandFileBulkUpsert(t *testing.T) {
	path := writeCommandFile(t, `
kind: upsert
table: Product
keys: [Id]
rows:
  - - name: Id
      value: 1
    - name: Name
      value: a
  - - name: Id
      value: 2
    - name: Name
      value: b
`)
	cf, err := LoadCommandFile(path)
	require.NoError(t, err)
	cmd, err := cf.Build(sqlgen.NewGenerator(), "")
	require.NoError(t, err)
	assert.Contains(t, cmd.Text(), "USING (VALUES (@Id_0, @Name_0), (@Id_1, @Name_1))")
	assert.Len(t, cmd.Parameters(), 4)
}

func TestCommandFileRawText(t *testing.T) {
	path := writeCommandFile(t, `
kind: query
table: Product
text: 'SELECT * FROM [Product] WHERE [Id] = @Id'
params:
  - name: Id
    value: 7
`)
	cf, err := LoadCommandFile(path)
	require.NoError(t, err)
	cmd, err := cf.Build(sqlgen.NewGenerator(), "")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM [Product] WHERE [Id] = @Id", cmd.Text())
}

func TestCommandFileDefaultSchema(t *testing.T) {
	path := writeCommandFile(t, `
kind: query
table: Product
`)
	cf, err := LoadCommandFile(path)
	require.NoError(t, err)
	cmd, err := cf.Build(sqlgen.NewGenerator(), "dbo")
	require.NoError(t, err)
	assert.Contains(t, cmd.Text(), "FROM [dbo].[Product]")
	assert.Equal(t, "dbo", cmd.Schema())
}

func TestCommandFileMissingKind(t *testing.T) {
	path := writeCommandFile(t, `table: Product`)
	_, err := LoadCommandFile(path)
	assert.Error(t, err)
}
