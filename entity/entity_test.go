package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type product struct {
	Id    int
	Name  string
	Price decimal.Decimal
}

func TestReflectorDeclarationOrder(t *testing.T) {
	price := decimal.RequireFromString("9.99")
	desc, err := Reflector{}.Describe(product{Id: 1, Name: "Widget", Price: price})
	require.NoError(t, err)
	assert.Equal(t, "product", desc.Name)
	assert.Equal(t, []Column{
		{Name: "Id", Value: 1},
		{Name: "Name", Value: "Widget"},
		{Name: "Price", Value: price},
	}, desc.Columns)
}

func TestReflectorPointerValue(t *testing.T) {
	desc, err := Reflector{}.Describe(&product{Id: 2, Name: "Gadget"})
	require.NoError(t, err)
	assert.Equal(t, "product", desc.Name)
	assert.Equal(t, 2, desc.Columns[0].Value)
}

func TestReflectorTags(t *testing.T) {
	type tagged struct {
		ID       int    `db:"order_id"`
		Customer string `db:"customer,omitempty"`
		Internal string `db:"-"`
		hidden   string
		Plain    string
	}
	desc, err := Reflector{}.Describe(tagged{ID: 7, Customer: "acme", Internal: "x", hidden: "z", Plain: "y"})
	require.NoError(t, err)
	assert.Equal(t, []string{"order_id", "customer", "Plain"}, ColumnNames(desc.Columns))
}

func TestReflectorNilPointerFieldStaysNullColumn(t *testing.T) {
	type row struct {
		Id   int
		Note *string
	}
	desc, err := Reflector{}.Describe(row{Id: 1})
	require.NoError(t, err)
	require.Len(t, desc.Columns, 2)
	assert.Equal(t, "Note", desc.Columns[1].Name)
	assert.Nil(t, desc.Columns[1].Value)

	note := "hi"
	desc, err = Reflector{}.Describe(row{Id: 1, Note: &note})
	require.NoError(t, err)
	assert.Equal(t, "hi", desc.Columns[1].Value)
}

func TestReflectorEmbeddedStructFlattens(t *testing.T) {
	type Audit struct {
		CreatedAt time.Time
	}
	type row struct {
		Id int
		Audit
	}
	desc, err := Reflector{}.Describe(row{Id: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Id", "CreatedAt"}, ColumnNames(desc.Columns))
}

func TestReflectorValuerStaysScalar(t *testing.T) {
	type row struct {
		Price decimal.Decimal
	}
	price := decimal.RequireFromString("1.50")
	desc, err := Reflector{}.Describe(row{Price: price})
	require.NoError(t, err)
	require.Len(t, desc.Columns, 1)
	assert.Equal(t, price, desc.Columns[0].Value)
}

func TestReflectorNonStructFails(t *testing.T) {
	_, err := Reflector{}.Describe(42)
	assert.Error(t, err)
}

func TestReflectorNilPanics(t *testing.T) {
	assert.Panics(t, func() { _, _ = Reflector{}.Describe(nil) })
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	Register(r, "Product", func(p product) []Column {
		return []Column{{Name: "Id", Value: p.Id}, {Name: "Name", Value: p.Name}}
	})

	desc, err := r.Describe(product{Id: 3, Name: "Widget"})
	require.NoError(t, err)
	assert.Equal(t, "Product", desc.Name)
	assert.Equal(t, []string{"Id", "Name"}, ColumnNames(desc.Columns))

	_, err = r.Describe("unregistered")
	assert.Error(t, err)
}

func TestNamingStrategies(t *testing.T) {
	assert.Equal(t, "Product", IdentityNaming("Product"))
	assert.Equal(t, "Products", PluralNaming("Product"))
	assert.Equal(t, "Categories", PluralNaming("Category"))
}
