package entity

import "github.com/jinzhu/inflection"

// NamingStrategy maps an entity name to the table name it addresses.
type NamingStrategy func(entityName string) string

// IdentityNaming uses the entity name verbatim: Product -> Product.
func IdentityNaming(name string) string {
	return name
}

// PluralNaming pluralizes the entity name: Product -> Products,
// Category -> Categories.
func PluralNaming(name string) string {
	return inflection.Plural(name)
}
