package testutil

import (
	"github.com/roach88/docql/internal/expr"
	"github.com/roach88/docql/internal/fieldmap"
	"github.com/roach88/docql/internal/querymodel"
)

// ContactEntity is the mapping of the Contact fixture entity:
//
//	Age       → age    (convention)
//	FirstName → fname
//	LastName  → lname
//	Email     → email  (convention)
func ContactEntity() fieldmap.Entity {
	return fieldmap.Entity{
		Name: "Contact",
		Fields: map[string]string{
			"FirstName": "fname",
			"LastName":  "lname",
		},
	}
}

// ContactMapper returns a Mapper that knows the Contact entity.
func ContactMapper() *fieldmap.Mapper {
	return fieldmap.MustNew(fieldmap.WithEntity(ContactEntity()))
}

// Contacts starts a query over the "default" collection with alias "e".
func Contacts() *querymodel.Query {
	return querymodel.From("default", "e", "Contact")
}

// C returns the Contact member name accessed on alias "e".
func C(name string) *expr.Member {
	return expr.Field(expr.P("e"), "Contact", name)
}
