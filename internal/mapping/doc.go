// Package mapping loads entity field mappings from CUE files.
//
// A mapping file declares one struct per entity under the top-level
// "entity" field:
//
//	package mappings
//
//	entity: Contact: {
//		convention: "lower_first" // optional: lower_first, camel, snake, verbatim
//		fields: {
//			FirstName: "fname"
//			LastName:  "lname"
//		}
//	}
//
// Members not listed under fields are named by the entity's convention, or
// by the mapper default when the entity declares none.
package mapping
