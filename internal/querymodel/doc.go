// Package querymodel holds the clause-based intermediate representation of
// one document query, and the builder that accumulates it.
//
// A Model is what the generator consumes:
//
//	Model{
//	  Source:          Source{Collection: "default", Alias: "e", Entity: "Contact"},
//	  Where:           []expr.Node{...}, // each a separate top-level AND term
//	  OrderBy:         []Ordering{...},  // key precedence in declaration order
//	  Selector:        &Projection{...}, // nil selects the whole entity
//	  ResultOperators: []ResultOperator{Missing{...}, Meta{}},
//	}
//
// Query is the caller-facing builder. Every operation appends exactly one
// element and returns a new *Query; the receiver is never modified, so a
// partially built query can be reused as a base for several others.
//
// INVARIANTS (checked by Validate):
//   - Source has a collection and an identifier alias
//   - Every Param in every expression names Source.Alias
//   - At most one Meta, Take and Skip; Missing may repeat
//   - Projection aliases are unique identifiers
package querymodel
