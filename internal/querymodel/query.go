package querymodel

import (
	"slices"

	"github.com/roach88/docql/internal/expr"
	"github.com/roach88/docql/internal/ir"
)

// Query builds a Model one clause at a time. Every method returns a new
// *Query and leaves the receiver untouched.
type Query struct {
	model Model

	// err records a builder misuse that the Model cannot express.
	err *ir.CompileError
}

// From starts a query over collection, binding each document of the given
// entity type to alias.
func From(collection, alias, entity string) *Query {
	return &Query{model: Model{
		Source: Source{Collection: collection, Alias: alias, Entity: entity},
	}}
}

// FromModel starts a builder from an existing model.
func FromModel(m Model) *Query {
	return &Query{model: m.Clone()}
}

func (q *Query) with(fn func(m *Model)) *Query {
	next := &Query{model: q.model.Clone(), err: q.err}
	fn(&next.model)
	return next
}

// Param returns the range variable of the query.
func (q *Query) Param() *expr.Param {
	return expr.P(q.model.Source.Alias)
}

// Field returns a member access on the range variable.
func (q *Query) Field(name string) *expr.Member {
	return expr.Field(q.Param(), q.model.Source.Entity, name)
}

// Where appends a filter. Each call becomes its own top-level AND term.
func (q *Query) Where(predicate expr.Node) *Query {
	return q.with(func(m *Model) {
		m.Where = append(m.Where, predicate)
	})
}

// WhereMissing asserts that field is absent from matching documents.
func (q *Query) WhereMissing(field *expr.Member) *Query {
	return q.with(func(m *Model) {
		m.ResultOperators = append(m.ResultOperators, Missing{Field: field})
	})
}

// OrderBy appends an ascending sort key.
func (q *Query) OrderBy(key expr.Node) *Query {
	return q.orderBy(key, Ascending)
}

// OrderByDescending appends a descending sort key.
func (q *Query) OrderByDescending(key expr.Node) *Query {
	return q.orderBy(key, Descending)
}

// ThenBy appends a secondary ascending sort key.
func (q *Query) ThenBy(key expr.Node) *Query {
	return q.orderBy(key, Ascending)
}

// ThenByDescending appends a secondary descending sort key.
func (q *Query) ThenByDescending(key expr.Node) *Query {
	return q.orderBy(key, Descending)
}

func (q *Query) orderBy(key expr.Node, dir Direction) *Query {
	return q.with(func(m *Model) {
		m.OrderBy = append(m.OrderBy, Ordering{Key: key, Direction: dir})
	})
}

// Select sets the projection. A query has at most one projection; a second
// Select is recorded as an error reported by Build.
func (q *Query) Select(fields ...ProjectedField) *Query {
	next := q.with(func(m *Model) {
		m.Selector = &Projection{Fields: slices.Clone(fields)}
	})
	if q.model.Selector != nil && next.err == nil {
		next.err = ir.InvalidQueryModel("select", "query already has a projection")
	}
	return next
}

// Meta requests document metadata in the projection.
func (q *Query) Meta() *Query {
	return q.with(func(m *Model) {
		m.ResultOperators = append(m.ResultOperators, Meta{})
	})
}

// Take limits the result count.
func (q *Query) Take(n int) *Query {
	return q.with(func(m *Model) {
		m.ResultOperators = append(m.ResultOperators, Take{Count: n})
	})
}

// Skip skips the first n results.
func (q *Query) Skip(n int) *Query {
	return q.with(func(m *Model) {
		m.ResultOperators = append(m.ResultOperators, Skip{Count: n})
	})
}

// Model returns a copy of the accumulated model.
func (q *Query) Model() Model {
	return q.model.Clone()
}

// Build validates the accumulated model and returns it.
func (q *Query) Build() (Model, error) {
	if q.err != nil {
		return Model{}, q.err
	}
	m := q.Model()
	if err := Validate(m); err != nil {
		return Model{}, err
	}
	return m, nil
}
