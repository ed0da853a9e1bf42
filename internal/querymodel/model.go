package querymodel

import (
	"slices"

	"github.com/roach88/docql/internal/expr"
)

// Source names the collection a query ranges over.
type Source struct {
	// Collection is the keyspace name (e.g. "default", "travel-sample").
	Collection string

	// Alias is the range variable bound to each document.
	Alias string

	// Entity is the typed entity stored in the collection. It selects the
	// field mapping for members accessed directly on the alias.
	Entity string
}

// Direction is a sort direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// String returns the N1QL keyword for the direction.
func (d Direction) String() string {
	if d == Descending {
		return "DESC"
	}
	return "ASC"
}

// Ordering is one sort key.
type Ordering struct {
	Key       expr.Node
	Direction Direction
}

// ProjectedField maps one expression to an output name.
type ProjectedField struct {
	Alias string
	Value expr.Node
}

// As builds a ProjectedField.
func As(alias string, value expr.Node) ProjectedField {
	return ProjectedField{Alias: alias, Value: value}
}

// Projection is the ordered member-to-alias mapping of a select.
type Projection struct {
	Fields []ProjectedField
}

// ResultOperator is a sealed interface for store-specific post-filter
// modifiers.
//
// Variants:
//   - Missing: asserts a field is absent (extends WHERE)
//   - Meta: includes document metadata (extends the projection)
//   - Take: limits the result count
//   - Skip: skips leading results
type ResultOperator interface {
	resultOperator() // Marker method - seals interface to this package
}

// Missing asserts that Field is absent from the document.
type Missing struct {
	Field *expr.Member
}

func (Missing) resultOperator() {}

// Meta requests the document metadata alongside the projection.
type Meta struct{}

func (Meta) resultOperator() {}

// Take limits the number of results.
type Take struct {
	Count int
}

func (Take) resultOperator() {}

// Skip skips the first Count results.
type Skip struct {
	Count int
}

func (Skip) resultOperator() {}

// OperatorName returns the short name of a result operator.
func OperatorName(op ResultOperator) string {
	switch op.(type) {
	case Missing:
		return "missing"
	case Meta:
		return "meta"
	case Take:
		return "take"
	case Skip:
		return "skip"
	case nil:
		return "nil"
	}
	return "unknown"
}

// Model is the complete intermediate representation of one query.
type Model struct {
	Source          Source
	Where           []expr.Node
	OrderBy         []Ordering
	Selector        *Projection
	ResultOperators []ResultOperator
}

// Clone returns a copy of m whose slices do not alias m's. Expression trees
// are immutable and shared.
func (m Model) Clone() Model {
	c := Model{
		Source:          m.Source,
		Where:           slices.Clone(m.Where),
		OrderBy:         slices.Clone(m.OrderBy),
		ResultOperators: slices.Clone(m.ResultOperators),
	}
	if m.Selector != nil {
		c.Selector = &Projection{Fields: slices.Clone(m.Selector.Fields)}
	}
	return c
}

// Missing returns the Missing operators in declaration order.
func (m Model) Missing() []Missing {
	var out []Missing
	for _, op := range m.ResultOperators {
		if missing, ok := op.(Missing); ok {
			out = append(out, missing)
		}
	}
	return out
}

// HasMeta reports whether a Meta operator is present.
func (m Model) HasMeta() bool {
	for _, op := range m.ResultOperators {
		if _, ok := op.(Meta); ok {
			return true
		}
	}
	return false
}

// Limit returns the Take count, if any.
func (m Model) Limit() (int, bool) {
	for _, op := range m.ResultOperators {
		if take, ok := op.(Take); ok {
			return take.Count, true
		}
	}
	return 0, false
}

// Offset returns the Skip count, if any.
func (m Model) Offset() (int, bool) {
	for _, op := range m.ResultOperators {
		if skip, ok := op.(Skip); ok {
			return skip.Count, true
		}
	}
	return 0, false
}
