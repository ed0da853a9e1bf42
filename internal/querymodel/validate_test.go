package querymodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/docql/internal/expr"
	"github.com/roach88/docql/internal/ir"
)

func field(alias, name string) *expr.Member {
	return expr.Field(expr.P(alias), "Contact", name)
}

func TestValidate_Valid(t *testing.T) {
	m := Model{
		Source:  Source{Collection: "travel-sample", Alias: "e", Entity: "Contact"},
		Where:   []expr.Node{expr.Gt(field("e", "Age"), expr.Const(10))},
		OrderBy: []Ordering{{Key: field("e", "Age")}},
		Selector: &Projection{Fields: []ProjectedField{
			As("age", field("e", "Age")),
		}},
		ResultOperators: []ResultOperator{
			Missing{Field: field("e", "Email")},
			Missing{Field: field("e", "Age")},
			Meta{},
			Take{Count: 0},
		},
	}
	assert.NoError(t, Validate(m))
}

func TestValidate_Errors(t *testing.T) {
	src := Source{Collection: "default", Alias: "e"}

	tests := []struct {
		name  string
		model Model
		field string
	}{
		{"empty collection", Model{Source: Source{Alias: "e"}}, "source.collection"},
		{"blank collection", Model{Source: Source{Collection: "  ", Alias: "e"}}, "source.collection"},
		{"backtick collection", Model{Source: Source{Collection: "a`b", Alias: "e"}}, "source.collection"},
		{"empty alias", Model{Source: Source{Collection: "default"}}, "source.alias"},
		{"malformed alias", Model{Source: Source{Collection: "default", Alias: "1e"}}, "source.alias"},
		{"alias with space", Model{Source: Source{Collection: "default", Alias: "e x"}}, "source.alias"},
		{
			"mixed alias in where",
			Model{Source: src, Where: []expr.Node{
				expr.Const(true),
				expr.Gt(field("x", "Age"), expr.Const(1)),
			}},
			"where[1]",
		},
		{"nil where", Model{Source: src, Where: []expr.Node{nil}}, "where[0]"},
		{
			"mixed alias in order by",
			Model{Source: src, OrderBy: []Ordering{{Key: field("x", "Age")}}},
			"order_by[0]",
		},
		{
			"bad direction",
			Model{Source: src, OrderBy: []Ordering{{Key: field("e", "Age"), Direction: 7}}},
			"order_by[0]",
		},
		{"empty projection", Model{Source: src, Selector: &Projection{}}, "select"},
		{
			"duplicate output name",
			Model{Source: src, Selector: &Projection{Fields: []ProjectedField{
				As("a", field("e", "Age")), As("a", field("e", "Email")),
			}}},
			"select[1]",
		},
		{
			"bad output name",
			Model{Source: src, Selector: &Projection{Fields: []ProjectedField{As("first name", field("e", "Age"))}}},
			"select[0]",
		},
		{
			"meta collision",
			Model{
				Source:          src,
				Selector:        &Projection{Fields: []ProjectedField{As("meta", field("e", "Age"))}},
				ResultOperators: []ResultOperator{Meta{}},
			},
			"select",
		},
		{"duplicate meta", Model{Source: src, ResultOperators: []ResultOperator{Meta{}, Meta{}}}, "result_operators[1]"},
		{"duplicate take", Model{Source: src, ResultOperators: []ResultOperator{Take{1}, Take{2}}}, "result_operators[1]"},
		{"negative skip", Model{Source: src, ResultOperators: []ResultOperator{Skip{-1}}}, "result_operators[0]"},
		{"missing without field", Model{Source: src, ResultOperators: []ResultOperator{Missing{}}}, "result_operators[0]"},
		{"missing on other alias", Model{Source: src, ResultOperators: []ResultOperator{Missing{Field: field("x", "Age")}}}, "result_operators[0]"},
		{"nil operator", Model{Source: src, ResultOperators: []ResultOperator{nil}}, "result_operators[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.model)
			require.Error(t, err)
			assert.True(t, ir.IsInvalidQueryModel(err), "got %v", err)

			ce, ok := ir.AsCompileError(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("e"))
	assert.True(t, IsIdentifier("_doc1"))
	assert.False(t, IsIdentifier(""))
	assert.False(t, IsIdentifier("travel-sample"))
	assert.False(t, IsIdentifier("9lives"))
}
