package n1ql

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/docql/internal/expr"
	"github.com/roach88/docql/internal/querymodel"
	"github.com/roach88/docql/internal/testutil"
)

// To regenerate golden files, run:
//
//	go test ./internal/n1ql -run TestCompile_Golden -update
func TestCompile_Golden(t *testing.T) {
	queries := map[string]*querymodel.Query{
		"where_order_select": projectAgeName(testutil.Contacts().
			Where(expr.And(expr.Gt(contact("Age"), val(10)), expr.Eq(contact("FirstName"), val("Sam")))).
			OrderBy(contact("Age"))),

		"missing_meta_paging": testutil.Contacts().
			Where(expr.Or(expr.StartsWith(contact("LastName"), val("Sm")), expr.Eq(contact("Email"), val(nil)))).
			WhereMissing(contact("Age")).
			Meta().
			OrderByDescending(contact("LastName")).
			ThenBy(contact("FirstName")).
			Take(25).
			Skip(50),

		"folded_in_list": testutil.Contacts().
			Where(expr.Contains(val([]any{"Sam", "Ann"}), contact("FirstName"))).
			Where(expr.Ge(contact("Age"), expr.Mul(expr.Ref("minAge", 6), val(3)))).
			Select(querymodel.As("full", expr.Add(expr.Add(contact("FirstName"), val(" ")), contact("LastName")))),
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	comp := newCompiler()
	for name, q := range queries {
		t.Run(name, func(t *testing.T) {
			stmt, err := comp.CompileQuery(q)
			require.NoError(t, err)
			g.Assert(t, name, []byte(stmt))
		})
	}
}
