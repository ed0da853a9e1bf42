package querydef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/docql/internal/expr"
	"github.com/roach88/docql/internal/ir"
	"github.com/roach88/docql/internal/n1ql"
	"github.com/roach88/docql/internal/querymodel"
	"github.com/roach88/docql/internal/testutil"
)

func compileYAML(t *testing.T, src string) string {
	t.Helper()
	def, err := Parse([]byte(src))
	require.NoError(t, err)
	q, err := def.Query()
	require.NoError(t, err)
	stmt, err := n1ql.NewCompiler(n1ql.WithResolver(testutil.ContactMapper())).CompileQuery(q)
	require.NoError(t, err)
	return stmt
}

func TestQuery_WhereOrderSelect(t *testing.T) {
	stmt := compileYAML(t, `
name: adults_named_sam
entity: Contact
collection: default
vars:
  minAge: 10
where:
  - and:
      - gt: [{member: Age}, {var: minAge}]
      - eq: [{member: FirstName}, Sam]
order_by:
  - key: {member: Age}
select:
  - {as: age, value: {member: Age}}
  - {as: name, value: {member: FirstName}}
`)
	assert.Equal(t,
		"SELECT e.age as age, e.fname as name FROM default as e WHERE ((e.age > 10) AND (e.fname = 'Sam')) ORDER BY e.age ASC",
		stmt)
}

func TestQuery_MissingMetaPaging(t *testing.T) {
	stmt := compileYAML(t, `
name: paged
entity: Contact
collection: default
where:
  - starts_with: [{member: LastName}, Sm]
missing: [Age]
order_by:
  - key: {member: LastName}
    dir: desc
  - key: {member: FirstName}
    dir: ASC
meta: true
take: 25
skip: 50
`)
	assert.Equal(t,
		"SELECT e, META(e) as meta FROM default as e WHERE (e.lname LIKE 'Sm%') AND e.age IS MISSING ORDER BY e.lname DESC, e.fname ASC LIMIT 25 OFFSET 50",
		stmt)
}

func TestQuery_ExpressionEncodings(t *testing.T) {
	def := &Definition{Entity: "Contact", Collection: "default", Vars: map[string]any{"names": []any{"Sam", "Ann"}}}
	dec := &decoder{def: def, param: expr.P("e")}

	tests := []struct {
		name string
		yaml string
		want expr.Node
	}{
		{"int constant", "42", expr.Const(42)},
		{"string constant", "Sam", expr.Const("Sam")},
		{"null constant", "null", expr.Const(nil)},
		{"list constant", "[1, 2]", expr.Const([]any{1, 2})},
		{"explicit constant", "{const: {a: 1}}", expr.Const(map[string]any{"a": 1})},
		{"member", "{member: Age}", testutil.C("Age")},
		{
			"nested member",
			"{member: Address.City}",
			expr.Field(expr.Field(expr.P("e"), "Contact", "Address"), "Address", "City"),
		},
		{"variable", "{var: names}", expr.Ref("names", []any{"Sam", "Ann"})},
		{"param", "{param: e}", expr.P("e")},
		{"not", "{not: {member: Active}}", expr.Not(testutil.C("Active"))},
		{"neg", "{neg: {member: Age}}", expr.Neg(testutil.C("Age"))},
		{"binary", "{mod: [{member: Age}, 2]}", expr.Mod(testutil.C("Age"), expr.Const(2))},
		{"member concat", "{concat: [{member: FirstName}, {member: LastName}]}", expr.Concat(testutil.C("FirstName"), testutil.C("LastName"))},
		{
			"and folds left",
			"{and: [true, false, true]}",
			expr.And(expr.Const(true), expr.Const(false), expr.Const(true)),
		},
		{
			"or folds left",
			"{or: [1, 2, 3]}",
			expr.Or(expr.Const(1), expr.Const(2), expr.Const(3)),
		},
		{
			"contains shorthand",
			"{contains: [{member: Email}, test]}",
			expr.Contains(testutil.C("Email"), expr.Const("test")),
		},
		{
			"ends_with shorthand",
			"{ends_with: [{member: Email}, .com]}",
			expr.EndsWith(testutil.C("Email"), expr.Const(".com")),
		},
		{
			"call",
			"{call: {method: ToUpper, target: {member: FirstName}}}",
			expr.Invoke(testutil.C("FirstName"), expr.MethodToUpper),
		},
		{
			"call with args",
			"{call: {method: StartsWith, target: {member: FirstName}, args: [S]}}",
			expr.StartsWith(testutil.C("FirstName"), expr.Const("S")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var parsed Definition
			require.NoError(t, yamlNode(tt.yaml, &parsed))
			got, err := dec.expr("where[0]", &parsed.Where[0])
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// yamlNode decodes src as the only where term of def.
func yamlNode(src string, def *Definition) error {
	parsed, err := Parse([]byte("name: q\ncollection: default\nwhere:\n  - " + src + "\n"))
	if err != nil {
		return err
	}
	*def = *parsed
	return nil
}

func TestQuery_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"unknown operator", "{between: [1, 2]}", `unknown operator "between"`},
		{"two keys", "{eq: [1, 1], ne: [1, 2]}", "exactly one key"},
		{"undefined var", "{var: nope}", `undefined variable "nope"`},
		{"wrong arity", "{eq: [1]}", "expected 2 operands, got 1"},
		{"and needs two", "{and: [true]}", "expected at least 2 operands"},
		{"operands not a list", "{eq: 1}", "expected a list of operands"},
		{"bad member path", "{member: Address..City}", `invalid member path "Address..City"`},
		{"empty member", "{member: ''}", "member path is required"},
		{"call without method", "{call: {target: {member: Age}}}", "method is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := Parse([]byte("name: q\nentity: Contact\ncollection: default\nwhere:\n  - " + tt.expr + "\n"))
			require.NoError(t, err)

			_, err = def.Query()
			require.Error(t, err)
			assert.True(t, IsDecodeError(err))
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "where[0]")
		})
	}
}

func TestDecodeError_ReportsLine(t *testing.T) {
	def, err := Parse([]byte("name: q\ncollection: default\nwhere:\n  - {var: nope}\n"))
	require.NoError(t, err)

	_, err = def.Query()
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 4, de.Line)
	assert.Equal(t, "where[0].var", de.Path)
	assert.Equal(t, `line 4: where[0].var: undefined variable "nope"`, de.Error())
}

func TestQuery_DefaultAlias(t *testing.T) {
	def, err := Parse([]byte("name: q\nentity: Contact\ncollection: default\n"))
	require.NoError(t, err)

	m, err := def.Model()
	require.NoError(t, err)
	assert.Equal(t, querymodel.Source{Collection: "default", Alias: DefaultAlias, Entity: "Contact"}, m.Source)
}

func TestModel_SurfacesModelErrors(t *testing.T) {
	def, err := Parse([]byte("name: q\nentity: Contact\ncollection: default\ntake: -1\n"))
	require.NoError(t, err)

	_, err = def.Model()
	require.Error(t, err)
	assert.True(t, ir.IsInvalidQueryModel(err))
	assert.False(t, IsDecodeError(err))
}
