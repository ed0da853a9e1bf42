package querymodel

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/docql/internal/expr"
	"github.com/roach88/docql/internal/ir"
)

// MetaAlias is the output name of the metadata projection.
const MetaAlias = "meta"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether s can be written without escaping.
func IsIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// Validate checks the structural invariants of m. The first violation is
// returned as an INVALID_QUERY_MODEL error naming the offending field.
//
// Validate is a pure function with no side effects.
func Validate(m Model) error {
	if strings.TrimSpace(m.Source.Collection) == "" {
		return ir.InvalidQueryModel("source.collection", "empty collection name")
	}
	if strings.ContainsRune(m.Source.Collection, '`') {
		return ir.InvalidQueryModel("source.collection", "collection name %q contains a backtick", m.Source.Collection)
	}
	if m.Source.Alias == "" {
		return ir.InvalidQueryModel("source.alias", "empty alias")
	}
	if !IsIdentifier(m.Source.Alias) {
		return ir.InvalidQueryModel("source.alias", "alias %q is not an identifier", m.Source.Alias)
	}

	v := validator{alias: m.Source.Alias}

	for i, w := range m.Where {
		if err := v.checkExpr(fmt.Sprintf("where[%d]", i), w); err != nil {
			return err
		}
	}

	for i, o := range m.OrderBy {
		field := fmt.Sprintf("order_by[%d]", i)
		if err := v.checkExpr(field, o.Key); err != nil {
			return err
		}
		if o.Direction != Ascending && o.Direction != Descending {
			return ir.InvalidQueryModel(field, "unknown sort direction %d", o.Direction)
		}
	}

	if err := v.checkProjection(m); err != nil {
		return err
	}

	return v.checkResultOperators(m.ResultOperators)
}

// validator carries the context shared by the per-clause checks.
type validator struct {
	alias string
}

func (v validator) checkExpr(field string, n expr.Node) error {
	if n == nil {
		return ir.InvalidQueryModel(field, "nil expression")
	}
	for _, name := range expr.Params(n) {
		if name != v.alias {
			return ir.InvalidQueryModel(field, "expression references %q but the source alias is %q", name, v.alias)
		}
	}
	return nil
}

func (v validator) checkProjection(m Model) error {
	if m.Selector == nil {
		return nil
	}
	if len(m.Selector.Fields) == 0 {
		return ir.InvalidQueryModel("select", "projection has no fields")
	}

	seen := make(map[string]bool, len(m.Selector.Fields))
	for i, f := range m.Selector.Fields {
		field := fmt.Sprintf("select[%d]", i)
		if !IsIdentifier(f.Alias) {
			return ir.InvalidQueryModel(field, "output name %q is not an identifier", f.Alias)
		}
		if seen[f.Alias] {
			return ir.InvalidQueryModel(field, "duplicate output name %q", f.Alias)
		}
		seen[f.Alias] = true
		if err := v.checkExpr(field, f.Value); err != nil {
			return err
		}
	}

	if seen[MetaAlias] && m.HasMeta() {
		return ir.InvalidQueryModel("select", "output name %q collides with the metadata projection", MetaAlias)
	}
	return nil
}

func (v validator) checkResultOperators(ops []ResultOperator) error {
	counts := make(map[string]int)
	for i, op := range ops {
		field := fmt.Sprintf("result_operators[%d]", i)

		switch o := op.(type) {
		case Missing:
			if o.Field == nil {
				return ir.InvalidQueryModel(field, "missing operator without a field")
			}
			if err := v.checkExpr(field, o.Field); err != nil {
				return err
			}
			// Missing may repeat, one IS MISSING term each.
			continue
		case Meta:
		case Take:
			if o.Count < 0 {
				return ir.InvalidQueryModel(field, "negative take count %d", o.Count)
			}
		case Skip:
			if o.Count < 0 {
				return ir.InvalidQueryModel(field, "negative skip count %d", o.Count)
			}
		case nil:
			return ir.InvalidQueryModel(field, "nil result operator")
		default:
			return ir.InvalidQueryModel(field, "unknown result operator %T", op)
		}

		name := OperatorName(op)
		counts[name]++
		if counts[name] > 1 {
			return ir.InvalidQueryModel(field, "duplicate %s operator", name)
		}
	}
	return nil
}
