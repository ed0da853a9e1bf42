package n1ql

import (
	"strings"

	"github.com/roach88/docql/internal/expr"
	"github.com/roach88/docql/internal/fieldmap"
	"github.com/roach88/docql/internal/ir"
	"github.com/roach88/docql/internal/literal"
)

// precAtom marks fragments that never need wrapping: literals, paths,
// function calls and binary nodes, which carry their own parentheses.
const precAtom = 100

// fragment is rendered text plus the precedence of its outermost construct.
type fragment struct {
	text string
	prec int
}

func atom(text string) fragment {
	return fragment{text: text, prec: precAtom}
}

// embedded returns the text as it appears inside a binary node or as a
// WHERE term: anything that is not atomic gets parentheses.
func (f fragment) embedded() string {
	if f.prec < precAtom {
		return "(" + f.text + ")"
	}
	return f.text
}

// operandOf returns the text as the operand of a prefix operator with the
// given precedence.
func (f fragment) operandOf(op expr.Op) string {
	if f.prec <= op.Precedence() {
		return "(" + f.text + ")"
	}
	return f.text
}

// renderer holds the per-compilation context.
type renderer struct {
	resolver fieldmap.Resolver
	alias    string
}

// compile folds n and renders the result.
func (r *renderer) compile(n expr.Node) (fragment, error) {
	folded, err := expr.Fold(n)
	if err != nil {
		return fragment{}, err
	}
	return r.render(folded)
}

func (r *renderer) render(n expr.Node) (fragment, error) {
	switch node := n.(type) {
	case *expr.Constant:
		v, ok := node.Value.(ir.IRValue)
		if !ok {
			return fragment{}, ir.UnsupportedExpression("Constant", "unfolded constant of type %T", node.Value)
		}
		text, err := literal.FormatValue(v)
		if err != nil {
			return fragment{}, err
		}
		return atom(text), nil

	case *expr.Param:
		return atom(node.Name), nil

	case *expr.Member:
		path, err := r.memberPath(node)
		if err != nil {
			return fragment{}, err
		}
		return atom(path), nil

	case *expr.Binary:
		return r.renderBinary(node)

	case *expr.Unary:
		operand, err := r.render(node.Operand)
		if err != nil {
			return fragment{}, err
		}
		switch node.Op {
		case expr.OpNot:
			return fragment{text: "NOT " + operand.operandOf(node.Op), prec: node.Op.Precedence()}, nil
		case expr.OpNeg:
			return fragment{text: "-" + operand.operandOf(node.Op), prec: node.Op.Precedence()}, nil
		}
		return fragment{}, ir.UnsupportedExpression("Unary", "operator %s is not unary", node.Op)

	case *expr.Call:
		return r.renderCall(node)
	}

	return fragment{}, ir.UnsupportedExpression(expr.KindOf(n), "unsupported expression node %T", n)
}

// memberPath renders <alias>.<field>[.<field>]* through the resolver.
func (r *renderer) memberPath(m *expr.Member) (string, error) {
	var target string
	switch t := m.Target.(type) {
	case *expr.Param:
		target = t.Name
	case *expr.Member:
		path, err := r.memberPath(t)
		if err != nil {
			return "", err
		}
		target = path
	default:
		err := ir.UnsupportedExpression("Member", "member access on %s", expr.KindOf(m.Target))
		err.Member = m.Name
		return "", err
	}

	field := r.resolver.FieldName(m.Entity, m.Name)
	if field == "" || strings.ContainsRune(field, '`') {
		err := ir.UnsupportedExpression("Member", "member maps to unusable field name %q", field)
		err.Member = m.Name
		return "", err
	}
	return target + "." + identifier(field), nil
}

func (r *renderer) renderBinary(b *expr.Binary) (fragment, error) {
	if b.Op.IsComparison() {
		if f, ok, err := r.renderAbsence(b); ok || err != nil {
			return f, err
		}
	}

	left, err := r.render(b.Left)
	if err != nil {
		return fragment{}, err
	}
	right, err := r.render(b.Right)
	if err != nil {
		return fragment{}, err
	}

	token := b.Op.Token()
	if b.Op == expr.OpAdd && (isStringValued(b.Left) || isStringValued(b.Right)) {
		token = expr.OpConcat.Token()
	}
	if token == "" {
		return fragment{}, ir.UnsupportedExpression("Binary", "operator %s is not binary", b.Op)
	}

	return atom("(" + left.embedded() + " " + token + " " + right.embedded() + ")"), nil
}

// renderAbsence turns `x = NULL` and `x = MISSING` (and their negations)
// into IS [NOT] NULL / IS [NOT] MISSING.
func (r *renderer) renderAbsence(b *expr.Binary) (fragment, bool, error) {
	subject, keyword := b.Left, absenceKeyword(b.Right)
	if keyword == "" {
		subject, keyword = b.Right, absenceKeyword(b.Left)
	}
	if keyword == "" {
		return fragment{}, false, nil
	}

	var not string
	switch b.Op {
	case expr.OpEq:
	case expr.OpNe:
		not = "NOT "
	default:
		return fragment{}, false, ir.UnsupportedExpression("Binary", "operator %s cannot compare with %s", b.Op, keyword)
	}

	f, err := r.render(subject)
	if err != nil {
		return fragment{}, false, err
	}
	return fragment{
		text: f.embedded() + " IS " + not + keyword,
		prec: expr.OpEq.Precedence(),
	}, true, nil
}

func (r *renderer) renderCall(c *expr.Call) (fragment, error) {
	want, ok := expr.Arity(c.Method)
	if !ok {
		err := ir.UnsupportedExpression("Call", "unsupported method %s", c.Method)
		err.Member = string(c.Method)
		return fragment{}, err
	}
	if len(c.Args) != want {
		err := ir.UnsupportedExpression("Call", "method %s takes %d argument(s), got %d", c.Method, want, len(c.Args))
		err.Member = string(c.Method)
		return fragment{}, err
	}

	if c.Method == expr.MethodContains {
		if arr, ok := constantValue(c.Target).(ir.IRArray); ok {
			return r.renderIn(arr, c.Args[0])
		}
	}

	target, err := r.render(c.Target)
	if err != nil {
		return fragment{}, err
	}

	switch c.Method {
	case expr.MethodToUpper:
		return atom("UPPER(" + target.text + ")"), nil
	case expr.MethodToLower:
		return atom("LOWER(" + target.text + ")"), nil
	case expr.MethodTrim:
		return atom("TRIM(" + target.text + ")"), nil
	case expr.MethodLength:
		return atom("LENGTH(" + target.text + ")"), nil
	}

	pattern, err := r.pattern(c)
	if err != nil {
		return fragment{}, err
	}
	return fragment{
		text: target.embedded() + " LIKE " + pattern,
		prec: expr.OpEq.Precedence(),
	}, nil
}

// pattern builds the LIKE pattern for Contains, StartsWith and EndsWith.
// A constant argument becomes a quoted pattern literal; any other argument
// is concatenated with the wildcards.
func (r *renderer) pattern(c *expr.Call) (string, error) {
	prefix, suffix := "%", "%"
	switch c.Method {
	case expr.MethodStartsWith:
		prefix = ""
	case expr.MethodEndsWith:
		suffix = ""
	}

	arg := c.Args[0]
	if v := constantValue(arg); v != nil {
		s, ok := v.(ir.IRString)
		if !ok {
			err := ir.UnsupportedExpression("Call", "method %s needs a string argument, got %s", c.Method, ir.Kind(v))
			err.Member = string(c.Method)
			return "", err
		}
		return literal.Quote(prefix + string(s) + suffix), nil
	}

	f, err := r.render(arg)
	if err != nil {
		return "", err
	}
	parts := []string{f.embedded()}
	if prefix != "" {
		parts = append([]string{literal.Quote(prefix)}, parts...)
	}
	if suffix != "" {
		parts = append(parts, literal.Quote(suffix))
	}
	return "(" + strings.Join(parts, " || ") + ")", nil
}

// renderIn renders a membership test against a constant array.
func (r *renderer) renderIn(arr ir.IRArray, needle expr.Node) (fragment, error) {
	f, err := r.render(needle)
	if err != nil {
		return fragment{}, err
	}
	list, err := literal.FormatValue(arr)
	if err != nil {
		return fragment{}, err
	}
	return fragment{
		text: f.embedded() + " IN " + list,
		prec: expr.OpEq.Precedence(),
	}, nil
}

func constantValue(n expr.Node) ir.IRValue {
	c, ok := n.(*expr.Constant)
	if !ok {
		return nil
	}
	v, _ := c.Value.(ir.IRValue)
	return v
}

// isStringValued reports whether n is known to produce a string: a string
// constant, a concatenation or a string function. Members are untyped, so
// Add of two members stays arithmetic; callers use Concat for those.
func isStringValued(n expr.Node) bool {
	switch node := n.(type) {
	case *expr.Constant:
		_, ok := constantValue(node).(ir.IRString)
		return ok
	case *expr.Binary:
		return node.Op == expr.OpConcat ||
			(node.Op == expr.OpAdd && (isStringValued(node.Left) || isStringValued(node.Right)))
	case *expr.Call:
		switch node.Method {
		case expr.MethodToUpper, expr.MethodToLower, expr.MethodTrim:
			return true
		}
	}
	return false
}

func absenceKeyword(n expr.Node) string {
	switch constantValue(n).(type) {
	case ir.IRNull:
		return literal.KeywordNull
	case ir.IRMissing:
		return literal.KeywordMissing
	}
	return ""
}
