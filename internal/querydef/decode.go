package querydef

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/docql/internal/expr"
	"github.com/roach88/docql/internal/querymodel"
)

// DecodeError reports an expression that could not be decoded.
type DecodeError struct {
	Path    string // e.g. "where[0].and[1]"
	Line    int
	Message string
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// IsDecodeError returns true if err is a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// Query builds the query model builder described by the definition.
func (d *Definition) Query() (*querymodel.Query, error) {
	alias := d.Alias
	if alias == "" {
		alias = DefaultAlias
	}
	q := querymodel.From(d.Collection, alias, d.Entity)
	dec := &decoder{def: d, param: q.Param()}

	for i := range d.Where {
		n, err := dec.expr(fmt.Sprintf("where[%d]", i), &d.Where[i])
		if err != nil {
			return nil, err
		}
		q = q.Where(n)
	}

	for i, path := range d.Missing {
		m, err := dec.member(fmt.Sprintf("missing[%d]", i), path, 0)
		if err != nil {
			return nil, err
		}
		q = q.WhereMissing(m)
	}

	for i := range d.OrderBy {
		o := &d.OrderBy[i]
		key, err := dec.expr(fmt.Sprintf("order_by[%d].key", i), &o.Key)
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(o.Dir, "desc") {
			q = q.OrderByDescending(key)
		} else {
			q = q.OrderBy(key)
		}
	}

	if len(d.Select) > 0 {
		fields := make([]querymodel.ProjectedField, len(d.Select))
		for i := range d.Select {
			value, err := dec.expr(fmt.Sprintf("select[%d].value", i), &d.Select[i].Value)
			if err != nil {
				return nil, err
			}
			fields[i] = querymodel.As(d.Select[i].As, value)
		}
		q = q.Select(fields...)
	}

	if d.Meta {
		q = q.Meta()
	}
	if d.Take != nil {
		q = q.Take(*d.Take)
	}
	if d.Skip != nil {
		q = q.Skip(*d.Skip)
	}
	return q, nil
}

// Model builds and validates the query model.
func (d *Definition) Model() (querymodel.Model, error) {
	q, err := d.Query()
	if err != nil {
		return querymodel.Model{}, err
	}
	return q.Build()
}

type decoder struct {
	def   *Definition
	param *expr.Param
}

func (d *decoder) errorf(n *yaml.Node, path, format string, args ...any) error {
	line := 0
	if n != nil {
		line = n.Line
	}
	return &DecodeError{Path: path, Line: line, Message: fmt.Sprintf(format, args...)}
}

func (d *decoder) expr(path string, n *yaml.Node) (expr.Node, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, d.errorf(n, path, "invalid literal: %v", err)
		}
		return expr.Const(v), nil

	case yaml.SequenceNode:
		var v []any
		if err := n.Decode(&v); err != nil {
			return nil, d.errorf(n, path, "invalid list literal: %v", err)
		}
		return expr.Const(v), nil

	case yaml.AliasNode:
		return d.expr(path, n.Alias)

	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, d.errorf(n, path, "expression must have exactly one key, got %d", len(n.Content)/2)
		}
		return d.operator(path, n.Content[0].Value, n.Content[1])
	}

	return nil, d.errorf(n, path, "expression is required")
}

func (d *decoder) operator(path, key string, val *yaml.Node) (expr.Node, error) {
	path = path + "." + key

	switch key {
	case "member":
		return d.member(path, val.Value, val.Line)

	case "var":
		v, ok := d.def.Vars[val.Value]
		if !ok {
			return nil, d.errorf(val, path, "undefined variable %q", val.Value)
		}
		return expr.Ref(val.Value, v), nil

	case "param":
		return expr.P(val.Value), nil

	case "const":
		var v any
		if err := val.Decode(&v); err != nil {
			return nil, d.errorf(val, path, "invalid constant: %v", err)
		}
		return expr.Const(v), nil

	case "not", "neg":
		operand, err := d.expr(path, val)
		if err != nil {
			return nil, err
		}
		if key == "not" {
			return expr.Not(operand), nil
		}
		return expr.Neg(operand), nil

	case "call":
		return d.call(path, val)

	case "contains", "starts_with", "ends_with":
		args, err := d.list(path, val, 2, 2)
		if err != nil {
			return nil, err
		}
		method := map[string]expr.Method{
			"contains":    expr.MethodContains,
			"starts_with": expr.MethodStartsWith,
			"ends_with":   expr.MethodEndsWith,
		}[key]
		return expr.Invoke(args[0], method, args[1]), nil
	}

	op, ok := expr.ParseOp(key)
	if !ok || !op.IsBinary() {
		return nil, d.errorf(val, path, "unknown operator %q", key)
	}
	if op == expr.OpAnd || op == expr.OpOr {
		operands, err := d.list(path, val, 2, -1)
		if err != nil {
			return nil, err
		}
		if op == expr.OpAnd {
			return expr.And(operands[0], operands[1:]...), nil
		}
		return expr.Or(operands[0], operands[1:]...), nil
	}
	operands, err := d.list(path, val, 2, 2)
	if err != nil {
		return nil, err
	}
	return expr.Bin(op, operands[0], operands[1]), nil
}

// list decodes a sequence of expressions with min..max elements (max < 0
// means unbounded).
func (d *decoder) list(path string, n *yaml.Node, minLen, maxLen int) ([]expr.Node, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, path, "expected a list of operands")
	}
	count := len(n.Content)
	if count < minLen || (maxLen >= 0 && count > maxLen) {
		if minLen == maxLen {
			return nil, d.errorf(n, path, "expected %d operands, got %d", minLen, count)
		}
		return nil, d.errorf(n, path, "expected at least %d operands, got %d", minLen, count)
	}

	out := make([]expr.Node, count)
	for i, item := range n.Content {
		node, err := d.expr(fmt.Sprintf("%s[%d]", path, i), item)
		if err != nil {
			return nil, err
		}
		out[i] = node
	}
	return out, nil
}

func (d *decoder) call(path string, n *yaml.Node) (expr.Node, error) {
	var call struct {
		Method string      `yaml:"method"`
		Target yaml.Node   `yaml:"target"`
		Args   []yaml.Node `yaml:"args"`
	}
	if err := n.Decode(&call); err != nil {
		return nil, d.errorf(n, path, "invalid call: %v", err)
	}
	if call.Method == "" {
		return nil, d.errorf(n, path, "method is required")
	}

	target, err := d.expr(path+".target", &call.Target)
	if err != nil {
		return nil, err
	}
	var args []expr.Node
	for i := range call.Args {
		arg, err := d.expr(fmt.Sprintf("%s.args[%d]", path, i), &call.Args[i])
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return expr.Invoke(target, expr.Method(call.Method), args...), nil
}

// member decodes a dotted member path. The first segment belongs to the
// definition's entity; each later segment to the entity named after the
// segment before it.
func (d *decoder) member(path, dotted string, line int) (*expr.Member, error) {
	if dotted == "" {
		return nil, &DecodeError{Path: path, Line: line, Message: "member path is required"}
	}

	var (
		target expr.Node = d.param
		entity           = d.def.Entity
		m      *expr.Member
	)
	for _, seg := range strings.Split(dotted, ".") {
		if !querymodel.IsIdentifier(seg) {
			return nil, &DecodeError{Path: path, Line: line, Message: fmt.Sprintf("invalid member path %q", dotted)}
		}
		m = expr.Field(target, entity, seg)
		target, entity = m, seg
	}
	return m, nil
}
