package n1ql

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/roach88/docql/internal/expr"
	"github.com/roach88/docql/internal/fieldmap"
	"github.com/roach88/docql/internal/ir"
	"github.com/roach88/docql/internal/querymodel"
)

// Compiler turns query models into N1QL text.
//
// A Compiler holds no per-call state and is safe for concurrent use as long
// as its Resolver is.
type Compiler struct {
	resolver fieldmap.Resolver
	logger   *slog.Logger
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithResolver sets the member-to-field resolver.
// Default: a fieldmap.Mapper using the lower_first convention.
func WithResolver(r fieldmap.Resolver) CompilerOption {
	return func(c *Compiler) {
		c.resolver = r
	}
}

// WithLogger sets the logger compiled statements are reported to at Debug
// level. Default: slog.Default().
func WithLogger(l *slog.Logger) CompilerOption {
	return func(c *Compiler) {
		c.logger = l
	}
}

// NewCompiler creates a Compiler.
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		opt(c)
	}
	if c.resolver == nil {
		c.resolver = fieldmap.MustNew()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// CompileQuery builds q and compiles the resulting model.
func (c *Compiler) CompileQuery(q *querymodel.Query) (string, error) {
	m, err := q.Build()
	if err != nil {
		return "", err
	}
	return c.Compile(m)
}

// Compile renders m as a N1QL statement.
//
// The model is validated first; an invalid model fails with
// INVALID_QUERY_MODEL before any text is produced.
func (c *Compiler) Compile(m querymodel.Model) (string, error) {
	if err := querymodel.Validate(m); err != nil {
		return "", err
	}

	r := &renderer{resolver: c.resolver, alias: m.Source.Alias}
	var b strings.Builder

	b.WriteString("SELECT ")
	if err := r.writeProjection(&b, m); err != nil {
		return "", err
	}

	b.WriteString(" FROM ")
	b.WriteString(identifier(m.Source.Collection))
	b.WriteString(" as ")
	b.WriteString(m.Source.Alias)

	terms, err := r.whereTerms(m)
	if err != nil {
		return "", err
	}
	if len(terms) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(terms, " AND "))
	}

	if len(m.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		for i, o := range m.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			f, err := r.compile(o.Key)
			if err != nil {
				return "", locate(err, fmt.Sprintf("order_by[%d]", i))
			}
			b.WriteString(f.text)
			b.WriteByte(' ')
			b.WriteString(o.Direction.String())
		}
	}

	if n, ok := m.Limit(); ok {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(n))
	}
	if n, ok := m.Offset(); ok {
		b.WriteString(" OFFSET ")
		b.WriteString(strconv.Itoa(n))
	}

	statement := b.String()
	c.logger.Debug("compiled statement",
		"collection", m.Source.Collection,
		"alias", m.Source.Alias,
		"where_terms", len(terms),
		"statement", statement,
	)
	return statement, nil
}

// CompileExpr renders a single expression whose parameters are bound to
// alias. The fragment is returned without outer parentheses.
func (c *Compiler) CompileExpr(n expr.Node, alias string) (string, error) {
	for _, name := range expr.Params(n) {
		if name != alias {
			return "", ir.InvalidQueryModel("expr", "expression references %q but the alias is %q", name, alias)
		}
	}
	r := &renderer{resolver: c.resolver, alias: alias}
	f, err := r.compile(n)
	if err != nil {
		return "", err
	}
	return f.text, nil
}

func (r *renderer) writeProjection(b *strings.Builder, m querymodel.Model) error {
	if m.Selector == nil {
		b.WriteString(m.Source.Alias)
	} else {
		for i, field := range m.Selector.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			f, err := r.compile(field.Value)
			if err != nil {
				return locate(err, fmt.Sprintf("select[%d]", i))
			}
			b.WriteString(f.text)
			b.WriteString(" as ")
			b.WriteString(field.Alias)
		}
	}

	if m.HasMeta() {
		b.WriteString(", META(")
		b.WriteString(m.Source.Alias)
		b.WriteString(") as ")
		b.WriteString(querymodel.MetaAlias)
	}
	return nil
}

// whereTerms renders filters in insertion order followed by IS MISSING
// assertions in declaration order.
func (r *renderer) whereTerms(m querymodel.Model) ([]string, error) {
	var terms []string
	for i, w := range m.Where {
		f, err := r.compile(w)
		if err != nil {
			return nil, locate(err, fmt.Sprintf("where[%d]", i))
		}
		terms = append(terms, f.embedded())
	}

	for i, op := range m.ResultOperators {
		missing, ok := op.(querymodel.Missing)
		if !ok {
			continue
		}
		f, err := r.compile(missing.Field)
		if err != nil {
			return nil, locate(err, fmt.Sprintf("result_operators[%d]", i))
		}
		terms = append(terms, f.text+" IS MISSING")
	}
	return terms, nil
}

// locate attaches a model field to a compile error.
func locate(err error, field string) error {
	if ce, ok := ir.AsCompileError(err); ok {
		return ce.WithField(field)
	}
	return fmt.Errorf("%s: %w", field, err)
}

// identifier writes name bare when it is a plain identifier and
// back-quoted otherwise.
func identifier(name string) string {
	if querymodel.IsIdentifier(name) {
		return name
	}
	return "`" + name + "`"
}
