package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/docql/internal/exec"
	"github.com/roach88/docql/internal/fieldmap"
	"github.com/roach88/docql/internal/ir"
	"github.com/roach88/docql/internal/n1ql"
	"github.com/roach88/docql/internal/querydef"
	"github.com/roach88/docql/internal/store"
	"github.com/roach88/docql/internal/testutil"
)

// Harness is the scenario execution engine.
type Harness struct {
	compiler *n1ql.Compiler
	executor exec.Executor
	logger   *slog.Logger
}

type options struct {
	resolver fieldmap.Resolver
	logger   *slog.Logger
}

// Option configures a run.
type Option func(*options)

// WithResolver sets the member-to-field resolver scenarios compile with.
// Default: a fieldmap.Mapper using the lower_first convention.
func WithResolver(r fieldmap.Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// WithLogger sets the logger. Default: logs are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory statement log for isolation.
// Unmet expectations are reported in the result; the returned error is
// reserved for scenarios that cannot be run at all.
func Run(scenario *querydef.Definition, opts ...Option) (*Result, error) {
	o := options{
		resolver: fieldmap.MustNew(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	for _, opt := range opts {
		opt(&o)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		compiler: n1ql.NewCompiler(n1ql.WithResolver(o.resolver), n1ql.WithLogger(o.logger)),
		executor: exec.NewRecorder(st,
			exec.WithIDGenerator(exec.NewFixedGenerator(scenario.Name)),
			exec.WithClock(testutil.NewDeterministicClock()),
			exec.WithLogger(o.logger),
		),
		logger: o.logger,
	}

	return h.run(context.Background(), scenario)
}

// RunAll executes scenarios in order and aggregates their results.
func RunAll(scenarios []*querydef.Definition, opts ...Option) (*Summary, error) {
	summary := &Summary{Results: []*Result{}}
	for _, scenario := range scenarios {
		result, err := Run(scenario, opts...)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}
		summary.Add(result)
	}
	return summary, nil
}

func (h *Harness) run(ctx context.Context, scenario *querydef.Definition) (*Result, error) {
	q, err := scenario.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}

	result := NewResult(scenario.Name)

	stmt, err := h.compiler.CompileQuery(q)
	if err != nil {
		ce, ok := ir.AsCompileError(err)
		if !ok {
			return nil, fmt.Errorf("failed to compile scenario: %w", err)
		}
		result.ErrorCode = string(ce.Code)
		switch {
		case scenario.ExpectError == "":
			result.AddError(fmt.Sprintf("unexpected compile error: %v", err))
		case scenario.ExpectError != result.ErrorCode:
			result.AddError(fmt.Sprintf("expected error %s, got %v", scenario.ExpectError, err))
		}
		h.logger.Info("scenario rejected",
			"scenario", scenario.Name,
			"error_code", result.ErrorCode,
			"pass", result.Pass,
		)
		return result, nil
	}

	result.Statement = stmt
	if scenario.ExpectError != "" {
		result.AddError(fmt.Sprintf("expected error %s, compiled: %s", scenario.ExpectError, stmt))
	}
	if want := strings.TrimSpace(scenario.Expect); want != "" && want != stmt {
		result.AddError(fmt.Sprintf("statement mismatch:\n  expected: %s\n  actual:   %s", want, stmt))
	}

	receipt, err := h.executor.Execute(ctx, exec.Request{Name: scenario.Name, Statement: stmt})
	if err != nil {
		return nil, fmt.Errorf("failed to record statement: %w", err)
	}
	result.Receipt = &receipt

	h.logger.Info("scenario compiled",
		"scenario", scenario.Name,
		"fingerprint", receipt.Fingerprint,
		"pass", result.Pass,
	)
	return result, nil
}
