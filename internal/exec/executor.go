package exec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/docql/internal/n1ql"
	"github.com/roach88/docql/internal/querymodel"
	"github.com/roach88/docql/internal/store"
)

// ErrEmptyStatement is returned when a request carries no statement text.
var ErrEmptyStatement = errors.New("empty statement")

// Request is one statement submitted for execution.
type Request struct {
	// Name is the query definition name, empty for ad-hoc statements.
	Name string

	// Statement is the compiled N1QL text.
	Statement string

	// ClientContextID correlates the request in logs. Generated when empty.
	ClientContextID string
}

// Receipt acknowledges an executed request.
type Receipt struct {
	ClientContextID string `json:"client_context_id"`
	Fingerprint     string `json:"fingerprint"`
	Seq             int64  `json:"seq"`
	Statement       string `json:"statement"`
}

// Executor runs compiled statements.
type Executor interface {
	Execute(ctx context.Context, req Request) (Receipt, error)
}

// StatementLog is the append-only sink a Recorder writes to.
// *store.Store implements it.
type StatementLog interface {
	Record(ctx context.Context, st store.Statement) (store.Statement, error)
}

// Recorder is a dry-run Executor that appends every request to a
// statement log instead of sending it to a cluster.
type Recorder struct {
	log    StatementLog
	clock  Clock
	ids    IDGenerator
	logger *slog.Logger
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithClock sets the sequence source. Defaults to a LogicalClock at 0.
func WithClock(c Clock) RecorderOption {
	return func(r *Recorder) {
		r.clock = c
	}
}

// WithIDGenerator sets the client context ID source. Defaults to UUIDv7.
func WithIDGenerator(g IDGenerator) RecorderOption {
	return func(r *Recorder) {
		r.ids = g
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = l
	}
}

// NewRecorder creates a Recorder writing to log.
func NewRecorder(log StatementLog, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		log:    log,
		clock:  NewClock(),
		ids:    UUIDv7Generator{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute stamps the request and records it.
func (r *Recorder) Execute(ctx context.Context, req Request) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if req.Statement == "" {
		return Receipt{}, ErrEmptyStatement
	}

	id := req.ClientContextID
	if id == "" {
		id = r.ids.Generate()
	}

	stored, err := r.log.Record(ctx, store.Statement{
		ID:          id,
		Name:        req.Name,
		Statement:   req.Statement,
		RecordedSeq: r.clock.Next(),
	})
	if err != nil {
		return Receipt{}, fmt.Errorf("execute %q: %w", id, err)
	}

	r.logger.Info("recorded statement",
		"client_context_id", stored.ID,
		"name", stored.Name,
		"seq", stored.RecordedSeq,
		"fingerprint", stored.Fingerprint,
	)

	return Receipt{
		ClientContextID: stored.ID,
		Fingerprint:     stored.Fingerprint,
		Seq:             stored.RecordedSeq,
		Statement:       stored.Statement,
	}, nil
}

// ExecuteQuery compiles q and submits the statement to ex under name.
func ExecuteQuery(ctx context.Context, ex Executor, c *n1ql.Compiler, name string, q *querymodel.Query) (Receipt, error) {
	stmt, err := c.CompileQuery(q)
	if err != nil {
		return Receipt{}, err
	}
	return ex.Execute(ctx, Request{Name: name, Statement: stmt})
}
