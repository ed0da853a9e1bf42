package store

import (
	"context"
	"fmt"

	"github.com/roach88/docql/internal/ir"
)

// Statement is one row of the statement log.
type Statement struct {
	// Seq is the row's insertion number, assigned by the database.
	Seq int64 `json:"seq"`

	// ID is the client context ID the statement was executed under.
	ID string `json:"id"`

	// Fingerprint identifies the (name, statement) pair.
	Fingerprint string `json:"fingerprint"`

	// Name is the query definition name, empty for ad-hoc statements.
	Name string `json:"name,omitempty"`

	// Statement is the compiled N1QL text.
	Statement string `json:"statement"`

	// RecordedSeq is the logical clock value at record time.
	RecordedSeq int64 `json:"recorded_seq"`
}

// Record appends a statement to the log and returns the stored row.
// The fingerprint is computed when empty. Uses ON CONFLICT(id) DO NOTHING
// for idempotency: recording an existing ID returns the original row.
func (s *Store) Record(ctx context.Context, st Statement) (Statement, error) {
	if st.ID == "" {
		return Statement{}, fmt.Errorf("record statement: id is required")
	}
	if st.Fingerprint == "" {
		fp, err := ir.StatementFingerprint(st.Name, st.Statement)
		if err != nil {
			return Statement{}, fmt.Errorf("record statement: %w", err)
		}
		st.Fingerprint = fp
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO statements
		(id, fingerprint, name, statement, recorded_seq)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		st.ID,
		st.Fingerprint,
		st.Name,
		st.Statement,
		st.RecordedSeq,
	)
	if err != nil {
		return Statement{}, fmt.Errorf("record statement: %w", err)
	}

	stored, err := s.Get(ctx, st.ID)
	if err != nil {
		return Statement{}, fmt.Errorf("record statement: %w", err)
	}
	return stored, nil
}
