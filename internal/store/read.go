package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when no statement has the requested ID.
var ErrNotFound = errors.New("statement not found")

const selectStatements = `
	SELECT seq, id, fingerprint, name, statement, recorded_seq
	FROM statements
`

// Get returns the statement recorded under id.
func (s *Store) Get(ctx context.Context, id string) (Statement, error) {
	row := s.db.QueryRowContext(ctx, selectStatements+` WHERE id = ?`, id)
	st, err := scanStatement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Statement{}, fmt.Errorf("get %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return Statement{}, fmt.Errorf("get %q: %w", id, err)
	}
	return st, nil
}

// List returns recorded statements in log order. A limit of zero or less
// returns every row.
//
// Returns an empty slice (not nil) if the log is empty.
func (s *Store) List(ctx context.Context, limit int) ([]Statement, error) {
	query := selectStatements + ` ORDER BY recorded_seq ASC, id COLLATE BINARY ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryStatements(ctx, query, args...)
}

// ByFingerprint returns every execution of one (name, statement) pair in
// log order.
func (s *Store) ByFingerprint(ctx context.Context, fingerprint string) ([]Statement, error) {
	return s.queryStatements(ctx, selectStatements+`
		WHERE fingerprint = ?
		ORDER BY recorded_seq ASC, id COLLATE BINARY ASC
	`, fingerprint)
}

func (s *Store) queryStatements(ctx context.Context, query string, args ...any) ([]Statement, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}
	defer rows.Close()

	statements := []Statement{}
	for rows.Next() {
		st, err := scanStatement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		statements = append(statements, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statements: %w", err)
	}
	return statements, nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanStatement(row scanner) (Statement, error) {
	var st Statement
	err := row.Scan(&st.Seq, &st.ID, &st.Fingerprint, &st.Name, &st.Statement, &st.RecordedSeq)
	return st, err
}

// LastSeq returns the highest recorded_seq, or 0 for an empty log. A new
// clock resumes from it.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(recorded_seq) FROM statements`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq.Int64, nil
}
