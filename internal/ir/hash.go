package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainStatement is the domain prefix for statement fingerprints.
// Version suffix enables future algorithm migration.
const DomainStatement = "docql/statement/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// StatementFingerprint computes a content-addressed identity for a compiled
// statement. The same (name, statement) pair always yields the same value.
func StatementFingerprint(name, statement string) (string, error) {
	obj := IRObject{
		"name":      IRString(name),
		"statement": IRString(statement),
		"version":   IRString(ModelVersion),
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("StatementFingerprint: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainStatement, canonical), nil
}

// MustStatementFingerprint is like StatementFingerprint but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustStatementFingerprint(name, statement string) string {
	fp, err := StatementFingerprint(name, statement)
	if err != nil {
		panic(err)
	}
	return fp
}
