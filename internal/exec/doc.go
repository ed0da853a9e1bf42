// Package exec is the boundary between compiled statements and whatever
// runs them.
//
// No cluster transport lives here. The Recorder executor performs a dry
// run: each request is stamped with a logical clock value and appended to
// the statement log, so a compiled query can be inspected and replayed by
// fingerprint.
package exec
