// Package db holds storage-engine error types shared by the SQLite and Redis
// backends.
package db

import "errors"

// ErrKeyNotFound signals a missing key in the key-value cache backend.
var ErrKeyNotFound = errors.New("db: key not found")

// Op constants name storage operations for error context.
const (
	OpOpen    = "open"
	OpExec    = "exec"
	OpQuery   = "query"
	OpBegin   = "begin"
	OpCommit  = "commit"
	OpScan    = "scan"
	OpGet     = "GET"
	OpSet     = "SET"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
