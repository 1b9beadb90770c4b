package store

import "fmt"

// ConnectionError means the database handle could not be opened or pinged.
// It is always retryable: fix the settings and connect again.
type ConnectionError struct {
	Target string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to %s: %v", e.Target, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError means one of the estimate fetch statements failed; the whole load is aborted.
type QueryError struct {
	Table string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("load failed: %s: %v", e.Table, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
