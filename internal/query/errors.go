package query

import "fmt"

// QueryError wraps a failed query with the operation that issued it.
// Callers are expected to treat any QueryError as "no data available" and
// publish an empty state rather than propagate it to the UI.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func queryErr(op string, err error) *QueryError {
	return &QueryError{Op: op, Err: err}
}
