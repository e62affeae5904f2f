package dbclient

import "fmt"

// ConnectionError means the host could not be reached or rejected the credentials.
type ConnectionError struct {
	Host  string
	Cause error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("could not connect to %s: %v", e.Host, e.Cause)
}

func (e *ConnectionError) Unwrap() error { return e.Cause }

// FetchError means loading a table page failed; no partial page is returned.
type FetchError struct {
	Database string
	Table    string
	Cause    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("load %s.%s: %v", e.Database, e.Table, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// QueryBlockedError is a policy rejection by the Guard, not an engine failure.
type QueryBlockedError struct {
	Verb string
}

func (e *QueryBlockedError) Error() string {
	return fmt.Sprintf("dangerous operations (%s) are not allowed", e.Verb)
}
