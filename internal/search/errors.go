package search

import "fmt"

// SearchError reports a failed search request.
type SearchError struct {
	Query string
	Err   error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search %q failed: %v", e.Query, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }
