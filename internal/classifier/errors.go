package classifier

import "fmt"

// BackendError means the text-generation backend could not produce a
// response at all (transport failure, non-200 status).
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// ParseError means the backend answered but not with the expected
// {"is_vpn": bool, "explanation": string} object, or with nothing usable
// at all (no choices, no candidates).
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse verdict: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
