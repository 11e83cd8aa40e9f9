package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidIP is returned for strings that are not IPv4 or IPv6 addresses.
	ErrInvalidIP = errors.New("not a valid IP address")
	// ErrReservedIP is returned for private, loopback and other
	// non-routable ranges that no registry has a record for.
	ErrReservedIP = errors.New("private or reserved IP address")
	// ErrNoASN is returned when every ASN source came back empty.
	ErrNoASN = errors.New("no ASN record found")
)

// ResolutionError wraps every failure of Resolve.
type ResolutionError struct {
	IP  string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("registry lookup failed: %v", e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }
