package server

import (
	"crypto/subtle"
	"errors"
)

// ErrUnauthorized is returned when the presented key does not match.
var ErrUnauthorized = errors.New("could not validate credentials")

// checkKey compares presented against the configured secret in constant
// time. An empty secret or an empty presented key never matches.
func checkKey(secret, presented string) error {
	if secret == "" || presented == "" {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(presented)) != 1 {
		return ErrUnauthorized
	}
	return nil
}
