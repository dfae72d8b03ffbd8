package jkanime

import (
	"errors"
	"fmt"
)

var (
	ErrMissingElement = errors.New("element not found")
	ErrOutOfRange     = errors.New("element index out of range")
	ErrEmptyValue     = errors.New("empty value")
)

// NetworkError is returned when a request fails in transport or comes back
// with a non-2xx status.
type NetworkError struct {
	Url string
	// StatusCode is 0 when the request never got a response.
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GET %s: unexpected status %d", e.Url, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: %v", e.Url, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError is returned when a page does not have the markup a field is
// extracted from, this usually means the site layout changed.
type ParseError struct {
	Url   string
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s from %s: %v", e.Field, e.Url, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
