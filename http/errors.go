package http

import (
	"errors"
	"fmt"
)

var (
	ErrServerClosed      = errors.New("http: server closed")
	ErrUnsupportedStatus = errors.New("http: unsupported status")
)

// ParseErrorKind is the category of a strict-mode parse failure.
type ParseErrorKind int

const (
	ParseErrorEmpty ParseErrorKind = iota + 1
	ParseErrorRequestLine
	ParseErrorHeader
)

func (k ParseErrorKind) String() string {
	switch k {
	case ParseErrorEmpty:
		return "empty request"
	case ParseErrorRequestLine:
		return "malformed request line"
	case ParseErrorHeader:
		return "malformed header"
	default:
		return "unknown parse error"
	}
}

type ParseError struct {
	Kind ParseErrorKind
	Line string
}

func (e *ParseError) Error() string {
	if e.Line == "" {
		return fmt.Sprintf("http: %s", e.Kind)
	}
	return fmt.Sprintf("http: %s: %q", e.Kind, e.Line)
}

type UnsupportedStatusError struct {
	Status Status
}

func (e *UnsupportedStatusError) Error() string {
	return fmt.Sprintf("http: unsupported status %d", e.Status)
}

func (e *UnsupportedStatusError) Is(target error) bool {
	return target == ErrUnsupportedStatus
}
