package device

import (
	"errors"
	"fmt"

	"github.com/fivetwenty-io/devapi/internal/constants"
)

// ErrorKind classifies client failures.
type ErrorKind int

const (
	// KindUnknown is never produced by this package.
	KindUnknown ErrorKind = iota
	// KindConfig means the Config was incomplete.
	KindConfig
	// KindTransport means the request could not be sent or answered.
	KindTransport
	// KindDecode means the login response was not a JSON object with a string token.
	KindDecode
	// KindMissingToken means the login response had no usable "token" member.
	KindMissingToken
	// KindBodyNotText means a device response body was not valid UTF-8 text.
	KindBodyNotText
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindMissingToken:
		return "missing-token"
	case KindBodyNotText:
		return "body-not-text"
	default:
		return "unknown"
	}
}

// Re-exported sentinels for errors.Is checks by callers.
var (
	ErrDomainRequired  = constants.ErrDomainRequired
	ErrMissingToken    = constants.ErrMissingToken
	ErrInvalidResponse = constants.ErrInvalidLoginResponse
	ErrBodyNotText     = constants.ErrBodyNotText
	ErrRequestFailed   = constants.ErrRequestFailed
)

// Error is returned by every Client operation.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) ErrorKind {
	devErr := &Error{}
	if errors.As(err, &devErr) {
		return devErr.Kind
	}

	return KindUnknown
}

// IsKind checks if err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// classify maps errors from the transport and login layers to a kind.
func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, constants.ErrMissingToken):
		return KindMissingToken
	case errors.Is(err, constants.ErrInvalidLoginResponse), errors.Is(err, constants.ErrTokenNotString):
		return KindDecode
	case errors.Is(err, constants.ErrBodyNotText):
		return KindBodyNotText
	case errors.Is(err, constants.ErrDomainRequired):
		return KindConfig
	default:
		return KindTransport
	}
}

func wrap(op string, err error) error {
	return &Error{Kind: classify(err), Op: op, Err: err}
}
