package constants

import "errors"

// Configuration errors.
var (
	ErrDomainRequired      = errors.New("domain is required")
	ErrCredentialsRequired = errors.New("username and password are required")
	ErrSimulationRequired  = errors.New("simulation id is required")
	ErrDeviceRequired      = errors.New("device id is required")
	ErrUnknownOutputFormat = errors.New("unknown output format")
)

// Authentication errors.
var (
	ErrMissingToken         = errors.New("'token' member does not exist on the authentication response")
	ErrInvalidLoginResponse = errors.New("authentication response is not a JSON object")
	ErrTokenNotString       = errors.New("'token' member is not a string")
	ErrTokenAlreadySet      = errors.New("token already set")
	ErrNotAuthenticated     = errors.New("not authenticated")
)

// Transport errors.
var (
	ErrRequestFailed = errors.New("request failed")
	ErrBodyNotText   = errors.New("response body is not valid text")
)
