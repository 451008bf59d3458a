package constants

import "errors"

// Configuration errors.
var (
	ErrNoCredentials     = errors.New("no credentials configured, use 'ads configure' to add them")
	ErrNoAccountSelected = errors.New("no account selected, pass --account or set account in the config file")
)

// Validation errors.
var (
	ErrInvalidOutputFormat = errors.New("invalid output format")
	ErrInvalidMethod       = errors.New("invalid HTTP method")
	ErrInvalidParam        = errors.New("invalid parameter, expected key=value")
	ErrInvalidGranularity  = errors.New("invalid granularity")
	ErrUnknownResource     = errors.New("unknown resource")
)
