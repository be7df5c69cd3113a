package constants

import "errors"

// Configuration errors.
var (
	ErrNoHomeDir         = errors.New("could not determine home directory")
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// Command errors.
var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("arguments must be a JSON object")
	ErrPasswordRequired = errors.New("password is required")
	ErrUsernameRequired = errors.New("username is required")
)
