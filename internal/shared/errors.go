package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrNoConfigPath  = fmt.Errorf("no configuration file specified")

	// Playlist write errors
	ErrMissingDestination = fmt.Errorf("playlist destination folder not found")
	ErrPermissionDenied   = fmt.Errorf("permission denied")
	ErrWriteFailed        = fmt.Errorf("playlist write failed")
	ErrEncoding           = fmt.Errorf("path is not valid UTF-8")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
