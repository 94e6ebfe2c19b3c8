package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// Catalog errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrCatalogUnavailable = fmt.Errorf("playlist link inaccessible")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Library errors, absorbed by the matcher and never surfaced past it
	ErrTagsAbsent        = fmt.Errorf("tags absent")
	ErrUnsupportedFormat = fmt.Errorf("unsupported audio format")

	// Outcome markers
	ErrTrackNotFound = fmt.Errorf("track not found")
	ErrEmptyResult   = fmt.Errorf("no tracks matched")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
