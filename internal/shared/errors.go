package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Fetch errors
	ErrNetwork   = fmt.Errorf("network failure")
	ErrTimeout   = fmt.Errorf("request timed out")
	ErrBadStatus = fmt.Errorf("unexpected HTTP status")

	// Parse errors
	ErrParse = fmt.Errorf("expected markup structure not found")

	// Lookup and matching errors
	ErrChannelNotFound  = fmt.Errorf("channel not found")
	ErrSnapshotNotFound = fmt.Errorf("snapshot not found")
	ErrInvalidQuery     = fmt.Errorf("empty query")
	ErrNoMatch          = fmt.Errorf("no songs to match against")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
