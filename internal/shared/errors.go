package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Request lifecycle errors
	ErrEmptyInput        = fmt.Errorf("empty video URL")
	ErrBusy              = fmt.Errorf("a generation request is already in flight")
	ErrTransport         = fmt.Errorf("request could not complete")
	ErrApplication       = fmt.Errorf("backend reported a failure")
	ErrInvalidTransition = fmt.Errorf("invalid request state transition")
	ErrRender            = fmt.Errorf("failed to render blog post")

	// Pipeline and service errors
	ErrPipeline           = fmt.Errorf("pipeline failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrNoSubtitles        = fmt.Errorf("no subtitles found")
	ErrPostNotFound       = fmt.Errorf("post not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidVideoURL = fmt.Errorf("invalid video URL")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
