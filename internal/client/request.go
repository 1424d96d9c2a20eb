package client

import (
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/ytblog/internal/shared"
)

// RequestState is the lifecycle position of a [Request].
type RequestState int

const (
	NotStarted RequestState = iota
	InFlight
	Succeeded
	Failed
)

func (s RequestState) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InFlight:
		return "in_flight"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

// Request tracks one generation attempt.
//
// A Request moves NotStarted → InFlight → (Succeeded | Failed) exactly once.
type Request struct {
	mu         sync.RWMutex
	videoURL   string
	state      RequestState
	blogPost   string
	err        error
	startedAt  time.Time
	finishedAt time.Time
}

// NewRequest creates a NotStarted request for videoURL.
func NewRequest(videoURL string) *Request {
	return &Request{videoURL: videoURL}
}

func (r *Request) VideoURL() string { return r.videoURL }

// State returns the current lifecycle state.
func (r *Request) State() RequestState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Outstanding reports whether the request is in flight.
func (r *Request) Outstanding() bool {
	return r.State() == InFlight
}

// Start moves the request in flight.
func (r *Request) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != NotStarted {
		return fmt.Errorf("%w: start from %s", shared.ErrInvalidTransition, r.state)
	}
	r.state = InFlight
	r.startedAt = time.Now()
	return nil
}

// Succeed settles the request with the generated markdown.
func (r *Request) Succeed(blogPost string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != InFlight {
		return fmt.Errorf("%w: succeed from %s", shared.ErrInvalidTransition, r.state)
	}
	r.state = Succeeded
	r.blogPost = blogPost
	r.finishedAt = time.Now()
	return nil
}

// Fail settles the request with err.
func (r *Request) Fail(err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != InFlight {
		return fmt.Errorf("%w: fail from %s", shared.ErrInvalidTransition, r.state)
	}
	r.state = Failed
	r.err = err
	r.finishedAt = time.Now()
	return nil
}

// BlogPost returns the markdown payload and whether the request succeeded.
func (r *Request) BlogPost() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.blogPost, r.state == Succeeded
}

// Err returns the failure, or nil unless the request failed.
func (r *Request) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// Duration returns how long the request was (or has been) in flight.
func (r *Request) Duration() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch {
	case r.startedAt.IsZero():
		return 0
	case r.finishedAt.IsZero():
		return time.Since(r.startedAt)
	default:
		return r.finishedAt.Sub(r.startedAt)
	}
}
