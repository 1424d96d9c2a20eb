package product

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytblog/internal/client"
	"github.com/desertthunder/ytblog/internal/render"
	"github.com/desertthunder/ytblog/internal/shared"
)

const subscriberBuffer = 16

// Options configures a [Controller].
type Options struct {
	Backend   Backend
	Schedule  []Phase                      // defaults to [DefaultSchedule]
	Render    func(string) (string, error) // defaults to [render.Markdown]
	AfterFunc AfterFunc                    // defaults to [time.AfterFunc]
	Logger    *log.Logger
}

// Controller runs submissions one at a time and publishes the resulting views.
type Controller struct {
	mu       sync.Mutex
	view     View
	ticket   uint64
	request  *client.Request
	timers   []Timer
	subs     map[chan View]struct{}
	backend  Backend
	schedule []Phase
	render   func(string) (string, error)
	after    AfterFunc
	timed    bool
	logger   *log.Logger
}

// NewController creates an Idle controller.
func NewController(opts Options) *Controller {
	if opts.Schedule == nil {
		opts.Schedule = DefaultSchedule
	}
	if opts.Render == nil {
		opts.Render = render.Markdown
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = realAfterFunc
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	timed := true
	if pr, ok := opts.Backend.(ProgressReporter); ok && pr.ReportsProgress() {
		timed = false
	}

	return &Controller{
		view:     View{State: Idle},
		subs:     make(map[chan View]struct{}),
		backend:  opts.Backend,
		schedule: opts.Schedule,
		render:   opts.Render,
		after:    opts.AfterFunc,
		timed:    timed,
		logger:   opts.Logger,
	}
}

// View returns the current snapshot.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Subscribe returns a channel of view snapshots and a function that closes it.
//
// Sends never block: a subscriber that falls behind misses intermediate views.
func (c *Controller) Subscribe() (<-chan View, func()) {
	ch := make(chan View, subscriberBuffer)

	c.mu.Lock()
	c.subs[ch] = struct{}{}
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, ch)
			c.mu.Unlock()
			close(ch)
		})
	}
}

// Submit validates raw, issues exactly one request, and blocks until it settles.
//
// Blank input returns [shared.ErrEmptyInput] and a submission while another is outstanding
// returns [shared.ErrBusy]; neither touches the network or the current view. Generation
// failures are not returned as errors: they settle the view into [Error].
func (c *Controller) Submit(ctx context.Context, raw string) (View, error) {
	videoURL := strings.TrimSpace(raw)
	if videoURL == "" {
		return c.View(), fmt.Errorf("%w: %s", shared.ErrEmptyInput, EmptyInputNotice)
	}

	c.mu.Lock()
	if c.request != nil && c.request.Outstanding() {
		view := c.view
		c.mu.Unlock()
		return view, shared.ErrBusy
	}

	c.ticket++
	ticket := c.ticket
	req := client.NewRequest(videoURL)
	if err := req.Start(); err != nil {
		c.mu.Unlock()
		return c.View(), err
	}
	c.request = req

	status := ""
	if len(c.schedule) > 0 {
		status = c.schedule[0].Label
	}
	c.view = View{State: Loading, Status: status, VideoURL: videoURL, Busy: true, Ticket: ticket}
	c.armTimers(ticket)
	c.publish()
	c.mu.Unlock()

	c.logger.Info("generation started", "ticket", ticket, "video_url", videoURL)
	return c.run(ctx, ticket, req), nil
}

// Advance sets the status line to label if ticket is still the outstanding submission.
func (c *Controller) Advance(ticket uint64, label string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ticket != c.ticket || c.request == nil || !c.request.Outstanding() {
		return false
	}
	if c.view.Status == label {
		return true
	}

	c.view.Status = label
	c.publish()
	return true
}

func (c *Controller) run(ctx context.Context, ticket uint64, req *client.Request) (view View) {
	var (
		markdown string
		html     string
		err      error
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", shared.ErrRender, r)
		}
		view = c.settle(ticket, req, markdown, html, err)
	}()

	markdown, err = c.backend.Generate(ctx, req.VideoURL(), func(label string) {
		c.Advance(ticket, label)
	})
	if err != nil {
		return
	}

	html, err = c.render(markdown)
	return
}

func (c *Controller) settle(ticket uint64, req *client.Request, markdown, html string, err error) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTimers()

	if err != nil {
		if ferr := req.Fail(err); ferr != nil {
			c.logger.Warn("request already settled", "ticket", ticket, "error", ferr)
		}
		c.view = View{
			State:    Error,
			Status:   StatusFailed,
			VideoURL: req.VideoURL(),
			Message:  client.Message(err),
			Ticket:   ticket,
		}
		c.logger.Error("generation failed", "ticket", ticket, "error", err, "duration", req.Duration())
	} else {
		if serr := req.Succeed(markdown); serr != nil {
			c.logger.Warn("request already settled", "ticket", ticket, "error", serr)
		}
		c.view = View{
			State:    Success,
			Status:   StatusFinished,
			VideoURL: req.VideoURL(),
			Markdown: markdown,
			HTML:     html,
			Ticket:   ticket,
		}
		c.logger.Info("generation finished", "ticket", ticket, "duration", req.Duration())
	}

	c.publish()
	return c.view
}

func (c *Controller) armTimers(ticket uint64) {
	if !c.timed {
		return
	}

	for _, phase := range c.schedule {
		if phase.After <= 0 {
			continue
		}
		label := phase.Label
		c.timers = append(c.timers, c.after(phase.After, func() {
			c.Advance(ticket, label)
		}))
	}
}

func (c *Controller) stopTimers() {
	for _, t := range c.timers {
		t.Stop()
	}
	c.timers = nil
}

// publish must be called with c.mu held.
func (c *Controller) publish() {
	for ch := range c.subs {
		select {
		case ch <- c.view:
		default:
		}
	}
}
