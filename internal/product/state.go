package product

// State is the visible state of the generation flow.
type State int

const (
	Idle State = iota
	Loading
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return ""
	}
}

// Panel is one of the mutually exclusive display regions.
type Panel int

const (
	PanelWelcome Panel = iota
	PanelLoading
	PanelResult
	PanelError
)

func (p Panel) String() string {
	switch p {
	case PanelWelcome:
		return "welcome"
	case PanelLoading:
		return "loading"
	case PanelResult:
		return "result"
	case PanelError:
		return "error"
	default:
		return ""
	}
}

const (
	// EmptyInputNotice is the blocking prompt shown for blank input.
	EmptyInputNotice = "Please enter a YouTube URL"
	StatusFinished   = "Agents Finished!"
	StatusFailed     = "Error Occurred"
	TriggerLabel     = "Generate Blog"
)

// View is an immutable snapshot of the generation flow.
type View struct {
	State    State
	Status   string // status line text
	VideoURL string
	Markdown string // Success only
	HTML     string // Success only, sanitized
	Message  string // Error only
	Busy     bool   // trigger disabled and busy indicator shown
	Ticket   uint64 // submission that produced this view, 0 before the first
}

// Panel returns the single panel visible in this view.
func (v View) Panel() Panel {
	switch v.State {
	case Loading:
		return PanelLoading
	case Success:
		return PanelResult
	case Error:
		return PanelError
	default:
		return PanelWelcome
	}
}

// TriggerEnabled reports whether a new submission may start.
func (v View) TriggerEnabled() bool {
	return !v.Busy
}

// Settled reports whether the view is a terminal outcome of a submission.
func (v View) Settled() bool {
	return v.State == Success || v.State == Error
}
