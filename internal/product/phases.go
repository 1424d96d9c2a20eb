package product

import "time"

// Phase is a status label shown After a submission starts.
type Phase struct {
	After time.Duration
	Label string
}

// DefaultSchedule approximates how long each pipeline stage takes.
var DefaultSchedule = []Phase{
	{After: 0, Label: "Agent 1/3: Analyzing Video Transcript..."},
	{After: 8 * time.Second, Label: "Agent 2/3: Researching Web Context..."},
	{After: 18 * time.Second, Label: "Agent 3/3: Drafting Blog Post..."},
}

// Timer is a pending phase advance.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// PhaseLabel returns the label for a 1-based pipeline step, or "" when out of range.
func PhaseLabel(step int) string {
	if step < 1 || step > len(DefaultSchedule) {
		return ""
	}
	return DefaultSchedule[step-1].Label
}
