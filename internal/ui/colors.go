package ui

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	accent = "#3B82F6"
	muted  = "#475569"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	status lipgloss.Style
	panel  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:  NewBold(t).MarginBottom(1),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
		status: NewEm(h),
		panel:  lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color(muted)).Padding(0, 1),
	}
}

func (p *Palette) On(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Background(c).Render(s)
}

func (p *Palette) As(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// buttonStyles returns the resting and glowing button styles.
//
// Both share border width and padding so hovering never shifts the layout.
// The glow swaps to a thick border so it still shows without color.
func buttonStyles() (normal, glow lipgloss.Style) {
	base := lipgloss.NewStyle().
		Padding(0, 3).
		Bold(true)

	normal = base.
		Border(lipgloss.RoundedBorder()).
		Foreground(lipgloss.Color("#E2E8F0")).
		BorderForeground(lipgloss.Color(muted))
	glow = base.
		Border(lipgloss.ThickBorder()).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(accent)).
		BorderForeground(lipgloss.Color("#93C5FD"))
	return normal, glow
}

var _ Painter = (*Palette)(nil)
