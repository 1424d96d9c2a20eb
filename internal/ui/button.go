package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Button is a clickable call to action that glows while the pointer is over it.
//
// Enter and Leave are idempotent; repeated pointer movement only toggles the hovered flag.
type Button struct {
	label   string
	x, y    int
	hovered bool
	normal  lipgloss.Style
	glow    lipgloss.Style
}

// NewButton creates a button at the origin.
func NewButton(label string) *Button {
	normal, glow := buttonStyles()
	return &Button{label: label, normal: normal, glow: glow}
}

// SetPosition moves the button's top-left corner to screen cell (x, y).
func (b *Button) SetPosition(x, y int) {
	b.x, b.y = x, y
}

// Size returns the rendered width and height in cells.
func (b *Button) Size() (int, int) {
	out := b.normal.Render(b.label)
	return lipgloss.Width(out), lipgloss.Height(out)
}

// Contains reports whether screen cell (x, y) falls inside the button.
func (b *Button) Contains(x, y int) bool {
	w, h := b.Size()
	return x >= b.x && x < b.x+w && y >= b.y && y < b.y+h
}

// Hover applies Enter or Leave depending on whether (x, y) is inside the button.
func (b *Button) Hover(x, y int) bool {
	if b.Contains(x, y) {
		b.Enter()
	} else {
		b.Leave()
	}
	return b.hovered
}

// Enter applies the glow treatment.
func (b *Button) Enter() { b.hovered = true }

// Leave removes the glow treatment.
func (b *Button) Leave() { b.hovered = false }

func (b *Button) Hovered() bool { return b.hovered }

func (b *Button) Label() string { return b.label }

func (b *Button) View() string {
	if b.hovered {
		return b.glow.Render(b.label)
	}
	return b.normal.Render(b.label)
}
