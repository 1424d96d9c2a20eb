package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/ytblog/internal/models"
	"github.com/desertthunder/ytblog/internal/product"
	"github.com/desertthunder/ytblog/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LandingView ViewState = iota
	ProductView
	HistoryView
	ReaderView
)

const (
	landingPadX = 2
	historySize = 50
	chromaStyle = "monokai"
)

// HistorySource lists previously generated posts, newest first.
type HistorySource interface {
	List(criteria map[string]any) ([]*models.Post, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	ctrl    *product.Controller
	updates <-chan product.View
	cancel  func()
	history HistorySource
	width   int
	height  int

	button  *Button
	input   textinput.Model
	spinner spinner.Model
	pane    viewport.Model
	posts   list.Model
	current product.View
	notice  string
	reading *models.Post
	err     error

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model around ctrl. history may be nil.
func NewModel(ctx context.Context, ctrl *product.Controller, history HistorySource) *Model {
	input := textinput.New()
	input.Placeholder = "https://www.youtube.com/watch?v=..."
	input.CharLimit = 512
	input.Prompt = "▶ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = NewStyle(accent)

	updates, cancel := ctrl.Subscribe()

	m := &Model{
		ctx:     ctx,
		view:    LandingView,
		ctrl:    ctrl,
		updates: updates,
		cancel:  cancel,
		history: history,
		button:  NewButton("Get Started"),
		input:   input,
		spinner: sp,
		pane:    viewport.New(80, 20),
		posts:   list.New(nil, list.NewDefaultDelegate(), 0, 0),
		current: ctrl.View(),
		help:    help.New(),
		keys:    newKeyMap(),
	}
	m.posts.Title = "Generated Posts"
	m.layout()
	return m
}

// Init starts listening for controller snapshots.
func (m *Model) Init() tea.Cmd {
	return m.waitForView()
}

// Close stops the controller subscription.
func (m *Model) Close() {
	m.cancel()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		switch m.view {
		case LandingView:
			return m.handleLandingKeys(msg)
		case ProductView:
			return m.handleProductKeys(msg)
		case HistoryView:
			return m.handleHistoryKeys(msg)
		case ReaderView:
			return m.handleReaderKeys(msg)
		}

	case spinner.TickMsg:
		if !m.current.Busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgViewChanged:
		v := msg.data.(product.View)
		return m, tea.Batch(m.apply(v), m.waitForView())

	case MsgSubmitted:
		res := msg.data.(submitResult)
		switch {
		case errors.Is(res.err, shared.ErrEmptyInput):
			m.notice = product.EmptyInputNotice
			return m, nil
		case errors.Is(res.err, shared.ErrBusy):
			return m, nil
		case res.err != nil:
			m.notice = res.err.Error()
			return m, nil
		}
		return m, m.apply(res.view)

	case MsgHistoryLoaded:
		res := msg.data.(historyResult)
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		items := make([]list.Item, len(res.posts))
		for i, p := range res.posts {
			items[i] = postItem{post: p}
		}
		m.posts.SetItems(items)
		return m, nil
	}
	return m, nil
}

// apply adopts v unless it belongs to an older submission than the one shown.
func (m *Model) apply(v product.View) tea.Cmd {
	if v.Ticket < m.current.Ticket {
		return nil
	}

	wasBusy := m.current.Busy
	m.current = v

	if v.State == product.Success {
		m.pane.SetContent(highlight(v.Markdown))
		m.pane.GotoTop()
	}
	if v.Busy && !wasBusy {
		return m.spinner.Tick
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.view != LandingView {
		if m.view == ProductView || m.view == ReaderView {
			var cmd tea.Cmd
			m.pane, cmd = m.pane.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	m.button.Hover(msg.X, msg.Y)
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && m.button.Hovered() {
		return m, m.openProduct()
	}
	return m, nil
}

func (m *Model) handleLandingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		return m, m.openProduct()
	case key.Matches(msg, m.keys.history):
		return m, m.openHistory()
	}
	return m, nil
}

func (m *Model) handleProductKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.forceQ):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = LandingView
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.submit):
		return m, m.submit()
	case msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		m.pane, cmd = m.pane.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.notice != "" && strings.TrimSpace(m.input.Value()) != "" {
		m.notice = ""
	}
	return m, cmd
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.posts.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.posts, cmd = m.posts.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.forceQ):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = LandingView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.posts.SelectedItem().(postItem); ok {
			m.reading = item.post
			m.pane.SetContent(highlight(item.post.BlogPost()))
			m.pane.GotoTop()
			m.view = ReaderView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.posts, cmd = m.posts.Update(msg)
	return m, cmd
}

func (m *Model) handleReaderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = HistoryView
		m.reading = nil
		if m.current.State == product.Success {
			m.pane.SetContent(highlight(m.current.Markdown))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.pane, cmd = m.pane.Update(msg)
	return m, cmd
}

func (m *Model) openProduct() tea.Cmd {
	m.view = ProductView
	m.button.Leave()
	return m.input.Focus()
}

func (m *Model) openHistory() tea.Cmd {
	m.view = HistoryView
	if m.history == nil {
		return nil
	}
	return func() tea.Msg {
		posts, err := m.history.List(map[string]any{"limit": historySize})
		return historyLoadedMsg(posts, err)
	}
}

// submit hands the input to the controller unless a submission is already running.
func (m *Model) submit() tea.Cmd {
	if !m.current.TriggerEnabled() {
		return nil
	}
	m.notice = ""
	raw := m.input.Value()
	return func() tea.Msg {
		v, err := m.ctrl.Submit(m.ctx, raw)
		return submittedMsg(v, err)
	}
}

func (m *Model) waitForView() tea.Cmd {
	return func() tea.Msg {
		v, ok := <-m.updates
		if !ok {
			return nil
		}
		return viewChangedMsg(v)
	}
}

func (m *Model) layout() {
	m.button.SetPosition(landingPadX, lipgloss.Height(landingHeader())+1)

	w, h := m.width-4, m.height-10
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 20
	}
	m.pane.Width = w
	m.pane.Height = h
	m.input.Width = max(w-lipgloss.Width(product.TriggerLabel)-8, 20)
	m.posts.SetSize(w, h+6)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case LandingView:
		return m.renderLanding()
	case ProductView:
		return m.renderProduct()
	case HistoryView:
		return m.renderHistory()
	case ReaderView:
		return m.renderReader()
	default:
		return ""
	}
}

func landingHeader() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.title.Render("Turn any YouTube video into a blog post"),
		styles.help.Render("Three agents read the transcript, research the topic, and draft an article."),
	)
}

func (m *Model) renderLanding() string {
	pad := strings.Repeat(" ", landingPadX)
	header := landingHeader()

	var lines []string
	for _, l := range strings.Split(header, "\n") {
		lines = append(lines, pad+l)
	}
	lines = append(lines, "")
	for _, l := range strings.Split(m.button.View(), "\n") {
		lines = append(lines, pad+l)
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.history, m.keys.quit}
	return strings.Join(lines, "\n") + "\n\n" + pad + m.help.ShortHelpView(helpKeys)
}

func (m *Model) renderProduct() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Generate a blog post"))
	b.WriteString("\n")

	trigger := product.TriggerLabel
	if m.current.Busy {
		trigger = m.spinner.View() + " " + trigger
	}
	b.WriteString(m.input.View() + "  " + NewBold(accent).Render("["+trigger+"]"))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(styles.warn.Render(m.notice) + "\n")
	}
	b.WriteString(styles.status.Render(m.current.Status) + "\n\n")

	switch m.current.Panel() {
	case product.PanelWelcome:
		b.WriteString(styles.panel.Render("Paste a YouTube link and press enter. Generation usually takes about half a minute."))
	case product.PanelResult:
		b.WriteString(styles.ok.Render("✓ Blog post ready") + "\n")
		b.WriteString(m.pane.View())
	case product.PanelError:
		b.WriteString(styles.err.Render(m.current.Message))
	}

	helpKeys := []key.Binding{m.keys.submit, m.keys.back, m.keys.forceQ}
	b.WriteString("\n\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderHistory() string {
	if m.history == nil {
		return styles.warn.Render("History is unavailable without a database.\n\nPress esc to go back")
	}
	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.forceQ}
	return fmt.Sprintf("%s\n\n%s", m.posts.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderReader() string {
	title := ""
	if m.reading != nil {
		title = styles.title.Render(m.reading.Title())
	}
	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.pane.View(), m.help.ShortHelpView(helpKeys))
}

// highlight colors markdown for a 256-color terminal, falling back to plain text.
func highlight(md string) string {
	var b strings.Builder
	if err := quick.Highlight(&b, md, "markdown", "terminal256", chromaStyle); err != nil {
		return md
	}
	return b.String()
}
