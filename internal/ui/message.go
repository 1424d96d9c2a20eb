package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytblog/internal/models"
	"github.com/desertthunder/ytblog/internal/product"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgViewChanged MsgKind = iota
	MsgSubmitted
	MsgHistoryLoaded
)

type submitResult struct {
	view product.View
	err  error
}

type historyResult struct {
	posts []*models.Post
	err   error
}

// viewChangedMsg is the constructor for [MsgViewChanged]
func viewChangedMsg(v product.View) Msg {
	return Msg{kind: MsgViewChanged, data: v}
}

// submittedMsg is the constructor for [MsgSubmitted]
func submittedMsg(v product.View, err error) Msg {
	return Msg{kind: MsgSubmitted, data: submitResult{view: v, err: err}}
}

// historyLoadedMsg is the constructor for [MsgHistoryLoaded]
func historyLoadedMsg(posts []*models.Post, err error) Msg {
	return Msg{kind: MsgHistoryLoaded, data: historyResult{posts: posts, err: err}}
}
