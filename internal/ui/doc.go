// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI mirrors the web pages:
//  1. [LandingView] : headline and a "Get Started" [Button] that glows while the mouse is over it
//  2. [ProductView] : URL input, generate trigger with spinner, status line, and one result/error panel
//  3. [HistoryView] : previously generated posts from sqlite
//  4. [ReaderView] : scrollable markdown for a stored post
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Generation runs through a [product.Controller]; its snapshots arrive over a subscription channel, so the status line
// and panels always reflect the controller's state machine rather than a copy of it.
//
// Hover tracking needs all-motion mouse reporting (tea.WithMouseAllMotion).
package ui
