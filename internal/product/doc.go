// Package product implements the generation request flow behind the "Generate" trigger.
//
// A [Controller] owns the only mutable state: the current [View] and the single
// outstanding [client.Request]. Every front end (TUI, server-rendered page, headless CLI)
// drives a Controller and renders whatever View it publishes.
//
// # States
//
// A View is always in exactly one [State]:
//
//	Idle ──submit──▶ Loading ──ok──▶ Success
//	                    │
//	                    └──fail──▶ Error
//
// Success and Error only leave via the next valid submission. The visible panel is derived
// from the state by [View.Panel], so two panels are never shown together.
//
// # Phase labels
//
// While a request is in flight the status line walks through [DefaultSchedule]. Timer-driven
// labels are keyed to the ticket of the request that armed them and are stopped when it
// settles. Backends that report real progress (see [ProgressReporter]) disable the timers and
// push labels through [Controller.Advance] instead.
package product
