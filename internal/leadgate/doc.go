// Package leadgate decides whether the visitor may reach the chat, and owns
// the contact form that unlocks it.
//
// # Overview
//
// The gate moves through four phases:
//
//	Unknown ──form_enabled=false──▶ Disabled
//	Unknown ──form_enabled=true───▶ EnabledUnsaved ──lookup found──▶ EnabledSaved
//	Disabled ◀──────toggle───────▶ EnabledUnsaved ──save ok──────▶ EnabledSaved
//
// State holds the transition rules as pure functions; Gate wraps a State
// with the form inputs, the lead lookup, and the save call.
//
// The lead lookup runs at most once per Gate, when the first config says
// the form is enabled. A lead created elsewhere later is not noticed until
// the widget is rebuilt. Once saved, a lead stays saved.
//
// # Validation
//
// Required fields must be non-blank after trimming. A required email field
// must also look like an email address. Validation failures never reach the
// network.
package leadgate
