// Package widget assembles the chatbot widget runtime and exposes it to a
// host.
//
// # Overview
//
// A Page stands in for the host page the widget script is embedded in: its
// origin, the script tag's attributes, page-global overrides, per-origin
// storage, and the cross-tab signal bus. Page.CreateWidget builds one
// Widget under the well-known root id; calling it again shuts the existing
// widget down and replaces it.
//
// A Widget wires together:
//
//   - identity: the durable client id
//   - gateway: the backend client
//   - configsync: config refresh, poll, and signal watch
//   - leadgate: the contact form gate
//   - conversation: transcript and send protocol
//   - shell: panel state
//
// Construction starts a config refresh and a history load without waiting
// for either; Ready is closed once both have finished.
//
// # Rendering
//
// Widget.View returns an immutable snapshot. A host that wants to repaint
// on change passes an Observer in Options; it is called from whichever
// goroutine made the change, so it must be safe for concurrent use.
package widget
