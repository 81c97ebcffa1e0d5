// Package conversation owns the widget's transcript and the protocol for
// sending one visitor message at a time.
//
// # Overview
//
// The transcript is append-only. It is seeded once from the backend's
// history and then grows by one user message and exactly one assistant
// message per send:
//
//   - the reply, prefixed with "📚 " when it came from the FAQ
//   - "(stopped)" when the visitor cancelled
//   - "Error: <message>" for any other failure
//
// # Send protocol
//
// Only one chat call is in flight. Calling Send while a call is pending
// cancels that call instead of queuing another message. While sending, the
// input is disabled and a typing placeholder cycles "…", ".", "..", "..."
// on a timer.
//
// Assistant messages record the avatar that was active when they were
// appended; a later avatar change does not repaint them.
package conversation
