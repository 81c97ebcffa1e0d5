// Package backendstub is an in-memory stand-in for the chatbot backend.
//
// # Overview
//
// Server implements the six endpoints the widget calls, keyed by the
// X-Client-Id header, and exposes knobs for tests and local development:
//
//   - SetConfig: the widget config GET widget-config returns
//   - SetReply / SetDelay: canned chat reply and how long it takes
//   - Fail: make one endpoint answer with a fixed status
//   - Requests: every request seen, with its client id
//
// Routes can be mounted at the root, under /api, or both, so the widget's
// /api fallback can be exercised. Embedded static files (including the
// default avatar) are served under /static/.
package backendstub
