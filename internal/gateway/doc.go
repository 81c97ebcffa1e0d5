// Package gateway is the widget's typed client for the chatbot backend's
// HTTP API.
//
// # Overview
//
// Every request is built against a resolved API base (see ResolveBase),
// carries the visitor's client identifier in the X-Client-Id header, and
// decodes a JSON response. 204 and empty bodies decode to nothing.
//
// # Path fallback
//
// Backends are deployed both with and without an /api prefix. A 404 from a
// URL that has no /api/ segment is retried exactly once at
// <origin>/api/<rest>. If the retry also fails, the first response's error
// is reported.
//
// # Errors
//
//   - *StatusError: non-2xx response; Error() is the body text, or
//     "HTTP <status>" when the body is empty
//   - ErrAborted: the caller's context ended before the call completed
//
// The context is consulted once, when the exchange finishes. There are no
// retries beyond the /api fallback.
package gateway
