// Package configsync keeps the widget's applied configuration in step with
// the backend's widget-config endpoint.
//
// # Overview
//
// A Synchronizer fetches the config on demand (Refresh), while its Poll is
// armed, and whenever a cross-tab signal on SignalKey arrives (Watch).
// Each successful refresh:
//
//  1. applies the optional appearance fields that are present, leaving
//     absent ones untouched
//  2. preloads a configured avatar, falling back to the built-in one
//  3. replaces the lead gate's field set
//  4. hands a changed form_enabled to the gate, or asks it to re-evaluate
//
// A failed fetch changes nothing. Refreshes are serialized, so two never
// interleave their side effects.
//
// # Poll
//
// Poll is the armed/disarmed interval resource. The shell arms it when the
// panel opens and disarms it when the panel closes.
package configsync
