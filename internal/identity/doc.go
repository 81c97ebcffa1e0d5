// Package identity issues the durable anonymous client identifier the
// widget attaches to every backend request.
//
// # Overview
//
// The identifier is generated once per storage origin, persisted under
// StorageKey, and reused until that storage is cleared. Storage failures
// never reach callers: an Identity that cannot read or write storage
// synthesizes a token that lives only as long as the Identity value.
package identity
