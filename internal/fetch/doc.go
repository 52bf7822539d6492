// Package fetch implements the HTTP GET helper used against the release host.
//
// Redirects are followed manually by re-requesting the Location header, as an
// explicit loop bounded at five hops. A terminal non-200 response surfaces as
// a StatusError carrying the status code and body text. Every request,
// including each followed hop, logs one diagnostic line.
package fetch
