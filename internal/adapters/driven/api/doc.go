// Package api implements the driven.KnowledgeAPI port against the remote
// knowledge service's HTTP interface.
//
// The client is stateless: it translates typed operations into
// authenticated requests rooted at /api/bots, attaches a bearer token when
// one is available, and on a 401 performs exactly one out-of-band token
// refresh followed by one repeat of the original request. Any non-2xx
// response after that surfaces as a *RequestError carrying the
// server-provided detail message or the HTTP status line.
package api
