// Package controller contains HTTP middlewares and helper handlers used by
// the ops server.
//
// Provided middlewares:
//   - WithLogger: Attaches a request-scoped logger and request ID to the context and logs access info.
//
// Provided helpers:
//   - PprofMux: Returns a ServeMux exposing net/http/pprof handlers under a prefix.
//   - Health: Runs named checks and reports them as JSON.
//   - WriteJSON / WriteError: Encode responses and map error kinds to status codes.
package controller
