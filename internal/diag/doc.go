// Package diag defines the diagnostic model shared by every checking stage.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced while
//     parsing instances and solutions, linting instances and verifying solutions.
//   - Offer light-weight utilities (Reporter, Bag, Verdict) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// # Scope
//
// Package diag does not perform any formatting beyond the single-line golden
// form, no IO and no CLI integration. Rendering lives in internal/diagfmt,
// orchestration in internal/driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with a stable string form
//     such as PAR2008 or VER5003. Codes are never renumbered.
//   - Message – human oriented text naming the offending token, vertex or edge.
//   - Primary span – file, line and field of the issue (source.Span).
//   - Notes – optional secondary locations, e.g. the first copy of a duplicate edge.
//
// # Two classes of findings
//
// Structural failures (the input cannot be turned into the data model) stop the
// stage that found them and yield exactly one error. Semantic findings are
// collected exhaustively: checks take a Reporter and never return early.
//
// # Verdict
//
// NewVerdict concatenates the bags of the individual stages in stage order. It
// never adds codes. A verdict is OK iff no error reached any bag, including
// errors that were dropped because of a diagnostics limit.
package diag
