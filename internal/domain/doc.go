// Package domain defines the core types for the MEND companion decision layer.
//
// Types in this package are pure value objects with no behavior beyond
// vocabulary checks, no database dependencies, and no HTTP concerns. They are
// the shared language between handlers, services, and repositories.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No *sql.DB, no http.Request, no context.Context in struct fields
//   - JSON/DB tags are allowed (they're metadata, not behavior)
//   - Closed vocabularies and their fallbacks belong here
package domain
