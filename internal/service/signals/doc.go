// Package signals turns free-text check-ins into normalized emotional signals.
//
// Normalize is the single gate every stored Signal passes through: it is
// total, never fails, and maps anything outside the closed vocabularies to a
// documented fallback. Extractor asks the completion service for a raw
// extraction; Service ties extraction, normalization and storage together.
//
// The service layer depends on the Repository interface defined in
// repository.go. It never imports net/http or database/sql directly.
package signals
