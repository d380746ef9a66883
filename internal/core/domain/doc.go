// Package domain defines the core business entities for stance analysis.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: An ingested social-media post with its enrichment fields
//   - StanceSequence: The per-record list of hypothesis scores
//   - StanceLabels: The derived pro_russia / pro_ukraine / unsure flags
//   - ClassificationRun: One execution of the stance classifier
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
