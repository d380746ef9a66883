// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - RecordStore: Record persistence and bulk label updates
//   - ReportStore: Read-only aggregate queries
//   - RunStore: Classifier run history
//   - RecordDecoder: Line-delimited JSON decoding
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
