// Package domain defines the core types for prodscout.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - StreamEvent: A single typed event from the search stream
//   - ReducerState: The one view state a search stream reduces to
//   - RevealState: Presentation-only staged disclosure of a single result
//   - Contribution: A user annotation on a source document
//
// Reduce is the pure transition function over ReducerState. It lives here
// because it depends on nothing but the types it transforms.
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
