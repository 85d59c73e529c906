// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EventSource: Opens the search event stream (HTTP + SSE)
//   - ProductAPI: Star, contribution, like, tag and download calls
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ResultCache: Session cache of settled outcomes. Without it, no reconciliation.
//   - Confirmer: Confirmation prompt. Without it, destructive actions are refused.
//   - Clipboard: System clipboard. Without it, copy actions fail.
//   - Clock: Timer source for the reveal scheduler. Defaults to the real clock.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
