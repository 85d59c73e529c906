// Package services implements the driving port interfaces.
// Services contain the core logic and orchestrate calls to driven ports
// (adapters).
//
// The stream consumer, session and reveal scheduler turn a server event
// stream into reducer and reveal states. The action coordinator runs side
// effects against a settled result.
package services
