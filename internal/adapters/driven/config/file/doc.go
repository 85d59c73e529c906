// Package file provides the TOML-backed configuration store.
//
// Keys are addressed in dot notation ("server.base_url") and written back as
// nested TOML tables. Watch reloads the store when the file is edited by hand.
package file
