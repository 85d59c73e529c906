// Package mcp provides an MCP (Model Context Protocol) server adapter for prodscout.
// It lets AI assistants run product searches and star source documents.
package mcp

import "errors"

// ErrMissingSearchSession is returned when the search session is not provided.
var ErrMissingSearchSession = errors.New("mcp: search session is required")
