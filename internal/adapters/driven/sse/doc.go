// Package sse decodes server-sent event streams into search events.
//
// Only the data field is used. Comment lines, keepalive frames and the
// event, id and retry fields are ignored.
package sse
