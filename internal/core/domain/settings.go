package domain

import (
	"fmt"
	"net/url"
	"time"
)

// CacheBackend selects the session result cache implementation.
type CacheBackend string

// Available cache backends. Both keep data in memory for the session only.
const (
	// CacheBackendMemory is an expiring in-process map.
	CacheBackendMemory CacheBackend = "memory"

	// CacheBackendSQLite is an in-memory SQLite database.
	CacheBackendSQLite CacheBackend = "sqlite"
)

// IsValid returns true if the cache backend is recognised.
func (c CacheBackend) IsValid() bool {
	return c == CacheBackendMemory || c == CacheBackendSQLite
}

// String returns the string representation.
func (c CacheBackend) String() string {
	return string(c)
}

// ServerSettings configures the search service connection.
type ServerSettings struct {
	// BaseURL is the service root, e.g. http://localhost:8000/api.
	BaseURL string

	// Token is the bearer token sent with every request. May be empty.
	Token string

	// Timeout bounds REST calls. Streams are bounded only by cancellation.
	Timeout time.Duration

	// RatePerSecond throttles REST side-effect calls.
	RatePerSecond float64
}

// StreamSettings configures presentation of streamed results.
type StreamSettings struct {
	// TypewriterInterval is the delay between revealed definition runes.
	TypewriterInterval time.Duration

	// Reveal enables the staged reveal. When false results show immediately.
	Reveal bool
}

// CacheSettings configures the session result cache.
type CacheSettings struct {
	Backend CacheBackend
	TTL     time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	Server ServerSettings
	Stream StreamSettings
	Cache  CacheSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Server: ServerSettings{
			BaseURL:       "http://localhost:8000/api",
			Timeout:       30 * time.Second,
			RatePerSecond: 5,
		},
		Stream: StreamSettings{
			TypewriterInterval: DefaultTypewriterInterval,
			Reveal:             true,
		},
		Cache: CacheSettings{
			Backend: CacheBackendMemory,
			TTL:     10 * time.Minute,
		},
	}
}

// Validate checks that the settings can be used to reach a server.
func (s *AppSettings) Validate() error {
	if s.Server.BaseURL == "" {
		return fmt.Errorf("%w: server base URL is empty", ErrInvalidInput)
	}
	u, err := url.Parse(s.Server.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: server base URL %q is not absolute", ErrInvalidInput, s.Server.BaseURL)
	}
	if !s.Cache.Backend.IsValid() {
		return fmt.Errorf("%w: unknown cache backend %q", ErrInvalidInput, s.Cache.Backend)
	}
	return nil
}
