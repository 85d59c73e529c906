package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/core/ports/driven"
	"github.com/custodia-labs/prodscout/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyServerBaseURL  = "server.base_url"
	KeyServerToken    = "server.token"
	KeyServerTimeout  = "server.timeout_seconds"
	KeyAPIRate        = "api.rate_per_second"
	KeyTypewriterMS   = "stream.typewriter_ms"
	KeyStreamReveal   = "stream.reveal"
	KeyCacheBackend   = "cache.backend"
	KeyCacheTTLSecond = "cache.ttl_seconds"
)

var settingKeys = []string{
	KeyServerBaseURL,
	KeyServerToken,
	KeyServerTimeout,
	KeyAPIRate,
	KeyTypewriterMS,
	KeyStreamReveal,
	KeyCacheBackend,
	KeyCacheTTLSecond,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Server: domain.ServerSettings{
			BaseURL:       s.getString(KeyServerBaseURL, defaults.Server.BaseURL),
			Token:         s.configStore.GetString(KeyServerToken),
			Timeout:       s.getSeconds(KeyServerTimeout, defaults.Server.Timeout),
			RatePerSecond: s.getFloat(KeyAPIRate, defaults.Server.RatePerSecond),
		},
		Stream: domain.StreamSettings{
			TypewriterInterval: s.getMillis(KeyTypewriterMS, defaults.Stream.TypewriterInterval),
			Reveal:             s.getBool(KeyStreamReveal, defaults.Stream.Reveal),
		},
		Cache: domain.CacheSettings{
			Backend: s.getBackend(defaults.Cache.Backend),
			TTL:     s.getSeconds(KeyCacheTTLSecond, defaults.Cache.TTL),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyServerBaseURL, settings.Server.BaseURL},
		{KeyServerTimeout, int(settings.Server.Timeout / time.Second)},
		{KeyAPIRate, settings.Server.RatePerSecond},
		{KeyTypewriterMS, int(settings.Stream.TypewriterInterval / time.Millisecond)},
		{KeyStreamReveal, settings.Stream.Reveal},
		{KeyCacheBackend, settings.Cache.Backend.String()},
		{KeyCacheTTLSecond, int(settings.Cache.TTL / time.Second)},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// An empty token means "keep the stored one".
	if settings.Server.Token != "" {
		if err := s.configStore.Set(KeyServerToken, settings.Server.Token); err != nil {
			return fmt.Errorf("save %s: %w", KeyServerToken, err)
		}
	}

	return nil
}

// Set parses value for key and stores it.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	var parsed any
	switch key {
	case KeyServerBaseURL:
		candidate := domain.DefaultAppSettings()
		candidate.Server.BaseURL = value
		if err := candidate.Validate(); err != nil {
			return err
		}
		parsed = value
	case KeyServerToken:
		parsed = value
	case KeyServerTimeout, KeyTypewriterMS, KeyCacheTTLSecond:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case KeyAPIRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidInput, key)
		}
		parsed = f
	case KeyStreamReveal:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		parsed = b
	case KeyCacheBackend:
		backend := domain.CacheBackend(value)
		if !backend.IsValid() {
			return fmt.Errorf("%w: unknown cache backend %q", domain.ErrInvalidInput, value)
		}
		parsed = backend.String()
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the recognised config keys.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	copy(keys, settingKeys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Second
}

func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Millisecond
}

func (s *SettingsService) getBackend(defaultVal domain.CacheBackend) domain.CacheBackend {
	val := s.configStore.GetString(KeyCacheBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.CacheBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
