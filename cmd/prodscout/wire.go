package main

import (
	"context"
	"fmt"
	"io"

	"github.com/custodia-labs/prodscout/internal/adapters/driven/api"
	"github.com/custodia-labs/prodscout/internal/adapters/driven/clipboard"
	"github.com/custodia-labs/prodscout/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/prodscout/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/prodscout/internal/adapters/driving/cli"
	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/core/ports/driven"
	"github.com/custodia-labs/prodscout/internal/core/ports/driving"
	"github.com/custodia-labs/prodscout/internal/core/services"
	"github.com/custodia-labs/prodscout/internal/logger"
)

// resultCache is a driven.ResultCache that owns resources.
type resultCache interface {
	driven.ResultCache
	io.Closer
}

// newServiceFactory builds services from the stored settings, with flag
// overrides applied on top.
func newServiceFactory(settings driving.SettingsService) cli.ServiceFactory {
	return func(ctx context.Context, opts cli.ServiceOptions) (*cli.Services, error) {
		s, err := settings.Get()
		if err != nil {
			return nil, fmt.Errorf("loading settings: %w", err)
		}
		return buildServices(ctx, *s, opts)
	}
}

// buildServices wires the API client, result cache, session and coordinators.
func buildServices(ctx context.Context, s domain.AppSettings, opts cli.ServiceOptions) (*cli.Services, error) {
	if opts.BaseURL != "" {
		s.Server.BaseURL = opts.BaseURL
	}
	if opts.Token != "" {
		s.Server.Token = opts.Token
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	client, err := api.NewClient(ctx, api.ConfigFromSettings(s))
	if err != nil {
		return nil, err
	}

	cache, err := newResultCache(s.Cache)
	if err != nil {
		return nil, err
	}
	logger.Debug("Server %s, cache %s (ttl %s)", s.Server.BaseURL, s.Cache.Backend, s.Cache.TTL)

	var reveal *services.RevealScheduler
	if s.Stream.Reveal {
		reveal = services.NewRevealScheduler(nil, s.Stream.TypewriterInterval)
	}
	session := services.NewSession(services.NewStreamConsumer(client), reveal, cache)
	session.SetAnimate(opts.Animate)

	clip := clipboard.New()
	bound := services.NewActionCoordinator(client, session)
	bound.SetConfirmer(opts.Confirmer)
	bound.SetClipboard(clip)

	unbound := services.NewActionCoordinator(client, nil)
	unbound.SetConfirmer(opts.Confirmer)
	unbound.SetClipboard(clip)

	return &cli.Services{
		Session:   session,
		Actions:   bound,
		Documents: unbound,
		Close: func() error {
			session.Cancel()
			return cache.Close()
		},
	}, nil
}

func newResultCache(cfg domain.CacheSettings) (resultCache, error) {
	switch cfg.Backend {
	case domain.CacheBackendSQLite:
		cache, err := sqlite.NewResultCache(cfg.TTL)
		if err != nil {
			return nil, fmt.Errorf("opening result cache: %w", err)
		}
		return cache, nil
	default:
		return memory.NewResultCache(cfg.TTL), nil
	}
}
