// Command prodscout streams product search results from a search service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/prodscout/internal/adapters/driven/config/file"
	"github.com/custodia-labs/prodscout/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/prodscout/internal/adapters/driving/cli"
	"github.com/custodia-labs/prodscout/internal/core/ports/driven"
	"github.com/custodia-labs/prodscout/internal/core/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newConfigStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	settings := services.NewSettingsService(store)

	cli.SetVersion(version)
	cli.SetSettingsService(settings)
	cli.SetConfigWatcher(store)
	cli.SetServiceFactory(newServiceFactory(settings))

	return cli.ExecuteContext(ctx)
}

// configStore is a store the TUI can watch for edits.
type configStore interface {
	driven.ConfigStore
	driven.ConfigWatcher
}

// newConfigStore opens ~/.prodscout/config.toml, or PRODSCOUT_CONFIG_DIR
// when set. PRODSCOUT_NO_CONFIG keeps settings in memory for the run.
func newConfigStore() (configStore, error) {
	if os.Getenv("PRODSCOUT_NO_CONFIG") != "" {
		return memory.NewConfigStore(), nil
	}
	return file.NewConfigStore(os.Getenv("PRODSCOUT_CONFIG_DIR"))
}
