// Package cli is the prodscout command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/prodscout/internal/core/ports/driven"
	"github.com/custodia-labs/prodscout/internal/core/ports/driving"
	"github.com/custodia-labs/prodscout/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Global flags.
var (
	verbose       bool
	logTimestamps bool
	serverURL     string
	serverToken   string
	assumeYes     bool
)

// Services are the server-backed services built for one invocation.
type Services struct {
	// Session runs searches.
	Session driving.SearchSession

	// Actions is bound to Session and only acts on its stable single result.
	Actions driving.ResultActionService

	// Documents is unbound and accepts any document id.
	Documents driving.ResultActionService

	// Close releases the cache and any open streams. Optional.
	Close func() error
}

// ServiceOptions carries per-invocation choices into a ServiceFactory.
type ServiceOptions struct {
	// BaseURL and Token override the stored settings when non-empty.
	BaseURL string
	Token   string

	// Animate enables the staged reveal.
	Animate bool

	// Confirmer approves destructive actions.
	Confirmer driven.Confirmer
}

// ServiceFactory builds the server-backed services.
type ServiceFactory func(ctx context.Context, opts ServiceOptions) (*Services, error)

var (
	settingsService driving.SettingsService
	configWatcher   driven.ConfigWatcher
	serviceFactory  ServiceFactory

	servicesMu sync.Mutex
	services   *Services
)

var rootCmd = &cobra.Command{
	Use:   "prodscout",
	Short: "Stream product search results from the terminal",
	Long: `prodscout queries a product search service and renders its streamed
answer: a plain answer, a single product with its definition and producers,
a ranked list of candidates, or nothing at all.

Star documents, add contributions and download sources straight from the
command line, or run 'prodscout tui' for the interactive view.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
		logger.SetTimestamps(logTimestamps)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&logTimestamps, "log-timestamps", false, "prefix log lines with a millisecond clock")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "search service base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&serverToken, "token", "", "bearer token (overrides config)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, so cancelling ctx stops
// any running search.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by 'prodscout version'.
func SetVersion(v string) {
	version = v
}

// SetSettingsService sets the settings service used by 'prodscout config'.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetConfigWatcher sets the watcher the TUI uses to pick up config edits. Optional.
func SetConfigWatcher(w driven.ConfigWatcher) {
	configWatcher = w
}

// SetServiceFactory sets how server-backed services are built.
func SetServiceFactory(f ServiceFactory) {
	serviceFactory = f
}

// SetServices injects prebuilt services, bypassing the factory.
func SetServices(s *Services) {
	servicesMu.Lock()
	defer servicesMu.Unlock()
	services = s
}

// loadServices builds the services on first use, confirming on the terminal.
func loadServices(cmd *cobra.Command, animate bool) (*Services, error) {
	return loadServicesWith(cmd, animate, newTerminalConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr(), &assumeYes))
}

func loadServicesWith(cmd *cobra.Command, animate bool, confirmer driven.Confirmer) (*Services, error) {
	servicesMu.Lock()
	defer servicesMu.Unlock()

	if services != nil {
		return services, nil
	}
	if serviceFactory == nil {
		return nil, errors.New("search service not configured")
	}

	built, err := serviceFactory(cmd.Context(), ServiceOptions{
		BaseURL:   serverURL,
		Token:     serverToken,
		Animate:   animate,
		Confirmer: confirmer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	services = built
	return services, nil
}

// closeServices releases services built by the factory.
func closeServices() {
	servicesMu.Lock()
	defer servicesMu.Unlock()

	if services == nil || services.Close == nil {
		return
	}
	if err := services.Close(); err != nil {
		logger.Error("Closing services: %v", err)
	}
}
