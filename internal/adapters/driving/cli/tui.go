package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/prodscout/internal/adapters/driving/tui"
	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/logger"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal interface.

Type a product name and press enter. Single results are revealed section by
section; space skips ahead. Settings edited here or in the config file are
picked up while the TUI runs.

Controls:
  Enter    - Search / Open product
  ↑/k, ↓/j - Navigate candidates
  /, n     - New search
  s c d x  - Star, copy, download, delete tag
  ,        - Settings
  Esc      - Cancel / Back
  ?        - Help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in TUI: %v\nStack trace:\n%s", r, debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	confirmer := tui.NewConfirmer()
	svc, err := loadServicesWith(cmd, true, confirmer)
	if err != nil {
		return err
	}
	defer closeServices()

	ports := &tui.Ports{
		Session:   svc.Session,
		Actions:   svc.Actions,
		Settings:  settingsService,
		Confirmer: confirmer,
		Options:   domain.SearchOptions{},
	}
	if configWatcher != nil {
		ports.WatchConfig = configWatcher.Watch
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	// Log lines would tear the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
