package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
	Long: `View and change the settings stored in ~/.prodscout/config.toml.

Keys:
  server.base_url          search service root, e.g. http://localhost:8000/api
  server.token             bearer token (use 'config token' to enter it hidden)
  server.timeout_seconds   REST call timeout
  api.rate_per_second      REST call rate limit
  stream.typewriter_ms     delay between revealed definition characters
  stream.reveal            staged reveal of single results (true/false)
  cache.backend            session result cache: memory or sqlite
  cache.ttl_seconds        how long cached results are shown`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Enter the bearer token without echo",
	RunE:  runConfigToken,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configTokenCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Base URL: %s\n", settings.Server.BaseURL)
	if settings.Server.Token != "" {
		cmd.Printf("  Token:    %s\n", maskToken(settings.Server.Token))
	} else {
		cmd.Println("  Token:    (not set)")
	}
	cmd.Printf("  Timeout:  %s\n", settings.Server.Timeout)
	cmd.Printf("  Rate:     %.1f req/s\n", settings.Server.RatePerSecond)
	cmd.Println()

	cmd.Println("[Stream]")
	cmd.Printf("  Reveal:     %t\n", settings.Stream.Reveal)
	cmd.Printf("  Typewriter: %s per character\n", settings.Stream.TypewriterInterval)
	cmd.Println()

	cmd.Println("[Cache]")
	cmd.Printf("  Backend: %s\n", settings.Cache.Backend)
	cmd.Printf("  TTL:     %s\n", settings.Cache.TTL)

	if err := settings.Validate(); err != nil {
		cmd.Println()
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

func runConfigToken(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Print("Token: ")
	token := readSecret(cmd.InOrStdin())
	cmd.Println()

	if token == "" {
		return errors.New("no token entered")
	}
	if err := settingsService.Set("server.token", token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	cmd.Println("Token saved.")
	return nil
}

// readSecret reads a line without echo when stdin is a terminal.
func readSecret(in io.Reader) string {
	if in == os.Stdin && term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	reader := bufio.NewReader(in)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
