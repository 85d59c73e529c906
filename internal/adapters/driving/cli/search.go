package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/core/ports/driving"
)

var (
	searchLimit    int
	searchProjects []string
	searchJSON     bool
	searchNoReveal bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for a product",
	Long: `Streams a product search and prints the outcome.

Partial answer text is printed as it arrives. A single strong match is shown
section by section with its definition typed out; use --no-reveal to print
it at once. Ctrl+C cancels the search.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of candidate products (0 = server default)")
	searchCmd.Flags().StringSliceVar(&searchProjects, "project", nil, "restrict to project ids (repeatable)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the final state as JSON")
	searchCmd.Flags().BoolVar(&searchNoReveal, "no-reveal", false, "show single results without the staged reveal")
	rootCmd.AddCommand(searchCmd)
}

// searchOutput is the --json shape.
type searchOutput struct {
	Query   string               `json:"query"`
	State   domain.ReducerState  `json:"state"`
	Filters domain.FilterSet     `json:"filters"`
	Cached  *domain.ReducerState `json:"cached,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc, err := loadServices(cmd, !searchJSON && !searchNoReveal)
	if err != nil {
		return err
	}
	defer closeServices()

	ctx := cmd.Context()
	session := svc.Session

	updates := make(chan struct{}, 1)
	unsubscribe := session.Subscribe(func(driving.Snapshot) {
		select {
		case updates <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	opts := domain.SearchOptions{Limit: searchLimit, Projects: searchProjects}
	if err := session.Submit(ctx, args[0], opts); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	printer := newResultPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if svc.Actions != nil {
		printer.tagDeleted = svc.Actions.TagDeleted
	}
	var snap driving.Snapshot
	for {
		snap = session.Snapshot()
		if !searchJSON {
			printer.Update(snap)
		}
		if searchFinished(snap) {
			break
		}
		select {
		case <-updates:
		case <-ctx.Done():
			session.Cancel()
			return ctx.Err()
		}
	}

	if searchJSON {
		data, err := json.MarshalIndent(searchOutput{
			Query:   snap.Query,
			State:   snap.State,
			Filters: snap.Filters,
			Cached:  snap.Cached,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
	}

	if snap.State.Kind == domain.StateError {
		return errors.New(snap.State.Message)
	}
	return nil
}

// searchFinished is true once the stream has ended and any reveal has run.
func searchFinished(snap driving.Snapshot) bool {
	if !snap.Done {
		return false
	}
	if snap.State.Kind == domain.StateSingleResult && snap.Reveal != nil {
		return snap.Reveal.Complete
	}
	return true
}
