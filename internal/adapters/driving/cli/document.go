package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var downloadOutput string

var starCmd = &cobra.Command{
	Use:   "star [doc-id]",
	Short: "Star or unstar a document",
	Long:  `Toggles the star on a source document. The current status is fetched first.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runStar,
}

var documentShowCmd = &cobra.Command{
	Use:   "document [doc-id]",
	Short: "Show a document's star status and contributions",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

var downloadCmd = &cobra.Command{
	Use:   "download [doc-id]",
	Short: "Download the original document",
	Long:  `Downloads the source document. Writes to stdout unless --output is given.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "file to write (default stdout)")

	rootCmd.AddCommand(starCmd)
	rootCmd.AddCommand(documentShowCmd)
	rootCmd.AddCommand(downloadCmd)
}

func runStar(cmd *cobra.Command, args []string) error {
	svc, err := loadServices(cmd, false)
	if err != nil {
		return err
	}
	defer closeServices()

	docID := args[0]
	ctx := cmd.Context()

	if _, err := svc.Documents.LoadDocument(ctx, docID); err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	starred, err := svc.Documents.ToggleStar(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to toggle star: %w", err)
	}

	if starred {
		cmd.Printf("★ Starred %s\n", docID)
	} else {
		cmd.Printf("☆ Unstarred %s\n", docID)
	}
	return nil
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	svc, err := loadServices(cmd, false)
	if err != nil {
		return err
	}
	defer closeServices()

	view, err := svc.Documents.LoadDocument(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", view.DocumentID)
	cmd.Printf("  Starred:       %t\n", view.IsStarred)
	cmd.Printf("  Contributions: %d\n", view.ContributionCount)

	for _, c := range view.Contributions {
		cmd.Println()
		cmd.Printf("  [%s] %s\n", c.ID, c.Content)
		meta := fmt.Sprintf("%d likes", c.LikeCount)
		if c.Username != "" {
			meta = c.Username + ", " + meta
		}
		if c.IsEdited {
			meta += ", edited"
		}
		if !c.CreatedAt.IsZero() {
			meta += ", " + c.CreatedAt.Format("2006-01-02 15:04")
		}
		cmd.Printf("      %s\n", faint(meta))
	}
	return nil
}

func runDownload(cmd *cobra.Command, args []string) (err error) {
	svc, err := loadServices(cmd, false)
	if err != nil {
		return err
	}
	defer closeServices()

	var w io.Writer = cmd.OutOrStdout()
	if downloadOutput != "" && downloadOutput != "-" {
		f, err := os.Create(downloadOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", downloadOutput, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(downloadOutput)
			}
		}()
		w = f
	}

	n, err := svc.Documents.Download(cmd.Context(), args[0], w)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	if downloadOutput != "" && downloadOutput != "-" {
		cmd.PrintErrf("Wrote %d bytes to %s\n", n, downloadOutput)
	}
	return nil
}
