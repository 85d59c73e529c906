package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteTagCmd = &cobra.Command{
	Use:   "delete-tag [product]",
	Short: "Remove a product tag",
	Long: `Removes the product tag from every document it was assigned to.
This cannot be undone. Use --yes to skip the prompt.`,
	Args: cobra.ExactArgs(1),
	RunE: runDeleteTag,
}

func init() {
	deleteTagCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(deleteTagCmd)
}

func runDeleteTag(cmd *cobra.Command, args []string) error {
	svc, err := loadServices(cmd, false)
	if err != nil {
		return err
	}
	defer closeServices()

	err = svc.Documents.DeleteProductTag(cmd.Context(), args[0])
	if answeredNo(err) {
		cmd.Println("Cancelled.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	cmd.Printf("Deleted tag %q\n", args[0])
	return nil
}
