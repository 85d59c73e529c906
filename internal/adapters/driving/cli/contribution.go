package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var contributeCmd = &cobra.Command{
	Use:   "contribute [doc-id] [text]",
	Short: "Add a contribution to a document",
	Args:  cobra.ExactArgs(2),
	RunE:  runContribute,
}

var editContributionCmd = &cobra.Command{
	Use:   "edit-contribution [contribution-id] [text]",
	Short: "Replace the text of a contribution",
	Args:  cobra.ExactArgs(2),
	RunE:  runEditContribution,
}

var likeCmd = &cobra.Command{
	Use:   "like [contribution-id]",
	Short: "Like a contribution",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runSetLike(cmd, args[0], true) },
}

var unlikeCmd = &cobra.Command{
	Use:   "unlike [contribution-id]",
	Short: "Remove your like from a contribution",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runSetLike(cmd, args[0], false) },
}

var deleteContributionCmd = &cobra.Command{
	Use:   "delete-contribution [contribution-id]",
	Short: "Delete a contribution",
	Long:  `Deletes a contribution after confirmation. Use --yes to skip the prompt.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteContribution,
}

func init() {
	deleteContributionCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")

	rootCmd.AddCommand(contributeCmd)
	rootCmd.AddCommand(editContributionCmd)
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(unlikeCmd)
	rootCmd.AddCommand(deleteContributionCmd)
}

func runContribute(cmd *cobra.Command, args []string) error {
	svc, err := loadServices(cmd, false)
	if err != nil {
		return err
	}
	defer closeServices()

	c, err := svc.Documents.SubmitContribution(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to add contribution: %w", err)
	}
	cmd.Printf("Added contribution %s\n", c.ID)
	return nil
}

func runEditContribution(cmd *cobra.Command, args []string) error {
	svc, err := loadServices(cmd, false)
	if err != nil {
		return err
	}
	defer closeServices()

	c, err := svc.Documents.EditContribution(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to edit contribution: %w", err)
	}
	cmd.Printf("Updated contribution %s\n", c.ID)
	return nil
}

func runSetLike(cmd *cobra.Command, contributionID string, liked bool) error {
	svc, err := loadServices(cmd, false)
	if err != nil {
		return err
	}
	defer closeServices()

	c, err := svc.Documents.SetLike(cmd.Context(), contributionID, liked)
	if err != nil {
		if liked {
			return fmt.Errorf("failed to like: %w", err)
		}
		return fmt.Errorf("failed to unlike: %w", err)
	}
	verb := "Unliked"
	if c.UserLiked {
		verb = "Liked"
	}
	cmd.Printf("%s %s (%d likes)\n", verb, c.ID, c.LikeCount)
	return nil
}

func runDeleteContribution(cmd *cobra.Command, args []string) error {
	svc, err := loadServices(cmd, false)
	if err != nil {
		return err
	}
	defer closeServices()

	err = svc.Documents.DeleteContribution(cmd.Context(), args[0])
	if answeredNo(err) {
		cmd.Println("Cancelled.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete contribution: %w", err)
	}
	cmd.Printf("Deleted contribution %s\n", args[0])
	return nil
}
