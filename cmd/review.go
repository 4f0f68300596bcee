package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillhq/gitquill/internal/agent"
)

var reviewBase string

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review the staged changes or a branch's changes",
	Long: `Review the staged changes, or the current branch's changes when a base
is given.

The model reads the diff and any surrounding files it needs, then
reports concrete observations about correctness, clarity, and risk.

Examples:
  git add -p && gitquill review
  gitquill review --base main`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.Flags().StringVar(&reviewBase, "base", "", "Review changes since this ref instead of the staged diff")
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, agent.SpecReview)
	if err != nil {
		return err
	}
	if err := s.requireRepository(ctx); err != nil {
		return err
	}

	var diff string
	var scope string
	if reviewBase != "" {
		diff = s.repo.RangeDiff(ctx, reviewBase, "HEAD", 0)
		scope = fmt.Sprintf("the changes on %s since %s", s.repo.CurrentBranch(ctx), reviewBase)
	} else {
		if !s.repo.HasStagedChanges(ctx) {
			return fmt.Errorf("no staged changes to review; stage something or pass --base")
		}
		diff = s.repo.StagedDiff(ctx, 0)
		scope = "the currently staged changes"
	}
	if strings.TrimSpace(diff) == "" {
		return fmt.Errorf("nothing to review")
	}

	task := fmt.Sprintf("Review %s.\n\nDiff:\n%s", scope, diff)
	result, err := s.run(ctx, task)
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}
