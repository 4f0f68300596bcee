package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillhq/gitquill/internal/agent"
)

var prBase string

var prCmd = &cobra.Command{
	Use:   "pr",
	Short: "Generate a pull request title and description for the current branch",
	Long: `Generate a pull request title and description for the current branch.

The model inspects the commits and diff between the base branch and the
current branch. The base defaults to the repository's default branch.

Examples:
  gitquill pr
  gitquill pr --base release/2.4`,
	Args: cobra.NoArgs,
	RunE: runPR,
}

func init() {
	rootCmd.AddCommand(prCmd)
	prCmd.Flags().StringVar(&prBase, "base", "", "Base branch to compare against (default branch when unset)")
}

func runPR(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, agent.SpecPR)
	if err != nil {
		return err
	}
	if err := s.requireRepository(ctx); err != nil {
		return err
	}

	base := prBase
	if base == "" {
		base = s.repo.DefaultBranch(ctx)
	}
	if base == "" {
		return fmt.Errorf("could not determine a base branch; pass one with --base")
	}
	branch := s.repo.CurrentBranch(ctx)
	if branch == base {
		return fmt.Errorf("current branch is the base branch %q; switch to a feature branch", base)
	}

	commits := s.repo.Commits(ctx, base, "HEAD", 0)
	if len(commits) == 0 {
		return fmt.Errorf("no commits on %s beyond %s", branch, base)
	}

	var task strings.Builder
	fmt.Fprintf(&task, "Write a pull request title and description for branch %s against %s.\n\n", branch, base)
	task.WriteString("Commits:\n")
	task.WriteString(agent.FormatCommits(commits))
	task.WriteString("\n\nDiff:\n")
	task.WriteString(s.repo.RangeDiff(ctx, base, "HEAD", 0))

	result, err := s.run(ctx, task.String())
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}
