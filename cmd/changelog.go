package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillhq/gitquill/internal/agent"
)

var changelogCmd = &cobra.Command{
	Use:   "changelog <base> [head]",
	Short: "Generate changelog entries for a commit range",
	Long: `Generate user-facing changelog entries for the commits between two
refs. head defaults to HEAD.

Examples:
  gitquill changelog v1.2.0
  gitquill changelog v1.2.0 v1.3.0`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runChangelog,
}

func init() {
	rootCmd.AddCommand(changelogCmd)
}

func runChangelog(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, agent.SpecChangelog)
	if err != nil {
		return err
	}
	if err := s.requireRepository(ctx); err != nil {
		return err
	}

	base := args[0]
	head := "HEAD"
	if len(args) == 2 {
		head = args[1]
	}

	commits := s.repo.Commits(ctx, base, head, 200)
	if len(commits) == 0 {
		return fmt.Errorf("no commits between %s and %s", base, head)
	}

	var task strings.Builder
	fmt.Fprintf(&task, "Write changelog entries for the changes between %s and %s.\n\n", base, head)
	task.WriteString("Commits:\n")
	task.WriteString(agent.FormatCommits(commits))

	result, err := s.run(ctx, task.String())
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}
