package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillhq/gitquill/internal/agent"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Generate a commit message for the staged changes",
	Long: `Generate a commit message for the staged changes.

The model inspects the staged diff and file statuses, then produces a
conventional-commit message. Nothing is committed; the message is
printed for you to use.

Examples:
  git add -p && gitquill commit
  gitquill commit --provider anthropic`,
	Args: cobra.NoArgs,
	RunE: runCommit,
}

func init() {
	rootCmd.AddCommand(commitCmd)
}

func runCommit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, agent.SpecCommit)
	if err != nil {
		return err
	}
	if err := s.requireRepository(ctx); err != nil {
		return err
	}
	if !s.repo.HasStagedChanges(ctx) {
		return fmt.Errorf("no staged changes; stage something with git add first")
	}

	var task strings.Builder
	task.WriteString("Write a commit message for the currently staged changes.\n\n")
	if statuses := s.repo.StagedStatus(ctx); len(statuses) > 0 {
		task.WriteString("Staged files:\n")
		task.WriteString(agent.FormatFileStatuses(statuses))
		task.WriteString("\n\n")
	}
	task.WriteString("Staged diff:\n")
	task.WriteString(s.repo.StagedDiff(ctx, 0))

	result, err := s.run(ctx, task.String())
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}
