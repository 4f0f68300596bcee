package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillhq/gitquill/internal/agent"
)

var docsCmd = &cobra.Command{
	Use:   "docs <topic>",
	Short: "Generate documentation for part of the project",
	Long: `Generate markdown documentation for a file, package, or feature.

The model reads the relevant sources before writing, so the output
reflects the code as it actually is.

Examples:
  gitquill docs internal/agent
  gitquill docs "the configuration environment variables"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDocs,
}

func init() {
	rootCmd.AddCommand(docsCmd)
}

func runDocs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, agent.SpecDocs)
	if err != nil {
		return err
	}

	topic := strings.Join(args, " ")
	task := fmt.Sprintf("Write documentation for: %s\n\nExplore the project as needed before writing.", topic)

	result, err := s.run(ctx, task)
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}
