package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillhq/gitquill/internal/agent"
)

var explainCmd = &cobra.Command{
	Use:   "explain <question>",
	Short: "Explain code or behavior in the project",
	Long: `Explain part of the project in plain prose.

The model investigates the files involved before answering, so it can
explain what the code actually does rather than guessing.

Examples:
  gitquill explain "how does path resolution work in internal/sandbox?"
  gitquill explain cmd/root.go`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, agent.SpecExplain)
	if err != nil {
		return err
	}

	question := strings.Join(args, " ")
	task := fmt.Sprintf("Explain: %s\n\nRead whatever files you need before answering.", question)

	result, err := s.run(ctx, task)
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}
