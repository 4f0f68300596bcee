// Package cmd wires the CLI commands to the agent runtime.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/quillhq/gitquill/internal/agent"
	"github.com/quillhq/gitquill/internal/config"
	"github.com/quillhq/gitquill/internal/gitrepo"
	"github.com/quillhq/gitquill/internal/sandbox"
)

var (
	providerFlag string
	modelFlag    string
	dirFlag      string
	verbose      bool
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

var rootCmd = &cobra.Command{
	Use:   "gitquill",
	Short: "Gitquill - LLM-assisted writing for git workflows",
	Long: `Gitquill delegates developer writing tasks to a language model that can
investigate your repository before answering.

The model works inside a bounded tool loop: it may read files, list
directories, and query git history within the project directory, then
produces the requested text (commit message, PR description, changelog,
review, documentation, or explanation).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "Model provider (openai or anthropic)")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "Model identifier (provider default when unset)")
	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "C", ".", "Project directory to work in")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show tool-loop progress")
}

// Execute runs the root command.
func Execute() {
	_ = godotenv.Load()

	level := slog.LevelWarn
	if os.Getenv("GITQUILL_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := clog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	ctx := clog.WithLogger(context.Background(), logger)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

// session holds everything a command needs to run one agent task.
type session struct {
	runner *agent.Runner
	repo   *gitrepo.Repository
	spec   agent.Spec
}

// newSession resolves configuration, binds the sandbox and repository to
// the project directory, and builds the spec for the given task kind.
func newSession(ctx context.Context, kind agent.Specialization) (*session, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	backend, model, err := cfg.Backend(providerFlag, modelFlag)
	if err != nil {
		return nil, err
	}

	sb, err := sandbox.New(dirFlag)
	if err != nil {
		return nil, err
	}
	repo := gitrepo.Open(sb.Root())

	spec, err := agent.BuildSpec(kind, sb, repo)
	if err != nil {
		return nil, err
	}

	runner := agent.NewRunner(backend, model)
	if verbose {
		runner.OnEvent = printEvent
	}
	return &session{runner: runner, repo: repo, spec: spec}, nil
}

// requireRepository fails the command when the project directory is not
// a git work tree.
func (s *session) requireRepository(ctx context.Context) error {
	if !s.repo.IsRepository(ctx) {
		return fmt.Errorf("%s is not a git repository", s.repo.Dir())
	}
	return nil
}

func (s *session) run(ctx context.Context, task string) (*agent.Result, error) {
	return s.runner.Run(ctx, s.spec, task)
}

func printEvent(e agent.Event) {
	switch e.Kind {
	case agent.EventModelCall:
		fmt.Fprintln(os.Stderr, progressStyle.Render(fmt.Sprintf("→ step %d: asking model", e.Step)))
	case agent.EventToolCall:
		fmt.Fprintln(os.Stderr, progressStyle.Render(fmt.Sprintf("  running %s", e.Tool)))
	case agent.EventDone:
		fmt.Fprintln(os.Stderr, progressStyle.Render(fmt.Sprintf("✓ finished in %d steps", e.Step)))
	}
}

// printResult writes the final text, with a styled title line when the
// task produced one.
func printResult(result *agent.Result) {
	if result.Exhausted && result.Text == "" {
		fmt.Fprintln(os.Stderr, errorStyle.Render("The model ran out of steps before producing an answer."))
		return
	}
	if result.Title != "" {
		fmt.Println(titleStyle.Render(result.Title))
		if result.Body != "" {
			fmt.Println()
			fmt.Println(result.Body)
		}
		return
	}
	fmt.Println(result.Text)
}
