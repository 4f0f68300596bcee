package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/quillhq/gitquill/internal/gitrepo"
)

type gitLogInput struct {
	Base  string `json:"base,omitempty" jsonschema_description:"List commits after this ref (e.g. main)"`
	Head  string `json:"head,omitempty" jsonschema_description:"List commits reachable from this ref (defaults to HEAD)"`
	Limit int    `json:"limit,omitempty" jsonschema_description:"Maximum commits to return (default 20)"`
}

type gitDiffInput struct {
	Base   string `json:"base,omitempty" jsonschema_description:"Diff changes since this ref; omit to diff staged changes"`
	Head   string `json:"head,omitempty" jsonschema_description:"Ref to diff against base (defaults to HEAD)"`
	Staged bool   `json:"staged,omitempty" jsonschema_description:"Diff the staged changes instead of a ref range"`
}

type gitStatusInput struct{}

type gitBranchInput struct{}

// RegisterRepoTools adds the read-only version-control query tools.
func RegisterRepoTools(r *Registry, repo *gitrepo.Repository) {
	r.Register(NewTool("git_log",
		"List recent commits, optionally restricted to a base..head range.",
		func(ctx context.Context, in gitLogInput) (string, error) {
			commits := repo.Commits(ctx, in.Base, in.Head, in.Limit)
			if len(commits) == 0 {
				return "no commits found", nil
			}
			return FormatCommits(commits), nil
		}))

	r.Register(NewTool("git_diff",
		"Show the staged diff, or the diff between two refs.",
		func(ctx context.Context, in gitDiffInput) (string, error) {
			var diff string
			if in.Staged || in.Base == "" {
				diff = repo.StagedDiff(ctx, 0)
			} else {
				diff = repo.RangeDiff(ctx, in.Base, in.Head, 0)
			}
			if diff == "" {
				return "no changes", nil
			}
			return diff, nil
		}))

	r.Register(NewTool("git_status",
		"List files with staged changes and how each changed.",
		func(ctx context.Context, in gitStatusInput) (string, error) {
			records := repo.StagedStatus(ctx)
			if len(records) == 0 {
				return "no staged changes", nil
			}
			return FormatFileStatuses(records), nil
		}))

	r.Register(NewTool("git_branch",
		"Report the current branch and the repository's default branch.",
		func(ctx context.Context, in gitBranchInput) (string, error) {
			current := repo.CurrentBranch(ctx)
			def := repo.DefaultBranch(ctx)
			if current == "" {
				return "not on a branch", nil
			}
			if def == "" {
				return fmt.Sprintf("current branch: %s", current), nil
			}
			return fmt.Sprintf("current branch: %s\ndefault branch: %s", current, def), nil
		}))
}

// FormatCommits renders commit records as model-readable text, one
// commit per paragraph.
func FormatCommits(commits []gitrepo.CommitRecord) string {
	var b strings.Builder
	for i, c := range commits {
		if i > 0 {
			b.WriteString("\n")
		}
		hash := c.Hash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		fmt.Fprintf(&b, "%s %s\n", hash, c.Subject)
		if body := strings.TrimSpace(c.Body); body != "" {
			for _, line := range strings.Split(body, "\n") {
				fmt.Fprintf(&b, "    %s\n", line)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatFileStatuses renders file-status records one per line.
func FormatFileStatuses(records []gitrepo.FileStatusRecord) string {
	lines := make([]string, 0, len(records))
	for _, rec := range records {
		lines = append(lines, fmt.Sprintf("%-12s %s", rec.Status, rec.Path))
	}
	return strings.Join(lines, "\n")
}
