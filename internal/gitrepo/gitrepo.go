// Package gitrepo wraps git plumbing behind a structured, size-bounded
// query layer. Commit and status listings are parsed from NUL-delimited
// plumbing output; every query degrades to an empty result when the
// repository state makes it inapplicable, so callers distinguish "empty"
// from "error" only through the empty collection itself.
package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/chainguard-dev/clog"
)

// Repository issues read-only plumbing queries against a working
// directory.
type Repository struct {
	dir string
}

// Open binds a Repository to dir. It does not verify the directory; use
// IsRepository for that precondition.
func Open(dir string) *Repository {
	return &Repository{dir: dir}
}

// Dir returns the bound working directory.
func (r *Repository) Dir() string { return r.dir }

// run executes a git subcommand in the repository directory and returns
// its stdout. Exit failures are returned as errors for the caller to
// interpret; query methods swallow them into empty results.
func (r *Repository) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", r.dir}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// IsRepository reports whether the bound directory is inside a git
// work tree.
func (r *Repository) IsRepository(ctx context.Context) bool {
	_, err := r.run(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// HasStagedChanges reports whether anything is staged for commit.
func (r *Repository) HasStagedChanges(ctx context.Context) bool {
	out, err := r.run(ctx, "diff", "--cached", "--name-only")
	return err == nil && strings.TrimSpace(out) != ""
}

// CurrentBranch returns the checked-out branch name, or "" when it
// cannot be determined.
func (r *Repository) CurrentBranch(ctx context.Context) string {
	out, err := r.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// DefaultBranch returns the repository's default branch. It prefers the
// remote HEAD symref and falls back to main, then master, then "".
func (r *Repository) DefaultBranch(ctx context.Context) string {
	out, err := r.run(ctx, "symbolic-ref", "--short", "refs/remotes/origin/HEAD")
	if err == nil {
		name := strings.TrimSpace(out)
		return strings.TrimPrefix(name, "origin/")
	}
	for _, name := range []string{"main", "master"} {
		if _, err := r.run(ctx, "rev-parse", "--verify", "refs/heads/"+name); err == nil {
			return name
		}
	}
	return ""
}

// Commits returns commit records for base..head, newest first. An empty
// base lists the most recent commits reachable from head (or HEAD when
// head is also empty). limit caps the count; zero or less means 20.
func (r *Repository) Commits(ctx context.Context, base, head string, limit int) []CommitRecord {
	if limit <= 0 {
		limit = 20
	}
	args := []string{"log", logFormat, fmt.Sprintf("-n%d", limit)}
	switch {
	case base != "" && head != "":
		args = append(args, base+".."+head)
	case base != "":
		args = append(args, base+"..HEAD")
	case head != "":
		args = append(args, head)
	}
	out, err := r.run(ctx, args...)
	if err != nil {
		clog.FromContext(ctx).Debug("commit query returned no results", "base", base, "head", head, "error", err)
		return nil
	}
	return ParseCommitLog(out)
}

// StagedDiff returns the staged diff, truncated at limit characters
// (DefaultDiffLimit when limit is zero or less).
func (r *Repository) StagedDiff(ctx context.Context, limit int) string {
	out, err := r.run(ctx, "diff", "--cached")
	if err != nil {
		return ""
	}
	return TruncateDiff(out, limit)
}

// RangeDiff returns the diff between base and head (three-dot: changes
// on head since it diverged from base), truncated at limit characters.
func (r *Repository) RangeDiff(ctx context.Context, base, head string, limit int) string {
	if head == "" {
		head = "HEAD"
	}
	out, err := r.run(ctx, "diff", base+"..."+head)
	if err != nil {
		return ""
	}
	return TruncateDiff(out, limit)
}

// StagedStatus returns file-status records for the staged changes, in
// plumbing output order.
func (r *Repository) StagedStatus(ctx context.Context) []FileStatusRecord {
	out, err := r.run(ctx, "diff", "--cached", "--name-status", "-z")
	if err != nil {
		return nil
	}
	return ParseNameStatus(out)
}

// ChangedFiles returns file-status records for base...head.
func (r *Repository) ChangedFiles(ctx context.Context, base, head string) []FileStatusRecord {
	if head == "" {
		head = "HEAD"
	}
	out, err := r.run(ctx, "diff", "--name-status", "-z", base+"..."+head)
	if err != nil {
		return nil
	}
	return ParseNameStatus(out)
}
