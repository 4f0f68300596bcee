// Package sandbox confines filesystem access to a configured root
// directory. All agent file tools resolve paths through a Sandbox so the
// model can never read outside the project it was pointed at.
package sandbox

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned when a resolved path escapes the sandbox
// root. Tools surface its message as tool output text, not as a fatal
// error, so the model can adapt its next request.
var ErrOutsideRoot = errors.New("path outside project directory")

// ignoredDirs are directory names excluded from listings and searches.
// They hold dependency caches and build output that would flood the
// model with noise.
var ignoredDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"target":       true,
	"dist":         true,
	"build":        true,
	"__pycache__":  true,
	".git":         true,
	".idea":        true,
	".vscode":      true,
}

// Sandbox resolves relative paths against a root directory and rejects
// anything that escapes it. Resolution is purely lexical: the candidate
// is made absolute, cleaned, and checked for containment.
type Sandbox struct {
	root string
}

// New creates a Sandbox rooted at root. The root is made absolute so
// containment checks are stable regardless of the process working
// directory.
func New(root string) (*Sandbox, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("sandbox root: %w", err)
	}
	return &Sandbox{root: filepath.Clean(abs)}, nil
}

// Root returns the absolute sandbox root.
func (s *Sandbox) Root() string { return s.root }

// Resolve maps path (relative to the root, or absolute) to an absolute
// path, returning ErrOutsideRoot if the result is not at or under the
// root. The root itself resolves successfully.
func (s *Sandbox) Resolve(path string) (string, error) {
	p := path
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.root, p)
	}
	p = filepath.Clean(p)

	rel, err := filepath.Rel(s.root, p)
	if err != nil {
		return "", ErrOutsideRoot
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return p, nil
}

// IsIgnoredEntry reports whether a directory entry name should be
// filtered from listings and searches: hidden entries and the fixed
// denylist of dependency/build directories.
func IsIgnoredEntry(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	return ignoredDirs[name]
}
