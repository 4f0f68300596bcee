package sandbox

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestResolveInsideRoot(t *testing.T) {
	root := t.TempDir()
	sb, err := New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"relative file", "main.go", filepath.Join(sb.Root(), "main.go")},
		{"nested", "internal/agent/runner.go", filepath.Join(sb.Root(), "internal/agent/runner.go")},
		{"dot", ".", sb.Root()},
		{"empty", "", sb.Root()},
		{"absolute inside", filepath.Join(sb.Root(), "x.txt"), filepath.Join(sb.Root(), "x.txt")},
		{"redundant segments", "a/./b/../c", filepath.Join(sb.Root(), "a/c")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sb.Resolve(tt.path)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolveDeniesEscape(t *testing.T) {
	root := t.TempDir()
	sb, err := New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, path := range []string{
		"..",
		"../sibling",
		"a/../../etc/passwd",
		"/etc/passwd",
		"../../..",
	} {
		t.Run(path, func(t *testing.T) {
			_, err := sb.Resolve(path)
			if !errors.Is(err, ErrOutsideRoot) {
				t.Errorf("Resolve(%q) err = %v, want ErrOutsideRoot", path, err)
			}
		})
	}
}

func TestDenialMessage(t *testing.T) {
	if got := ErrOutsideRoot.Error(); got != "path outside project directory" {
		t.Errorf("denial message = %q", got)
	}
}

func TestIsIgnoredEntry(t *testing.T) {
	ignored := []string{".git", ".env", "node_modules", "vendor", "dist", "__pycache__"}
	for _, name := range ignored {
		if !IsIgnoredEntry(name) {
			t.Errorf("IsIgnoredEntry(%q) = false, want true", name)
		}
	}
	kept := []string{"main.go", "internal", "README.md", "cmd"}
	for _, name := range kept {
		if IsIgnoredEntry(name) {
			t.Errorf("IsIgnoredEntry(%q) = true, want false", name)
		}
	}
}
