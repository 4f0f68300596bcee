package agent

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/gitquill/internal/sandbox"
)

func newFileToolRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	root := t.TempDir()
	sb, err := sandbox.New(root)
	require.NoError(t, err)
	reg := NewRegistry()
	RegisterFileTools(reg, sb)
	return reg, root
}

func execute(t *testing.T, reg *Registry, tool string, args any) (string, bool) {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	res := reg.Execute(context.Background(), call(tool, string(raw)))
	return res.Content, res.IsError
}

func TestReadFile(t *testing.T) {
	reg, root := newFileToolRegistry(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "hello.txt"), []byte("hello world"), 0o644))

	content, isErr := execute(t, reg, "read_file", map[string]string{"path": "hello.txt"})
	assert.False(t, isErr)
	assert.Equal(t, "hello world", content)
}

func TestReadFileTruncatesAtCeiling(t *testing.T) {
	reg, root := newFileToolRegistry(t)
	big := strings.Repeat("a", maxReadChars+5_000)
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.txt"), []byte(big), 0o644))

	content, isErr := execute(t, reg, "read_file", map[string]string{"path": "big.txt"})
	assert.False(t, isErr)
	assert.True(t, strings.HasSuffix(content, readTruncationMarker))
	assert.Len(t, content, maxReadChars+len(readTruncationMarker))
}

func TestReadFileOutsideRootIsToolText(t *testing.T) {
	reg, _ := newFileToolRegistry(t)
	content, isErr := execute(t, reg, "read_file", map[string]string{"path": "../../etc/passwd"})
	assert.True(t, isErr)
	assert.Contains(t, content, "path outside project directory")
}

func TestReadFileMissingIsToolText(t *testing.T) {
	reg, _ := newFileToolRegistry(t)
	content, isErr := execute(t, reg, "read_file", map[string]string{"path": "nope.txt"})
	assert.True(t, isErr)
	assert.Contains(t, content, "nope.txt")
}

func TestListDir(t *testing.T) {
	reg, root := newFileToolRegistry(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.md"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "node_modules"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "pkg"), 0o755))

	content, isErr := execute(t, reg, "list_dir", map[string]string{})
	assert.False(t, isErr)
	assert.Contains(t, content, "a.go")
	assert.Contains(t, content, "b.md")
	assert.Contains(t, content, "pkg/")
	assert.NotContains(t, content, ".hidden")
	assert.NotContains(t, content, "node_modules")
}

func TestListDirExtensionFilter(t *testing.T) {
	reg, root := newFileToolRegistry(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.md"), nil, 0o644))

	content, isErr := execute(t, reg, "list_dir", map[string]string{"extension": ".go"})
	assert.False(t, isErr)
	assert.Contains(t, content, "a.go")
	assert.NotContains(t, content, "b.md")
}

func TestFindFilesRespectsLimit(t *testing.T) {
	reg, root := newFileToolRegistry(t)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name+".go"), nil, 0o644))
	}

	content, isErr := execute(t, reg, "find_files", map[string]any{"suffix": ".go", "limit": 3})
	assert.False(t, isErr)
	assert.Len(t, strings.Split(content, "\n"), 3)
}

func TestFindFilesSkipsIgnoredDirs(t *testing.T) {
	reg, root := newFileToolRegistry(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "dep"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "dep", "index.go"), nil, 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.go"), nil, 0o644))

	content, isErr := execute(t, reg, "find_files", map[string]string{"suffix": ".go"})
	assert.False(t, isErr)
	assert.Contains(t, content, filepath.Join("src", "main.go"))
	assert.NotContains(t, content, "node_modules")
}

func TestFindFilesNoMatches(t *testing.T) {
	reg, _ := newFileToolRegistry(t)
	content, isErr := execute(t, reg, "find_files", map[string]string{"suffix": ".zig"})
	assert.False(t, isErr)
	assert.Contains(t, content, "no files matching")
}

func TestStatPath(t *testing.T) {
	reg, root := newFileToolRegistry(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "f.txt"), []byte("12345"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "d"), 0o755))

	content, _ := execute(t, reg, "stat_path", map[string]string{"path": "f.txt"})
	assert.Contains(t, content, "is a file (5 bytes)")

	content, _ = execute(t, reg, "stat_path", map[string]string{"path": "d"})
	assert.Contains(t, content, "is a directory")

	content, _ = execute(t, reg, "stat_path", map[string]string{"path": "missing"})
	assert.Contains(t, content, "does not exist")
}

func TestPathInfo(t *testing.T) {
	reg, _ := newFileToolRegistry(t)
	content, isErr := execute(t, reg, "path_info", map[string]string{"path": "internal/agent/runner.go"})
	assert.False(t, isErr)
	assert.Contains(t, content, "base: runner.go")
	assert.Contains(t, content, "dir: internal/agent")
	assert.Contains(t, content, "extension: .go")
}
