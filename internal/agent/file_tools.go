package agent

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/quillhq/gitquill/internal/sandbox"
)

const (
	// maxReadChars caps read_file output before the registry-level
	// ceiling applies.
	maxReadChars = 100_000

	readTruncationMarker = "\n[truncated: file exceeds read limit]"

	// defaultFindLimit caps find_files results when the caller does not
	// set one.
	defaultFindLimit = 50
)

type readFileInput struct {
	Path string `json:"path" jsonschema:"required" jsonschema_description:"File path relative to the project root"`
}

type listDirInput struct {
	Path      string `json:"path,omitempty" jsonschema_description:"Directory path relative to the project root (defaults to the root)"`
	Extension string `json:"extension,omitempty" jsonschema_description:"Only list files with this extension, e.g. .go"`
}

type findFilesInput struct {
	Suffix string `json:"suffix" jsonschema:"required" jsonschema_description:"File name suffix to match, e.g. _test.go or .md"`
	Path   string `json:"path,omitempty" jsonschema_description:"Subtree to search, relative to the project root (defaults to the root)"`
	Limit  int    `json:"limit,omitempty" jsonschema_description:"Maximum number of results (default 50)"`
}

type statPathInput struct {
	Path string `json:"path" jsonschema:"required" jsonschema_description:"Path relative to the project root"`
}

type pathInfoInput struct {
	Path string `json:"path" jsonschema:"required" jsonschema_description:"Any path string"`
}

// RegisterFileTools adds the read-only filesystem tools, all confined
// to the sandbox root.
func RegisterFileTools(r *Registry, sb *sandbox.Sandbox) {
	r.Register(NewTool("read_file",
		"Read a text file's contents. Large files are truncated.",
		func(ctx context.Context, in readFileInput) (string, error) {
			abs, err := sb.Resolve(in.Path)
			if err != nil {
				return "", err
			}
			data, err := os.ReadFile(abs)
			if err != nil {
				return "", fmt.Errorf("reading %s: %w", in.Path, err)
			}
			text := string(data)
			if len(text) > maxReadChars {
				text = text[:maxReadChars] + readTruncationMarker
			}
			return text, nil
		}))

	r.Register(NewTool("list_dir",
		"List a directory's immediate entries. Hidden and dependency directories are omitted.",
		func(ctx context.Context, in listDirInput) (string, error) {
			abs, err := sb.Resolve(in.Path)
			if err != nil {
				return "", err
			}
			entries, err := os.ReadDir(abs)
			if err != nil {
				return "", fmt.Errorf("listing %s: %w", in.Path, err)
			}
			var lines []string
			for _, e := range entries {
				if sandbox.IsIgnoredEntry(e.Name()) {
					continue
				}
				if e.IsDir() {
					lines = append(lines, e.Name()+"/")
					continue
				}
				if in.Extension != "" && !strings.HasSuffix(e.Name(), in.Extension) {
					continue
				}
				lines = append(lines, e.Name())
			}
			if len(lines) == 0 {
				return "(empty)", nil
			}
			return strings.Join(lines, "\n"), nil
		}))

	r.Register(NewTool("find_files",
		"Recursively find files whose name ends with a suffix, up to a result limit.",
		func(ctx context.Context, in findFilesInput) (string, error) {
			abs, err := sb.Resolve(in.Path)
			if err != nil {
				return "", err
			}
			limit := in.Limit
			if limit <= 0 {
				limit = defaultFindLimit
			}

			var matches []string
			walkErr := filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return nil
				}
				if d.IsDir() {
					if path != abs && sandbox.IsIgnoredEntry(d.Name()) {
						return fs.SkipDir
					}
					return nil
				}
				if !strings.HasSuffix(d.Name(), in.Suffix) {
					return nil
				}
				rel, relErr := filepath.Rel(sb.Root(), path)
				if relErr != nil {
					return nil
				}
				matches = append(matches, rel)
				if len(matches) >= limit {
					return fs.SkipAll
				}
				return nil
			})
			if walkErr != nil {
				return "", fmt.Errorf("searching %s: %w", in.Path, walkErr)
			}
			if len(matches) == 0 {
				return fmt.Sprintf("no files matching %q", in.Suffix), nil
			}
			sort.Strings(matches)
			return strings.Join(matches, "\n"), nil
		}))

	r.Register(NewTool("stat_path",
		"Check whether a path exists and report its kind and size.",
		func(ctx context.Context, in statPathInput) (string, error) {
			abs, err := sb.Resolve(in.Path)
			if err != nil {
				return "", err
			}
			info, err := os.Stat(abs)
			if os.IsNotExist(err) {
				return fmt.Sprintf("%s does not exist", in.Path), nil
			}
			if err != nil {
				return "", fmt.Errorf("stat %s: %w", in.Path, err)
			}
			if info.IsDir() {
				return fmt.Sprintf("%s is a directory", in.Path), nil
			}
			return fmt.Sprintf("%s is a file (%d bytes)", in.Path, info.Size()), nil
		}))

	r.Register(NewTool("path_info",
		"Derive the base name, parent directory, and extension of a path string.",
		func(ctx context.Context, in pathInfoInput) (string, error) {
			return fmt.Sprintf("base: %s\ndir: %s\nextension: %s",
				filepath.Base(in.Path),
				filepath.Dir(in.Path),
				filepath.Ext(in.Path)), nil
		}))
}
