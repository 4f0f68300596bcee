package gitrepo

import "strings"

// CommitRecord is one parsed commit from the plumbing log output.
type CommitRecord struct {
	Hash    string `json:"hash"`
	Subject string `json:"subject"`
	Body    string `json:"body"` // may be empty
}

// FileStatusRecord is one entry from a name-status diff listing. Order
// follows the plumbing output order; the layer never re-sorts.
type FileStatusRecord struct {
	Status string `json:"status"`
	Path   string `json:"path"`
}

// logFormat emits one record per commit as
//
//	<hash> NUL <subject> NUL <body> LF NUL
//
// NUL is the field separator and LF+NUL the record sentinel. Commit
// messages cannot contain NUL, so embedded newlines, tabs, or pipe
// characters in bodies never corrupt record boundaries.
const logFormat = "--pretty=format:%H%x00%s%x00%b%x0a%x00"

const (
	fieldSep       = "\x00"
	recordSentinel = "\n\x00"
)

// ParseCommitLog parses plumbing output produced with logFormat into
// commit records. Malformed chunks are skipped rather than failing the
// whole parse.
func ParseCommitLog(out string) []CommitRecord {
	if out == "" {
		return nil
	}
	var records []CommitRecord
	for _, chunk := range strings.Split(out, recordSentinel) {
		// git separates entries with a newline of its own; it belongs
		// to the framing, not to the next record's hash field.
		chunk = strings.TrimPrefix(chunk, "\n")
		if chunk == "" {
			continue
		}
		parts := strings.SplitN(chunk, fieldSep, 3)
		if len(parts) != 3 {
			continue
		}
		records = append(records, CommitRecord{
			Hash:    parts[0],
			Subject: parts[1],
			Body:    parts[2],
		})
	}
	return records
}

// ParseNameStatus parses `--name-status -z` output into status records.
// Tokens are NUL-separated; renames and copies carry two paths, of which
// the new path is kept.
func ParseNameStatus(out string) []FileStatusRecord {
	out = strings.TrimSuffix(out, fieldSep)
	if out == "" {
		return nil
	}
	tokens := strings.Split(out, fieldSep)

	var records []FileStatusRecord
	for i := 0; i < len(tokens); {
		code := tokens[i]
		if code == "" {
			i++
			continue
		}
		switch code[0] {
		case 'R', 'C':
			if i+2 >= len(tokens) {
				return records
			}
			records = append(records, FileStatusRecord{
				Status: statusWord(code[0]),
				Path:   tokens[i+2],
			})
			i += 3
		default:
			if i+1 >= len(tokens) {
				return records
			}
			records = append(records, FileStatusRecord{
				Status: statusWord(code[0]),
				Path:   tokens[i+1],
			})
			i += 2
		}
	}
	return records
}

func statusWord(code byte) string {
	switch code {
	case 'A':
		return "added"
	case 'M':
		return "modified"
	case 'D':
		return "deleted"
	case 'R':
		return "renamed"
	case 'C':
		return "copied"
	case 'T':
		return "type-changed"
	case 'U':
		return "unmerged"
	default:
		return string(code)
	}
}

// DefaultDiffLimit bounds diff text handed to the agent.
const DefaultDiffLimit = 50000

const diffTruncationMarker = "\n[diff truncated due to size]"

// TruncateDiff caps a diff at limit characters, appending an explicit
// marker so the model knows content was cut. A limit of zero or less
// applies DefaultDiffLimit.
func TruncateDiff(diff string, limit int) string {
	if limit <= 0 {
		limit = DefaultDiffLimit
	}
	if len(diff) <= limit {
		return diff
	}
	return diff[:limit] + diffTruncationMarker
}
