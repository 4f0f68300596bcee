package agent

import "fmt"

// defaultOutputLimit caps tool results without a per-tool entry.
const defaultOutputLimit = 30_000

// outputLimits sets per-tool character ceilings on results fed back to
// the model. read_file gets headroom above its own internal limit so
// its truncation marker is never clipped here.
var outputLimits = map[string]int{
	"read_file":  120_000,
	"git_diff":   50_000,
	"git_log":    25_000,
	"find_files": 20_000,
	"list_dir":   20_000,
}

// truncateToolOutput enforces the per-tool output ceiling, appending a
// marker naming how much was removed.
func truncateToolOutput(toolName, output string) string {
	limit, ok := outputLimits[toolName]
	if !ok {
		limit = defaultOutputLimit
	}
	if len(output) <= limit {
		return output
	}
	removed := len(output) - limit
	return output[:limit] + fmt.Sprintf("\n[output truncated: %d characters removed]", removed)
}
