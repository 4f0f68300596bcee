package agent

import (
	"regexp"
	"strings"
)

// Throat-clearing preambles models commonly emit before the artifact.
var preamblePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(sure|okay|ok|certainly|of course|got it|great)[,!.]?\s+`),
	regexp.MustCompile(`(?i)^here('s| is| are)\b[^:\n]*:\s*`),
	regexp.MustCompile(`(?i)^(i('ve| have)?\s+)?(generated|written|created|prepared|drafted)\b[^:\n]*:\s*`),
	regexp.MustCompile(`(?i)^(the|your|a|an)\s+(commit message|pr description|pull request|changelog|review|summary|description|documentation|explanation)\b[^:\n]*:\s*`),
	regexp.MustCompile(`(?i)^(based on|looking at|after (reviewing|examining|analyzing))\b[^:\n]*[,:]\s*`),
}

var fenceRe = regexp.MustCompile("^```[a-zA-Z0-9_-]*\n")

// Clean strips code fences and conversational preamble from model
// output. Cleaning is idempotent: stripping runs until the text is
// stable.
func Clean(text string) string {
	for {
		cleaned := cleanOnce(text)
		if cleaned == text {
			return cleaned
		}
		text = cleaned
	}
}

func cleanOnce(text string) string {
	text = strings.TrimSpace(text)

	// An output wrapped entirely in one code fence is unwrapped.
	if fenceRe.MatchString(text) && strings.HasSuffix(text, "```") {
		inner := fenceRe.ReplaceAllString(text, "")
		inner = strings.TrimSuffix(inner, "```")
		text = strings.TrimSpace(inner)
	}

	for _, re := range preamblePatterns {
		text = re.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

// SplitTitle separates text into its first non-empty line and the rest.
// A leading markdown heading marker on the title line is removed.
func SplitTitle(text string) (title, body string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		title = strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		body = strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		return title, body
	}
	return "", ""
}

// conventionalRe matches a conventional-commit subject line.
var conventionalRe = regexp.MustCompile(`^(feat|fix|docs|style|refactor|perf|test|build|ci|chore|revert)(\([^)]*\))?!?:\s+\S`)

// imperativeRe matches a plain imperative subject line.
var imperativeRe = regexp.MustCompile(`^(Add|Remove|Update|Fix|Refactor|Implement|Improve|Rename|Move|Delete|Merge|Revert|Bump|Introduce|Extract|Simplify|Replace|Document|Test|Clean|Support|Drop|Upgrade|Downgrade|Enable|Disable|Make|Use|Allow|Prevent|Handle|Change|Set)\b`)

// maxSubjectLen is the longest line accepted as a commit subject.
const maxSubjectLen = 100

// ExtractCommitMessage finds the commit message inside sanitized model
// output: the first line that looks like a commit subject, and
// everything after it. Text before the subject is narration and is
// dropped. If no line qualifies, the input is returned unchanged.
func ExtractCommitMessage(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || len(trimmed) > maxSubjectLen {
			continue
		}
		if conventionalRe.MatchString(trimmed) || imperativeRe.MatchString(trimmed) {
			rest := append([]string{trimmed}, lines[i+1:]...)
			return strings.TrimSpace(strings.Join(rest, "\n"))
		}
	}
	return text
}
