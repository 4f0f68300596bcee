package agent

import (
	"fmt"

	"github.com/quillhq/gitquill/internal/gitrepo"
	"github.com/quillhq/gitquill/internal/sandbox"
)

// Specialization names a built-in task configuration.
type Specialization string

const (
	SpecCommit    Specialization = "commit"
	SpecPR        Specialization = "pr"
	SpecReview    Specialization = "review"
	SpecChangelog Specialization = "changelog"
	SpecDocs      Specialization = "docs"
	SpecExplain   Specialization = "explain"
)

const commitInstructions = `You write git commit messages. Investigate the staged changes with the
tools available, then produce one commit message: a subject line in
conventional-commit form (type: summary, 72 characters or fewer),
optionally followed by a blank line and a short body explaining what
changed and why. Output only the commit message, nothing else.`

const prInstructions = `You write pull request descriptions. Investigate the branch's commits
and diff with the tools available, then produce a PR description: a
one-line title on the first line, a blank line, then a markdown body
summarizing what changed, why, and anything reviewers should focus on.
Output only the title and body, nothing else.`

const reviewInstructions = `You review code changes. Investigate the diff and any files you need
with the tools available, then produce a concise review: concrete
observations about correctness, clarity, and risk, each tied to a
specific file or hunk. Point out real problems; do not pad the review
with praise or restate the diff. Output only the review text.`

const changelogInstructions = `You write changelog entries. Investigate the commit range with the
tools available, then produce user-facing changelog entries in
markdown: one bullet per meaningful change, grouped under Added,
Changed, Fixed, and Removed headings as applicable. Skip internal-only
changes. Output only the changelog entries.`

const docsInstructions = `You write developer documentation. Investigate the relevant files with
the tools available, then produce markdown documentation for what was
asked: a one-line title on the first line, a blank line, then the body.
Be accurate to the code you read; do not document behavior you did not
verify. Output only the documentation.`

const explainInstructions = `You explain code. Investigate the files in question with the tools
available, then produce a clear prose explanation of what the code does
and how its pieces fit together, at the level of detail the question
calls for. Output only the explanation.`

// BuildSpec assembles the Spec for a specialization, registering the
// tool subset the task needs against the given sandbox and repository.
func BuildSpec(kind Specialization, sb *sandbox.Sandbox, repo *gitrepo.Repository) (Spec, error) {
	reg := NewRegistry()
	RegisterFileTools(reg, sb)
	RegisterRepoTools(reg, repo)

	spec := Spec{ID: string(kind), Registry: reg}
	switch kind {
	case SpecCommit:
		spec.Instructions = commitInstructions
		spec.MaxSteps = 8
		spec.Output = OutputCommitMessage
	case SpecPR:
		spec.Instructions = prInstructions
		spec.MaxSteps = 10
		spec.Output = OutputTitleBody
	case SpecReview:
		spec.Instructions = reviewInstructions
		spec.MaxSteps = 15
		spec.Output = OutputPlain
	case SpecChangelog:
		spec.Instructions = changelogInstructions
		spec.MaxSteps = 10
		spec.Output = OutputPlain
	case SpecDocs:
		spec.Instructions = docsInstructions
		spec.MaxSteps = 10
		spec.Output = OutputTitleBody
	case SpecExplain:
		spec.Instructions = explainInstructions
		spec.MaxSteps = 8
		spec.Output = OutputPlain
	default:
		return Spec{}, fmt.Errorf("unknown specialization %q", kind)
	}
	return spec, nil
}
