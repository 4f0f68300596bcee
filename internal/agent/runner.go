package agent

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"

	"github.com/quillhq/gitquill/internal/llm"
)

// OutputMode selects how a run's raw terminal text is shaped into a
// Result.
type OutputMode int

const (
	// OutputPlain sanitizes the text and returns it whole.
	OutputPlain OutputMode = iota
	// OutputTitleBody splits the sanitized text into a first-line title
	// and the remaining body.
	OutputTitleBody
	// OutputCommitMessage extracts a commit message from the sanitized
	// text, discarding any narration around it.
	OutputCommitMessage
)

// Spec is a bound task configuration: instructions, the tool subset the
// model may use, and the step budget that bounds the run.
type Spec struct {
	ID           string
	Instructions string
	Registry     *Registry
	MaxSteps     int
	Output       OutputMode
}

// Result is the outcome of one run. Exhausted reports that the budget
// ended the run before the model produced terminal text; the Text then
// holds whatever the model last said, possibly nothing. Exhaustion is
// not an error.
type Result struct {
	RunID     string
	Text      string
	Title     string
	Body      string
	Steps     int
	Exhausted bool
	Usage     llm.Usage
}

// EventKind classifies runner progress events.
type EventKind int

const (
	EventModelCall EventKind = iota
	EventToolCall
	EventToolResult
	EventDone
)

// Event is one progress notification. Events fire synchronously on the
// runner's goroutine.
type Event struct {
	Kind    EventKind
	Step    int
	Tool    string
	Summary string
}

// Runner drives bounded tool-calling conversations against one backend.
type Runner struct {
	backend llm.Backend
	model   string

	// OnEvent, when set, receives progress events during Run.
	OnEvent func(Event)
}

// NewRunner creates a Runner for a backend and model.
func NewRunner(backend llm.Backend, model string) *Runner {
	return &Runner{backend: backend, model: model}
}

func (r *Runner) emit(e Event) {
	if r.OnEvent != nil {
		r.OnEvent(e)
	}
}

// Run executes one conversation for spec with the given task prompt.
// The loop makes at most spec.MaxSteps model calls: each iteration
// increments the step counter, sends the conversation, and either
// returns the model's terminal text or executes its tool calls in
// request order and goes around again. Hitting the budget is a defined
// terminal state, not an error.
func (r *Runner) Run(ctx context.Context, spec Spec, task string) (*Result, error) {
	if spec.MaxSteps < 1 {
		return nil, fmt.Errorf("spec %s: step budget must be at least 1", spec.ID)
	}
	if spec.Registry == nil {
		spec.Registry = NewRegistry()
	}

	runID := uuid.NewString()
	log := clog.FromContext(ctx).With("run_id", runID, "spec", spec.ID)
	log.InfoContext(ctx, "starting run", "model", r.model, "max_steps", spec.MaxSteps)

	messages := []llm.Message{
		llm.SystemMessage(spec.Instructions),
		llm.UserMessage(task),
	}
	tools := spec.Registry.Definitions()

	result := &Result{RunID: runID}
	lastText := ""

	for result.Steps < spec.MaxSteps {
		result.Steps++
		r.emit(Event{Kind: EventModelCall, Step: result.Steps})

		resp, err := r.backend.Complete(ctx, llm.Request{
			Model:    r.model,
			Messages: messages,
			Tools:    tools,
		})
		if err != nil {
			return nil, fmt.Errorf("model call failed at step %d: %w", result.Steps, err)
		}
		result.Usage = result.Usage.Add(resp.Usage)

		if resp.Text != "" {
			lastText = resp.Text
		}

		if len(resp.ToolCalls) == 0 {
			result.Text = resp.Text
			r.shape(result, spec.Output)
			r.emit(Event{Kind: EventDone, Step: result.Steps})
			log.InfoContext(ctx, "run complete", "steps", result.Steps,
				"input_tokens", result.Usage.InputTokens, "output_tokens", result.Usage.OutputTokens)
			return result, nil
		}

		messages = append(messages, llm.AssistantMessage(resp.Text, resp.ToolCalls))
		for _, call := range resp.ToolCalls {
			r.emit(Event{Kind: EventToolCall, Step: result.Steps, Tool: call.Name, Summary: string(call.Arguments)})
			log.DebugContext(ctx, "executing tool", "tool", call.Name)

			res := spec.Registry.Execute(ctx, call)
			r.emit(Event{Kind: EventToolResult, Step: result.Steps, Tool: call.Name})
			messages = append(messages, llm.ToolResultMessage(res.ToolCallID, res.Content, res.IsError))
		}
	}

	result.Text = lastText
	result.Exhausted = true
	r.shape(result, spec.Output)
	r.emit(Event{Kind: EventDone, Step: result.Steps})
	log.InfoContext(ctx, "step budget exhausted", "steps", result.Steps)
	return result, nil
}

// shape applies the output mode to the raw terminal text.
func (r *Runner) shape(result *Result, mode OutputMode) {
	cleaned := Clean(result.Text)
	switch mode {
	case OutputTitleBody:
		result.Text = cleaned
		result.Title, result.Body = SplitTitle(cleaned)
	case OutputCommitMessage:
		result.Text = ExtractCommitMessage(cleaned)
	default:
		result.Text = cleaned
	}
}
