// Package agent runs bounded tool-calling conversations against a model
// backend. A Runner drives the loop, a Registry holds the read-only
// tools the model may call, and Spec values describe the built-in task
// specializations.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/quillhq/gitquill/internal/llm"
)

// ToolHandler executes one validated tool invocation. A returned error
// becomes descriptive text fed back to the model; it never aborts the
// run.
type ToolHandler func(ctx context.Context, args json.RawMessage) (string, error)

// Tool couples a model-facing definition with its handler and the
// output limit applied to its results.
type Tool struct {
	Definition llm.ToolDefinition
	Handler    ToolHandler
	required   []string
}

// NewTool builds a Tool whose argument schema is reflected from In.
// The handler receives an already-unmarshaled input value.
func NewTool[In any](name, description string, handler func(ctx context.Context, in In) (string, error)) Tool {
	schema, err := reflectSchema[In]()
	if err != nil {
		// Schemas come from package-level struct types; a failure
		// here is a programming error.
		panic(fmt.Sprintf("tool %s: %v", name, err))
	}
	required := requiredFields(schema)

	return Tool{
		Definition: llm.ToolDefinition{
			Name:        name,
			Description: description,
			Parameters:  schema,
		},
		required: required,
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			if err := checkRequired(args, required); err != nil {
				return "", err
			}
			var in In
			if len(args) > 0 {
				if err := json.Unmarshal(args, &in); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
			}
			return handler(ctx, in)
		},
	}
}

// checkRequired verifies that every required field is present in the
// raw argument object before the typed unmarshal runs.
func checkRequired(args json.RawMessage, required []string) error {
	if len(required) == 0 {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(args, &fields); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	for _, name := range required {
		if _, ok := fields[name]; !ok {
			return fmt.Errorf("missing required argument %q", name)
		}
	}
	return nil
}

// Registry holds the tools available to one run. Registration order is
// preserved so tool definitions reach the model deterministically.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool, replacing any previous tool with the same name.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Definition.Name]; !exists {
		r.order = append(r.order, t.Definition.Name)
	}
	r.tools[t.Definition.Name] = t
}

// Definitions returns the model-facing tool definitions in
// registration order.
func (r *Registry) Definitions() []llm.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]llm.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition)
	}
	return defs
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Execute runs one tool call and returns its result. Unknown tools,
// malformed arguments, and handler failures all produce an error-flagged
// result whose content describes the problem; the caller feeds it back
// to the model and continues.
func (r *Registry) Execute(ctx context.Context, call llm.ToolCall) llm.ToolResult {
	r.mu.RLock()
	tool, ok := r.tools[call.Name]
	r.mu.RUnlock()

	if !ok {
		return llm.ToolResult{
			ToolCallID: call.ID,
			Content:    fmt.Sprintf("unknown tool %q", call.Name),
			IsError:    true,
		}
	}

	output, err := tool.Handler(ctx, call.Arguments)
	if err != nil {
		return llm.ToolResult{
			ToolCallID: call.ID,
			Content:    fmt.Sprintf("tool %s failed: %v", call.Name, err),
			IsError:    true,
		}
	}

	return llm.ToolResult{
		ToolCallID: call.ID,
		Content:    truncateToolOutput(call.Name, output),
	}
}
