package agent

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/gitquill/internal/llm"
)

// scriptedBackend replays canned responses in order. After the script
// runs out it repeats the final response, which lets a single entry
// model a backend that always requests tools.
type scriptedBackend struct {
	responses []llm.Response
	calls     int
	requests  []llm.Request
}

func (s *scriptedBackend) Name() string { return "scripted" }

func (s *scriptedBackend) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	s.calls++
	s.requests = append(s.requests, req)
	i := s.calls - 1
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	resp := s.responses[i]
	return &resp, nil
}

func textResponse(text string) llm.Response {
	return llm.Response{Text: text, StopReason: "stop"}
}

func toolResponse(name, args string) llm.Response {
	return llm.Response{
		ToolCalls:  []llm.ToolCall{{ID: "tc-1", Name: name, Arguments: json.RawMessage(args)}},
		StopReason: "tool_use",
	}
}

func testSpec(reg *Registry, maxSteps int) Spec {
	return Spec{ID: "test", Instructions: "do the thing", Registry: reg, MaxSteps: maxSteps}
}

func TestRunTerminalText(t *testing.T) {
	backend := &scriptedBackend{responses: []llm.Response{textResponse("the answer")}}
	runner := NewRunner(backend, "test-model")

	result, err := runner.Run(context.Background(), testSpec(NewRegistry(), 5), "task")
	require.NoError(t, err)
	assert.Equal(t, "the answer", result.Text)
	assert.Equal(t, 1, result.Steps)
	assert.False(t, result.Exhausted)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 1, backend.calls)
}

func TestRunExecutesToolsThenReturnsText(t *testing.T) {
	reg := NewRegistry()
	reg.Register(echoTool())

	backend := &scriptedBackend{responses: []llm.Response{
		toolResponse("echo", `{"text":"probe"}`),
		textResponse("done after tool"),
	}}
	runner := NewRunner(backend, "test-model")

	result, err := runner.Run(context.Background(), testSpec(reg, 5), "task")
	require.NoError(t, err)
	assert.Equal(t, "done after tool", result.Text)
	assert.Equal(t, 2, result.Steps)
	assert.False(t, result.Exhausted)

	// The second request must carry the assistant tool call and its
	// result back to the model.
	second := backend.requests[1]
	require.Len(t, second.Messages, 4)
	assert.Equal(t, llm.RoleAssistant, second.Messages[2].Role)
	require.NotNil(t, second.Messages[3].ToolResult)
	assert.Equal(t, "probe", second.Messages[3].ToolResult.Content)
	assert.False(t, second.Messages[3].ToolResult.IsError)
}

func TestRunBudgetExhaustionCapsModelCalls(t *testing.T) {
	reg := NewRegistry()
	reg.Register(echoTool())

	// A pathological model that always requests a tool call.
	backend := &scriptedBackend{responses: []llm.Response{
		toolResponse("echo", `{"text":"again"}`),
	}}
	runner := NewRunner(backend, "test-model")

	const budget = 4
	result, err := runner.Run(context.Background(), testSpec(reg, budget), "task")
	require.NoError(t, err)
	assert.True(t, result.Exhausted)
	assert.Equal(t, budget, result.Steps)
	assert.Equal(t, budget, backend.calls)
	assert.Empty(t, result.Text)
}

func TestRunExhaustionReturnsLastText(t *testing.T) {
	reg := NewRegistry()
	reg.Register(echoTool())

	backend := &scriptedBackend{responses: []llm.Response{
		{Text: "partial findings so far", ToolCalls: []llm.ToolCall{{ID: "tc-1", Name: "echo", Arguments: json.RawMessage(`{"text":"x"}`)}}},
	}}
	runner := NewRunner(backend, "test-model")

	result, err := runner.Run(context.Background(), testSpec(reg, 2), "task")
	require.NoError(t, err)
	assert.True(t, result.Exhausted)
	assert.Equal(t, "partial findings so far", result.Text)
}

func TestRunMalformedToolArgsFedBack(t *testing.T) {
	reg := NewRegistry()
	reg.Register(echoTool())

	backend := &scriptedBackend{responses: []llm.Response{
		toolResponse("echo", `{broken`),
		textResponse("recovered"),
	}}
	runner := NewRunner(backend, "test-model")

	result, err := runner.Run(context.Background(), testSpec(reg, 5), "task")
	require.NoError(t, err)
	assert.Equal(t, "recovered", result.Text)

	second := backend.requests[1]
	require.NotNil(t, second.Messages[3].ToolResult)
	assert.True(t, second.Messages[3].ToolResult.IsError)
	assert.Contains(t, second.Messages[3].ToolResult.Content, "invalid arguments")
}

func TestRunUnknownToolFedBack(t *testing.T) {
	backend := &scriptedBackend{responses: []llm.Response{
		toolResponse("does_not_exist", `{}`),
		textResponse("adapted"),
	}}
	runner := NewRunner(backend, "test-model")

	result, err := runner.Run(context.Background(), testSpec(NewRegistry(), 5), "task")
	require.NoError(t, err)
	assert.Equal(t, "adapted", result.Text)

	second := backend.requests[1]
	require.NotNil(t, second.Messages[3].ToolResult)
	assert.True(t, second.Messages[3].ToolResult.IsError)
}

func TestRunRejectsZeroBudget(t *testing.T) {
	runner := NewRunner(&scriptedBackend{responses: []llm.Response{textResponse("x")}}, "m")
	_, err := runner.Run(context.Background(), testSpec(NewRegistry(), 0), "task")
	assert.Error(t, err)
}

func TestRunAccumulatesUsage(t *testing.T) {
	reg := NewRegistry()
	reg.Register(echoTool())

	backend := &scriptedBackend{responses: []llm.Response{
		{ToolCalls: []llm.ToolCall{{ID: "tc-1", Name: "echo", Arguments: json.RawMessage(`{"text":"x"}`)}},
			Usage: llm.Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		{Text: "done", Usage: llm.Usage{InputTokens: 20, OutputTokens: 7, TotalTokens: 27}},
	}}
	runner := NewRunner(backend, "test-model")

	result, err := runner.Run(context.Background(), testSpec(reg, 5), "task")
	require.NoError(t, err)
	assert.Equal(t, llm.Usage{InputTokens: 30, OutputTokens: 12, TotalTokens: 42}, result.Usage)
}

func TestRunCommitMessageOutputMode(t *testing.T) {
	backend := &scriptedBackend{responses: []llm.Response{
		textResponse("Sure, here's the message:\n\nfeat: add retry logic\n\nAdds exponential backoff."),
	}}
	runner := NewRunner(backend, "test-model")

	spec := testSpec(NewRegistry(), 3)
	spec.Output = OutputCommitMessage
	result, err := runner.Run(context.Background(), spec, "task")
	require.NoError(t, err)
	assert.Equal(t, "feat: add retry logic\n\nAdds exponential backoff.", result.Text)
}

func TestRunTitleBodyOutputMode(t *testing.T) {
	backend := &scriptedBackend{responses: []llm.Response{
		textResponse("Add OAuth login support\n\n## Summary\nAdds OAuth flow."),
	}}
	runner := NewRunner(backend, "test-model")

	spec := testSpec(NewRegistry(), 3)
	spec.Output = OutputTitleBody
	result, err := runner.Run(context.Background(), spec, "task")
	require.NoError(t, err)
	assert.Equal(t, "Add OAuth login support", result.Title)
	assert.Equal(t, "## Summary\nAdds OAuth flow.", result.Body)
}

func TestRunEmitsEvents(t *testing.T) {
	reg := NewRegistry()
	reg.Register(echoTool())

	backend := &scriptedBackend{responses: []llm.Response{
		toolResponse("echo", `{"text":"x"}`),
		textResponse("done"),
	}}
	runner := NewRunner(backend, "test-model")

	var kinds []EventKind
	runner.OnEvent = func(e Event) { kinds = append(kinds, e.Kind) }

	_, err := runner.Run(context.Background(), testSpec(reg, 5), "task")
	require.NoError(t, err)
	assert.Equal(t, []EventKind{
		EventModelCall, EventToolCall, EventToolResult,
		EventModelCall, EventDone,
	}, kinds)
}
