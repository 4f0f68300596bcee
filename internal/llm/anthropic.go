package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// defaultAnthropicMaxTokens applies when the request does not set a
// ceiling; the messages API requires one.
const defaultAnthropicMaxTokens = 4096

// anthropicBackend implements Backend on the Anthropic messages API with
// tool_use blocks.
type anthropicBackend struct {
	client anthropic.Client
	policy RetryPolicy
}

func newAnthropicBackend(apiKey string) *anthropicBackend {
	return &anthropicBackend{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		policy: DefaultRetryPolicy(),
	}
}

func (b *anthropicBackend) Name() string { return string(ProviderAnthropic) }

func (b *anthropicBackend) Complete(ctx context.Context, req Request) (*Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	system, msgs := toAnthropicMessages(req.Messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: int64(maxTokens),
		Messages:  msgs,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	for _, t := range req.Tools {
		params.Tools = append(params.Tools, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        t.Name,
				Description: anthropic.String(t.Description),
				InputSchema: toAnthropicSchema(t.Parameters),
			},
		})
	}

	message, err := retry(ctx, b.policy, func(ctx context.Context) (*anthropic.Message, error) {
		m, err := b.client.Messages.New(ctx, params)
		if err != nil {
			return nil, b.mapError(err)
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}

	resp := &Response{
		ID:         message.ID,
		Model:      string(message.Model),
		StopReason: string(message.StopReason),
		Usage: Usage{
			InputTokens:  int(message.Usage.InputTokens),
			OutputTokens: int(message.Usage.OutputTokens),
			TotalTokens:  int(message.Usage.InputTokens + message.Usage.OutputTokens),
		},
	}
	for _, content := range message.Content {
		switch content.Type {
		case "text":
			resp.Text += content.Text
		case "tool_use":
			resp.ToolCalls = append(resp.ToolCalls, ToolCall{
				ID:        content.ID,
				Name:      content.Name,
				Arguments: json.RawMessage(content.Input),
			})
		}
	}
	return resp, nil
}

// toAnthropicMessages converts the conversation, lifting system messages
// into the dedicated system field the messages API expects.
func toAnthropicMessages(messages []Message) (string, []anthropic.MessageParam) {
	var system string
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			if system != "" {
				system += "\n\n"
			}
			system += m.Text
		case RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
		case RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if m.Text != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Text))
			}
			for _, tc := range m.ToolCalls {
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    tc.ID,
						Name:  tc.Name,
						Input: tc.Arguments,
					},
				})
			}
			out = append(out, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleAssistant,
				Content: blocks,
			})
		case RoleTool:
			if m.ToolResult == nil {
				continue
			}
			out = append(out, anthropic.MessageParam{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{{
					OfToolResult: &anthropic.ToolResultBlockParam{
						ToolUseID: m.ToolResult.ToolCallID,
						IsError:   anthropic.Bool(m.ToolResult.IsError),
						Content: []anthropic.ToolResultBlockParamContentUnion{{
							OfText: &anthropic.TextBlockParam{Text: m.ToolResult.Content},
						}},
					},
				}},
			})
		}
	}
	return system, out
}

// toAnthropicSchema maps a JSON Schema object into the input schema
// shape the tools API takes.
func toAnthropicSchema(params map[string]any) anthropic.ToolInputSchemaParam {
	schema := anthropic.ToolInputSchemaParam{Type: "object"}
	if props, ok := params["properties"]; ok {
		schema.Properties = props
	}
	if req, ok := params["required"].([]any); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}
	if req, ok := params["required"].([]string); ok {
		schema.Required = req
	}
	return schema
}

func (b *anthropicBackend) mapError(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return ErrorFromStatusCode(apierr.StatusCode, apierr.Error(), b.Name())
	}
	return &NetworkError{BackendError: BackendError{
		Message: fmt.Sprintf("%s request failed", b.Name()),
		Cause:   err,
	}}
}
