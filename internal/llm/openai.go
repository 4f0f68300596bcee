package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
)

// openAIBackend implements Backend on the OpenAI chat completions API
// with function tools.
type openAIBackend struct {
	client openai.Client
	policy RetryPolicy
}

func newOpenAIBackend(apiKey string) *openAIBackend {
	return &openAIBackend{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		policy: DefaultRetryPolicy(),
	}
}

func (b *openAIBackend) Name() string { return string(ProviderOpenAI) }

func (b *openAIBackend) Complete(ctx context.Context, req Request) (*Response, error) {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(req.Model),
		Messages: toOpenAIMessages(req.Messages),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	for _, t := range req.Tools {
		params.Tools = append(params.Tools, openai.ChatCompletionFunctionTool(shared.FunctionDefinitionParam{
			Name:        t.Name,
			Description: openai.String(t.Description),
			Parameters:  shared.FunctionParameters(t.Parameters),
		}))
	}

	completion, err := retry(ctx, b.policy, func(ctx context.Context) (*openai.ChatCompletion, error) {
		c, err := b.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return nil, b.mapError(err)
		}
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, &ProviderError{BackendError: BackendError{
			Message: "response contained no choices",
		}, Provider: b.Name()}
	}

	choice := completion.Choices[0]
	resp := &Response{
		ID:         completion.ID,
		Model:      completion.Model,
		Text:       choice.Message.Content,
		StopReason: string(choice.FinishReason),
		Usage: Usage{
			InputTokens:  int(completion.Usage.PromptTokens),
			OutputTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:  int(completion.Usage.TotalTokens),
		},
	}
	for _, tc := range choice.Message.ToolCalls {
		resp.ToolCalls = append(resp.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}
	return resp, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Text))
		case RoleUser:
			out = append(out, openai.UserMessage(m.Text))
		case RoleAssistant:
			if len(m.ToolCalls) == 0 {
				out = append(out, openai.AssistantMessage(m.Text))
				continue
			}
			asst := openai.ChatCompletionAssistantMessageParam{}
			if m.Text != "" {
				asst.Content.OfString = openai.String(m.Text)
			}
			for _, tc := range m.ToolCalls {
				asst.ToolCalls = append(asst.ToolCalls, openai.ChatCompletionMessageToolCallUnionParam{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: tc.ID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      tc.Name,
							Arguments: string(tc.Arguments),
						},
					},
				})
			}
			out = append(out, openai.ChatCompletionMessageParamUnion{OfAssistant: &asst})
		case RoleTool:
			if m.ToolResult != nil {
				out = append(out, openai.ToolMessage(m.ToolResult.Content, m.ToolResult.ToolCallID))
			}
		}
	}
	return out
}

func (b *openAIBackend) mapError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return ErrorFromStatusCode(apierr.StatusCode, apierr.Message, b.Name())
	}
	return &NetworkError{BackendError: BackendError{
		Message: fmt.Sprintf("%s request failed", b.Name()),
		Cause:   err,
	}}
}
