// Package llm adapts the OpenAI chat-completions API to the llms.Model
// interface the workflows program against. Classification prompts, drafting
// prompts, and tool-binding planner calls all go through GenerateContent.
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tmc/langchaingo/llms"
)

// Options configuration for the OpenAI client.
type Options struct {
	APIKey  string
	BaseURL string // Optional, for OpenAI-compatible endpoints
	Model   string // Default "gpt-4o"
}

// OpenAI implements llms.Model over the go-openai client.
type OpenAI struct {
	client *openai.Client
	model  string
}

var _ llms.Model = (*OpenAI)(nil)

// New creates an OpenAI-backed model.
func New(opts Options) *OpenAI {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	model := opts.Model
	if model == "" {
		model = "gpt-4o"
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// GenerateContent sends the transcript to the chat-completions API and maps
// the reply, including any tool-call requests, back to llms types.
func (o *OpenAI) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	req := openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: float32(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
	}
	if opts.Model != "" {
		req.Model = opts.Model
	}

	var err error
	req.Messages, err = toOpenAIMessages(messages)
	if err != nil {
		return nil, err
	}
	req.Tools = toOpenAITools(opts.Tools)

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	out := &llms.ContentResponse{}
	for _, choice := range resp.Choices {
		out.Choices = append(out.Choices, &llms.ContentChoice{
			Content:    choice.Message.Content,
			StopReason: string(choice.FinishReason),
			ToolCalls:  fromOpenAIToolCalls(choice.Message.ToolCalls),
		})
	}
	return out, nil
}

// Call implements the single-prompt convenience of llms.Model.
func (o *OpenAI) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := o.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func toOpenAIMessages(messages []llms.MessageContent) ([]openai.ChatCompletionMessage, error) {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		converted, err := toOpenAIMessage(msg)
		if err != nil {
			return nil, err
		}
		out = append(out, converted...)
	}
	return out, nil
}

// toOpenAIMessage maps one llms message. A tool-result message expands into
// one OpenAI message per ToolCallResponse part.
func toOpenAIMessage(msg llms.MessageContent) ([]openai.ChatCompletionMessage, error) {
	switch msg.Role {
	case llms.ChatMessageTypeSystem:
		return []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleSystem,
			Content: textOf(msg),
		}}, nil

	case llms.ChatMessageTypeHuman, llms.ChatMessageTypeGeneric:
		return []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: textOf(msg),
		}}, nil

	case llms.ChatMessageTypeAI:
		m := openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleAssistant,
			Content: textOf(msg),
		}
		for _, part := range msg.Parts {
			if tc, ok := part.(llms.ToolCall); ok {
				m.ToolCalls = append(m.ToolCalls, openai.ToolCall{
					ID:   tc.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      tc.FunctionCall.Name,
						Arguments: tc.FunctionCall.Arguments,
					},
				})
			}
		}
		return []openai.ChatCompletionMessage{m}, nil

	case llms.ChatMessageTypeTool:
		var out []openai.ChatCompletionMessage
		for _, part := range msg.Parts {
			if tr, ok := part.(llms.ToolCallResponse); ok {
				out = append(out, openai.ChatCompletionMessage{
					Role:       openai.ChatMessageRoleTool,
					ToolCallID: tr.ToolCallID,
					Name:       tr.Name,
					Content:    tr.Content,
				})
			}
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("tool message carries no tool responses")
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported message role %q", msg.Role)
	}
}

func textOf(msg llms.MessageContent) string {
	var text string
	for _, part := range msg.Parts {
		if t, ok := part.(llms.TextContent); ok {
			text += t.Text
		}
	}
	return text
}

func toOpenAITools(tools []llms.Tool) []openai.Tool {
	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		if t.Function == nil {
			continue
		}
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Function.Name,
				Description: t.Function.Description,
				Parameters:  t.Function.Parameters,
			},
		})
	}
	return out
}

func fromOpenAIToolCalls(calls []openai.ToolCall) []llms.ToolCall {
	out := make([]llms.ToolCall, 0, len(calls))
	for _, call := range calls {
		// Guard against models emitting malformed argument payloads: pass
		// them through, the executor treats parse failures as tool errors.
		args := call.Function.Arguments
		if args == "" {
			args = "{}"
		}
		out = append(out, llms.ToolCall{
			ID:   call.ID,
			Type: string(call.Type),
			FunctionCall: &llms.FunctionCall{
				Name:      call.Function.Name,
				Arguments: args,
			},
		})
	}
	return out
}
