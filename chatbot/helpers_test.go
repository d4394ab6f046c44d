package chatbot

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/tmc/langchaingo/llms"

	"github.com/graphmind/graphchat/gdb"
	"github.com/graphmind/graphchat/graph"
	"github.com/graphmind/graphchat/tools"
)

// resumeConfig re-enters a suspended graph with the user's reply.
func resumeConfig(path []string, reply string) *graph.Config {
	return &graph.Config{ResumePath: path, ResumeValue: reply}
}

// modelTurn is one scripted model response.
type modelTurn struct {
	content   string
	toolCalls []llms.ToolCall
	err       error
}

func textTurn(content string) modelTurn {
	return modelTurn{content: content}
}

func toolTurn(content string, calls ...llms.ToolCall) modelTurn {
	return modelTurn{content: content, toolCalls: calls}
}

func call(id, name, args string) llms.ToolCall {
	return llms.ToolCall{
		ID:   id,
		Type: "function",
		FunctionCall: &llms.FunctionCall{
			Name:      name,
			Arguments: args,
		},
	}
}

// fakeModel replays scripted turns in order and records every request.
type fakeModel struct {
	mu    sync.Mutex
	turns []modelTurn
	calls [][]llms.MessageContent
}

var _ llms.Model = (*fakeModel)(nil)

func newFakeModel(turns ...modelTurn) *fakeModel {
	return &fakeModel{turns: turns}
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, messages)
	if len(m.turns) == 0 {
		return nil, fmt.Errorf("fake model exhausted after %d calls", len(m.calls))
	}
	turn := m.turns[0]
	m.turns = m.turns[1:]
	if turn.err != nil {
		return nil, turn.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		Content:   turn.content,
		ToolCalls: turn.toolCalls,
	}}}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func (m *fakeModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *fakeModel) remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.turns)
}

// recordWriter captures workflow progress for assertions.
type recordWriter struct {
	mu       sync.Mutex
	statuses []string
	messages []Message
}

func (w *recordWriter) Status(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.statuses = append(w.statuses, text)
}

func (w *recordWriter) Message(msg Message) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = append(w.messages, msg)
}

func newTestGDB(t *testing.T) *gdb.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return gdb.NewWithClient(client, "graphchat:")
}

func newTestWorkflows(t *testing.T, model llms.Model) *Workflows {
	t.Helper()
	return newTestWorkflowsWithClient(t, model, newTestGDB(t))
}

func newTestWorkflowsWithClient(t *testing.T, model llms.Model, client *gdb.Client) *Workflows {
	t.Helper()
	registry := tools.NewRegistry(client, gdb.LocalFetcher{})
	return NewWorkflows(model, registry, client)
}

// toolMessagesByName collects the transcript's tool entries per tool name.
func toolMessagesByName(state *ChatSessionState) map[string][]Message {
	out := make(map[string][]Message)
	for _, m := range state.Messages {
		if m.Role == RoleTool {
			out[m.ToolName] = append(out[m.ToolName], m)
		}
	}
	return out
}
