package chatbot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func TestIsConfirmed(t *testing.T) {
	tests := []struct {
		reply string
		want  bool
	}{
		{"confirmed", true},
		{"Approved!", true},
		{"please go ahead", true},
		{"ok", true},
		{"OK, do it", true},
		{"That schema is approved by me", true},
		{"", false},
		{"no", false},
		{"change the edge direction", false},
		// "looks good" carries none of the fixed keywords; the heuristic
		// treats it as a change request.
		{"looks good", false},
		// Substring matching accepts "ok" inside unrelated words. Known
		// false positive of the heuristic, kept for compatibility.
		{"the build is broken", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isConfirmed(tt.reply), "reply %q", tt.reply)
	}
}

func TestChatSessionStateJSONRoundTrip(t *testing.T) {
	state := NewChatSessionState()
	state.AppendAssistant("welcome")
	state.AppendUser("hello")
	state.Messages = append(state.Messages, Message{
		Role:      RoleAssistant,
		ToolCalls: []ToolCall{{ID: "c1", Name: "get_schema", Arguments: `{"graph_name":"g"}`}},
	})
	state.AppendTool("c1", "get_schema", "schema text")
	state.FlowStatus = StatusTaskPlanInProgress
	state.SchemaDraft = "draft"
	state.PreviewedSampleData = "preview"
	state.FromOnboarding = true

	raw, err := json.Marshal(state)
	require.NoError(t, err)

	var got ChatSessionState
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, *state, got)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, "get_schema", got.Messages[3].ToolName)
}

func TestToLLMMessagesPreservesOrderAndRoles(t *testing.T) {
	msgs := []Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "checking", ToolCalls: []ToolCall{
			{ID: "c1", Name: "number_of_nodes", Arguments: `{"graph_name":"g"}`},
		}},
		{Role: RoleTool, Content: "12", ToolName: "number_of_nodes", ToolCallID: "c1"},
	}

	out := toLLMMessages(msgs)
	require.Len(t, out, 3)
	assert.Equal(t, llms.ChatMessageTypeHuman, out[0].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, out[1].Role)
	require.Len(t, out[1].Parts, 2)
	tc, ok := out[1].Parts[1].(llms.ToolCall)
	require.True(t, ok)
	assert.Equal(t, "number_of_nodes", tc.FunctionCall.Name)
	assert.Equal(t, llms.ChatMessageTypeTool, out[2].Role)
	tr, ok := out[2].Parts[0].(llms.ToolCallResponse)
	require.True(t, ok)
	assert.Equal(t, "c1", tr.ToolCallID)
	assert.Equal(t, "12", tr.Content)
}

func TestWithSystemPrepends(t *testing.T) {
	out := withSystem("instructions", []Message{{Role: RoleUser, Content: "hi"}})
	require.Len(t, out, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, out[0].Role)
}
