package chatbot

import (
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// Role tags a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a tool invocation requested by the assistant.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message is one transcript entry. Tool entries carry the originating tool
// name and call id; assistant entries may carry the tool calls they
// requested.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolName   string     `json:"tool_name,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

// FlowStatus marks which state-machine transition should fire next. Each
// router reads only the values of its own closed enumeration; anything else
// reaching a router is a graph-definition defect.
type FlowStatus string

const (
	// Main workflow
	StatusToolExecutionReady FlowStatus = "tool_execution_ready"
	StatusOnboardingRequired FlowStatus = "onboarding_required"
	StatusHelpRequested      FlowStatus = "help_requested"

	// Task execution workflow
	StatusTaskPlanInProgress        FlowStatus = "task_plan_in_progress"
	StatusTaskPlanCompleted         FlowStatus = "task_plan_completed"
	StatusTriggerSchemaSubgraph     FlowStatus = "trigger_schema_subgraph"
	StatusTriggerLoadingSubgraph    FlowStatus = "trigger_loading_subgraph"
	StatusTriggerAlgorithmsSubgraph FlowStatus = "trigger_algorithms_subgraph"
	StatusProceedToNextTask         FlowStatus = "proceed_to_next_task"

	// Onboarding workflow
	StatusPreviewSuccessful FlowStatus = "preview_successful"
	StatusPreviewFailed     FlowStatus = "preview_failed"

	// Schema creation workflow
	StatusUserConfirmedSchema        FlowStatus = "user_confirmed_schema"
	StatusUserRequestedSchemaChanges FlowStatus = "user_requested_schema_changes"
	StatusSchemaCreatedSuccessful    FlowStatus = "schema_created_successful"
	StatusSchemaCreatedFailed        FlowStatus = "schema_created_failed"

	// Data loading workflow
	StatusUserConfirmedJob        FlowStatus = "user_confirmed_job"
	StatusUserRequestedJobChanges FlowStatus = "user_requested_job_changes"
	StatusDataLoadedSuccessful    FlowStatus = "data_loaded_successful"
	StatusDataLoadedFailed        FlowStatus = "data_loaded_failed"

	// Algorithms workflow
	StatusUserConfirmedAlgorithms  FlowStatus = "user_confirmed_algorithms"
	StatusUserRequestedAlgoChanges FlowStatus = "user_requested_algo_changes"
)

// ChatSessionState is the durable per-conversation aggregate. It is the unit
// checkpointed at every suspension, so everything here must survive a JSON
// round trip.
//
// The transcript grows monotonically for the lifetime of a session; only the
// draft scratch fields are ever cleared.
type ChatSessionState struct {
	Messages   []Message  `json:"messages"`
	FlowStatus FlowStatus `json:"flow_status,omitempty"`

	// SchemaDraft holds the in-progress schema text while a schema-creation
	// pass is active; cleared unconditionally once the pass ends.
	SchemaDraft string `json:"schema_draft,omitempty"`

	// LoadingJobDraft is the analogous scratch field for data loading.
	LoadingJobDraft string `json:"loading_job_draft,omitempty"`

	// PreviewedSampleData caches the last successful data preview; it seeds
	// column classification. Set once per onboarding pass.
	PreviewedSampleData string `json:"previewed_sample_data,omitempty"`

	// FromOnboarding marks that the schema/load sequence was entered via
	// onboarding, which chains loading after a successful schema creation.
	FromOnboarding bool `json:"from_onboarding,omitempty"`
}

// NewChatSessionState creates an empty session state.
func NewChatSessionState() *ChatSessionState {
	return &ChatSessionState{}
}

// AppendUser appends a user entry to the transcript.
func (s *ChatSessionState) AppendUser(content string) {
	s.Messages = append(s.Messages, Message{Role: RoleUser, Content: content})
}

// AppendAssistant appends an assistant entry to the transcript.
func (s *ChatSessionState) AppendAssistant(content string) {
	s.Messages = append(s.Messages, Message{Role: RoleAssistant, Content: content})
}

// AppendTool appends a tool-result entry tagged with the originating tool.
func (s *ChatSessionState) AppendTool(callID, toolName, content string) {
	s.Messages = append(s.Messages, Message{
		Role:       RoleTool,
		Content:    content,
		ToolName:   toolName,
		ToolCallID: callID,
	})
}

// LastMessage returns the newest transcript entry, or nil when empty.
func (s *ChatSessionState) LastMessage() *Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return &s.Messages[len(s.Messages)-1]
}

// confirmationKeywords is the fixed set the review loops match against. The
// substring match is a best-effort heuristic, not NLU: "ok" inside an
// unrelated word confirms, and paraphrases like "looks good" do not.
var confirmationKeywords = []string{"confirmed", "approved", "go ahead", "ok"}

// isConfirmed reports whether the user's reply counts as a confirmation.
func isConfirmed(reply string) bool {
	lower := strings.ToLower(reply)
	for _, kw := range confirmationKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// resumeText renders an interrupt resume value as user text.
func resumeText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// toLLMMessages converts the transcript into langchaingo message contents
// for replay to the model. Order is preserved; it is semantically
// meaningful.
func toLLMMessages(msgs []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleUser:
			out = append(out, llms.TextParts(llms.ChatMessageTypeHuman, m.Content))

		case RoleAssistant:
			mc := llms.MessageContent{Role: llms.ChatMessageTypeAI}
			if m.Content != "" {
				mc.Parts = append(mc.Parts, llms.TextPart(m.Content))
			}
			for _, tc := range m.ToolCalls {
				mc.Parts = append(mc.Parts, llms.ToolCall{
					ID:   tc.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				})
			}
			out = append(out, mc)

		case RoleTool:
			out = append(out, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{
					llms.ToolCallResponse{
						ToolCallID: m.ToolCallID,
						Name:       m.ToolName,
						Content:    m.Content,
					},
				},
			})
		}
	}
	return out
}

// withSystem prepends a system instruction to converted transcript messages.
func withSystem(system string, msgs []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(msgs)+1)
	out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, system))
	out = append(out, toLLMMessages(msgs)...)
	return out
}
