package chatbot

import (
	"context"
	"strings"

	"github.com/graphmind/graphchat/chatbot/prompts"
	"github.com/graphmind/graphchat/graph"
)

// BuildMainGraph assembles the top-level orchestrator: send a welcome
// message once, then loop forever between waiting for user input,
// classifying intent, and dispatching into task execution, onboarding, or
// help. Every branch returns to the wait node.
func (w *Workflows) BuildMainGraph() (*graph.Runnable[*ChatSessionState], error) {
	taskExecution, err := w.buildTaskExecution()
	if err != nil {
		return nil, err
	}
	onboarding, err := w.buildOnboarding()
	if err != nil {
		return nil, err
	}

	g := graph.NewStateGraph[*ChatSessionState]()

	g.AddNode("send_welcome_message", "Greet the user once at session start",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			state.AppendAssistant(prompts.Welcome)
			writerFrom(ctx).Message(*state.LastMessage())
			return state, nil
		})

	g.AddNode("wait_for_user_input", "Suspend until the user replies",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			v, err := graph.Interrupt(ctx, "Please provide feedback")
			if err != nil {
				return state, err
			}
			state.AppendUser(resumeText(v))
			return state, nil
		})

	g.AddNode("detect_user_intent", "Classify the latest user message",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			last := state.LastMessage()
			command := ""
			if last != nil {
				command = last.Content
			}

			// Fixed literal commands short-circuit the classifier.
			switch strings.TrimSpace(command) {
			case "onboarding":
				state.FlowStatus = StatusOnboardingRequired
				return state, nil
			case "help":
				state.FlowStatus = StatusHelpRequested
				return state, nil
			}

			reply, err := w.complete(ctx, prompts.OnboardingDetector,
				[]Message{{Role: RoleUser, Content: command}})
			if err != nil {
				return state, err
			}
			// Fail closed: only the literal "true" routes to onboarding.
			// Malformed classifier output lands in normal task execution,
			// where the planner can still fail gracefully.
			if strings.EqualFold(strings.TrimSpace(reply), "true") {
				state.FlowStatus = StatusOnboardingRequired
				return state, nil
			}
			state.FlowStatus = StatusToolExecutionReady
			return state, nil
		})

	g.AddNode("handle_help_request", "Show the capability overview",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			names := make([]string, 0, len(w.registry.Names()))
			for _, n := range w.registry.Names() {
				names = append(names, string(n))
			}
			state.AppendAssistant(prompts.Help(names))
			writerFrom(ctx).Message(*state.LastMessage())
			return state, nil
		})

	graph.AddSubgraph(g, "call_task_execution_subgraph", "Run the tool-calling planner loop", taskExecution)
	graph.AddSubgraph(g, "call_onboarding_subgraph", "Run the guided onboarding flow", onboarding)

	g.SetEntryPoint("send_welcome_message")
	g.AddEdge("send_welcome_message", "wait_for_user_input")
	g.AddEdge("wait_for_user_input", "detect_user_intent")
	g.AddConditionalEdge("detect_user_intent", func(ctx context.Context, state *ChatSessionState) string {
		switch state.FlowStatus {
		case StatusOnboardingRequired:
			return "call_onboarding_subgraph"
		case StatusHelpRequested:
			return "handle_help_request"
		default:
			return "call_task_execution_subgraph"
		}
	})
	g.AddEdge("call_task_execution_subgraph", "wait_for_user_input")
	g.AddEdge("call_onboarding_subgraph", "wait_for_user_input")
	g.AddEdge("handle_help_request", "wait_for_user_input")

	return g.Compile()
}
