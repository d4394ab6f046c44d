package chatbot

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/graphmind/graphchat/gdb"
	"github.com/graphmind/graphchat/graph"
	"github.com/graphmind/graphchat/log"
	"github.com/graphmind/graphchat/store"
	"github.com/graphmind/graphchat/tools"
)

// SessionOptions wires a session's collaborators.
type SessionOptions struct {
	Model    llms.Model
	Registry *tools.Registry
	Client   *gdb.Client
	Store    store.CheckpointStore
	ThreadID string
	Writer   Writer // Optional; defaults to NopWriter
}

// Session drives one conversation thread over the checkpointed main graph.
// State is persisted at every suspension, so the process can be torn down
// between turns and a fresh Session over the same store and thread id picks
// up exactly where the last one stopped.
type Session struct {
	graph    *graph.Checkpointable[*ChatSessionState]
	threadID string
	writer   Writer
}

// NewSession compiles the workflow graphs and wraps them with checkpointing.
func NewSession(opts SessionOptions) (*Session, error) {
	if opts.ThreadID == "" {
		return nil, fmt.Errorf("session requires a thread id")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("session requires a checkpoint store")
	}

	runnable, err := NewWorkflows(opts.Model, opts.Registry, opts.Client).BuildMainGraph()
	if err != nil {
		return nil, fmt.Errorf("building main graph: %w", err)
	}

	writer := opts.Writer
	if writer == nil {
		writer = NopWriter{}
	}
	return &Session{
		graph:    graph.NewCheckpointable(runnable, opts.Store),
		threadID: opts.ThreadID,
		writer:   writer,
	}, nil
}

// Start begins a fresh conversation: the welcome message is emitted and the
// graph runs until its first suspension.
func (s *Session) Start(ctx context.Context) (*ChatSessionState, error) {
	ctx = WithWriter(ctx, s.writer)
	state, err := s.graph.Invoke(ctx, NewChatSessionState(), graph.WithThreadID(s.threadID))
	return s.finishTurn(state, err)
}

// Resume hands the user's reply to the suspended graph and runs until the
// next suspension.
func (s *Session) Resume(ctx context.Context, userText string) (*ChatSessionState, error) {
	ctx = WithWriter(ctx, s.writer)
	state, err := s.graph.Resume(ctx, s.threadID, userText)
	return s.finishTurn(state, err)
}

// Suspended reports whether the thread is parked at an interrupt.
func (s *Session) Suspended(ctx context.Context) (bool, error) {
	suspended, _, err := s.graph.Suspended(ctx, s.threadID)
	return suspended, err
}

// finishTurn normalizes the outcome of one turn. Suspension is the normal
// resting point of a conversation, not an error. A genuine error ends the
// turn with a user-visible message; the session itself stays alive, and the
// next input resumes from the last checkpoint.
func (s *Session) finishTurn(state *ChatSessionState, err error) (*ChatSessionState, error) {
	if err == nil {
		return state, nil
	}

	var gi *graph.GraphInterrupt
	if errors.As(err, &gi) {
		if st, ok := gi.State.(*ChatSessionState); ok && st != nil {
			state = st
		}
		return state, nil
	}

	log.Error("session %s turn failed: %v", s.threadID, err)
	s.writer.Message(Message{
		Role:    RoleAssistant,
		Content: fmt.Sprintf("[Error] Session: %v", err),
	})
	return state, err
}
