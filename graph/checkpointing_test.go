package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/graphmind/graphchat/store/memory"
)

type sessionState struct {
	Greeted bool   `json:"greeted"`
	Answer  string `json:"answer,omitempty"`
	Done    bool   `json:"done"`
}

func buildCheckpointedGraph(t *testing.T) *Runnable[*sessionState] {
	t.Helper()

	g := NewStateGraph[*sessionState]()
	g.AddNode("greet", "greets", func(ctx context.Context, state *sessionState) (*sessionState, error) {
		state.Greeted = true
		return state, nil
	})
	g.AddNode("ask", "asks", func(ctx context.Context, state *sessionState) (*sessionState, error) {
		answer, err := Interrupt(ctx, "your answer?")
		if err != nil {
			return state, err
		}
		state.Answer = answer.(string)
		return state, nil
	})
	g.AddNode("finish", "finishes", func(ctx context.Context, state *sessionState) (*sessionState, error) {
		state.Done = true
		return state, nil
	})
	g.SetEntryPoint("greet")
	g.AddEdge("greet", "ask")
	g.AddEdge("ask", "finish")
	g.AddEdge("finish", END)

	runnable, err := g.Compile()
	assert.NoError(t, err)
	return runnable
}

func TestCheckpointableResumeAcrossInstances(t *testing.T) {
	cs := memory.New()
	ctx := context.Background()

	first := NewCheckpointable(buildCheckpointedGraph(t), cs)
	_, err := first.Invoke(ctx, &sessionState{}, WithThreadID("thread-1"))

	var gi *GraphInterrupt
	assert.ErrorAs(t, err, &gi)
	assert.Equal(t, []string{"ask"}, gi.Path)

	suspended, path, err := first.Suspended(ctx, "thread-1")
	assert.NoError(t, err)
	assert.True(t, suspended)
	assert.Equal(t, []string{"ask"}, path)

	// A fresh wrapper over the same store simulates a process restart.
	second := NewCheckpointable(buildCheckpointedGraph(t), cs)
	state, err := second.Resume(ctx, "thread-1", "forty-two")
	assert.NoError(t, err)
	assert.True(t, state.Greeted)
	assert.Equal(t, "forty-two", state.Answer)
	assert.True(t, state.Done)

	// Completion is checkpointed with an empty path.
	suspended, _, err = second.Suspended(ctx, "thread-1")
	assert.NoError(t, err)
	assert.False(t, suspended)
}

func TestCheckpointableRequiresThreadID(t *testing.T) {
	c := NewCheckpointable(buildCheckpointedGraph(t), memory.New())
	_, err := c.Invoke(context.Background(), &sessionState{}, &Config{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "thread_id")
}

func TestCheckpointVersionsIncrease(t *testing.T) {
	cs := memory.New()
	ctx := context.Background()
	c := NewCheckpointable(buildCheckpointedGraph(t), cs)

	_, err := c.Invoke(ctx, &sessionState{}, WithThreadID("thread-1"))
	var gi *GraphInterrupt
	assert.ErrorAs(t, err, &gi)

	_, err = c.Resume(ctx, "thread-1", "ok")
	assert.NoError(t, err)

	list, err := cs.List(ctx, "thread-1")
	assert.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 1, list[0].Version)
	assert.Equal(t, 2, list[1].Version)
}

func TestSuspendedUnknownThread(t *testing.T) {
	c := NewCheckpointable(buildCheckpointedGraph(t), memory.New())
	suspended, path, err := c.Suspended(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.False(t, suspended)
	assert.Nil(t, path)
}
