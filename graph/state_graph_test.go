package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateGraphLinear(t *testing.T) {
	g := NewStateGraph[map[string]any]()
	g.AddNode("A", "appends A", func(ctx context.Context, state map[string]any) (map[string]any, error) {
		state["value"] = state["value"].(string) + "A"
		return state, nil
	})
	g.AddNode("B", "appends B", func(ctx context.Context, state map[string]any) (map[string]any, error) {
		state["value"] = state["value"].(string) + "B"
		return state, nil
	})

	g.SetEntryPoint("A")
	g.AddEdge("A", "B")
	g.AddEdge("B", END)

	runnable, err := g.Compile()
	assert.NoError(t, err)

	res, err := runnable.Invoke(context.Background(), map[string]any{"value": "Start"})
	assert.NoError(t, err)
	assert.Equal(t, "StartAB", res["value"])
}

func TestStateGraphConditionalEdge(t *testing.T) {
	build := func() *StateGraph[map[string]any] {
		g := NewStateGraph[map[string]any]()
		g.AddNode("classify", "sets route", func(ctx context.Context, state map[string]any) (map[string]any, error) {
			return state, nil
		})
		g.AddNode("left", "left branch", func(ctx context.Context, state map[string]any) (map[string]any, error) {
			state["branch"] = "left"
			return state, nil
		})
		g.AddNode("right", "right branch", func(ctx context.Context, state map[string]any) (map[string]any, error) {
			state["branch"] = "right"
			return state, nil
		})
		g.SetEntryPoint("classify")
		g.AddEdge("left", END)
		g.AddEdge("right", END)
		return g
	}

	t.Run("RoutesByState", func(t *testing.T) {
		g := build()
		g.AddConditionalEdge("classify", func(ctx context.Context, state map[string]any) string {
			return state["route"].(string)
		})
		runnable, err := g.Compile()
		assert.NoError(t, err)

		res, err := runnable.Invoke(context.Background(), map[string]any{"route": "right"})
		assert.NoError(t, err)
		assert.Equal(t, "right", res["branch"])
	})

	t.Run("RouterMayReturnEND", func(t *testing.T) {
		g := build()
		g.AddConditionalEdge("classify", func(ctx context.Context, state map[string]any) string {
			return END
		})
		runnable, err := g.Compile()
		assert.NoError(t, err)

		res, err := runnable.Invoke(context.Background(), map[string]any{})
		assert.NoError(t, err)
		assert.NotContains(t, res, "branch")
	})

	t.Run("UnknownTargetFails", func(t *testing.T) {
		g := build()
		g.AddConditionalEdge("classify", func(ctx context.Context, state map[string]any) string {
			return "no_such_node"
		})
		runnable, err := g.Compile()
		assert.NoError(t, err)

		_, err = runnable.Invoke(context.Background(), map[string]any{})
		assert.ErrorIs(t, err, ErrNoSuchTransition)
	})

	t.Run("EmptyTargetFails", func(t *testing.T) {
		g := build()
		g.AddConditionalEdge("classify", func(ctx context.Context, state map[string]any) string {
			return ""
		})
		runnable, err := g.Compile()
		assert.NoError(t, err)

		_, err = runnable.Invoke(context.Background(), map[string]any{})
		assert.ErrorIs(t, err, ErrNoSuchTransition)
	})
}

func TestCompileValidation(t *testing.T) {
	t.Run("MissingEntryPoint", func(t *testing.T) {
		g := NewStateGraph[map[string]any]()
		g.AddNode("A", "A", func(ctx context.Context, state map[string]any) (map[string]any, error) {
			return state, nil
		})
		_, err := g.Compile()
		assert.ErrorIs(t, err, ErrEntryPointNotSet)
	})

	t.Run("EntryPointNotANode", func(t *testing.T) {
		g := NewStateGraph[map[string]any]()
		g.SetEntryPoint("missing")
		_, err := g.Compile()
		assert.ErrorIs(t, err, ErrNodeNotFound)
	})

	t.Run("EdgeToUnknownNode", func(t *testing.T) {
		g := NewStateGraph[map[string]any]()
		g.AddNode("A", "A", func(ctx context.Context, state map[string]any) (map[string]any, error) {
			return state, nil
		})
		g.SetEntryPoint("A")
		g.AddEdge("A", "ghost")
		_, err := g.Compile()
		assert.ErrorIs(t, err, ErrNodeNotFound)
	})
}

func TestNodeErrorIsWrapped(t *testing.T) {
	boom := errors.New("boom")

	g := NewStateGraph[map[string]any]()
	g.AddNode("A", "fails", func(ctx context.Context, state map[string]any) (map[string]any, error) {
		return state, boom
	})
	g.SetEntryPoint("A")
	g.AddEdge("A", END)

	runnable, err := g.Compile()
	assert.NoError(t, err)

	_, err = runnable.Invoke(context.Background(), map[string]any{})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "error in node A")
}

func TestNoOutgoingEdge(t *testing.T) {
	g := NewStateGraph[map[string]any]()
	g.AddNode("A", "dead end", func(ctx context.Context, state map[string]any) (map[string]any, error) {
		return state, nil
	})
	g.SetEntryPoint("A")

	runnable, err := g.Compile()
	assert.NoError(t, err)

	_, err = runnable.Invoke(context.Background(), map[string]any{})
	assert.ErrorIs(t, err, ErrNoOutgoingEdge)
}
