package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/graphmind/graphchat/store"
)

// Checkpointable wraps a compiled graph with durable checkpointing. After
// every invocation the state and suspension path are persisted under the
// thread identifier, so a conversation survives process teardown and can be
// resumed on a fresh instance.
type Checkpointable[S any] struct {
	runnable *Runnable[S]
	store    store.CheckpointStore
}

// NewCheckpointable creates a checkpointing wrapper around a compiled graph.
func NewCheckpointable[S any](runnable *Runnable[S], cs store.CheckpointStore) *Checkpointable[S] {
	return &Checkpointable[S]{
		runnable: runnable,
		store:    cs,
	}
}

// Invoke runs the graph and persists the outcome under the config's
// thread_id. A completed run is saved with an empty path; an interrupted run
// is saved with the interrupt's path so Resume can re-enter at the exact
// node. The interrupt itself is still returned to the caller.
func (c *Checkpointable[S]) Invoke(ctx context.Context, initialState S, config *Config) (S, error) {
	threadID := config.ThreadID()
	if threadID == "" {
		return initialState, fmt.Errorf("checkpointing requires a thread_id in the config")
	}

	state, err := c.runnable.InvokeWithConfig(ctx, initialState, config)
	if err != nil {
		if gi, ok := err.(*GraphInterrupt); ok {
			if saveErr := c.save(ctx, threadID, state, gi.Path); saveErr != nil {
				return state, fmt.Errorf("saving interrupt checkpoint: %w", saveErr)
			}
		}
		return state, err
	}

	if saveErr := c.save(ctx, threadID, state, nil); saveErr != nil {
		return state, fmt.Errorf("saving checkpoint: %w", saveErr)
	}
	return state, nil
}

// Resume loads the latest checkpoint for the thread and re-enters the graph
// at the saved path, handing resumeValue to the interrupted node. Resuming a
// thread whose latest checkpoint has no path (a completed run) restarts the
// graph from its entry point with the saved state.
func (c *Checkpointable[S]) Resume(ctx context.Context, threadID string, resumeValue any) (S, error) {
	var zero S

	cp, err := c.store.Latest(ctx, threadID)
	if err != nil {
		return zero, fmt.Errorf("loading checkpoint for thread %s: %w", threadID, err)
	}

	state, err := decodeState[S](cp.State)
	if err != nil {
		return zero, fmt.Errorf("decoding checkpoint state: %w", err)
	}

	config := WithThreadID(threadID)
	config.ResumePath = cp.Path
	config.ResumeValue = resumeValue
	return c.Invoke(ctx, state, config)
}

// Suspended reports whether the thread's latest checkpoint is an interrupt,
// along with its path. A thread with no checkpoints is not suspended.
func (c *Checkpointable[S]) Suspended(ctx context.Context, threadID string) (bool, []string, error) {
	cp, err := c.store.Latest(ctx, threadID)
	if err != nil {
		if err == store.ErrNotFound {
			return false, nil, nil
		}
		return false, nil, err
	}
	return len(cp.Path) > 0, cp.Path, nil
}

func (c *Checkpointable[S]) save(ctx context.Context, threadID string, state S, path []string) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	version := 1
	if latest, err := c.store.Latest(ctx, threadID); err == nil {
		version = latest.Version + 1
	}

	return c.store.Save(ctx, &store.Checkpoint{
		ID:        uuid.NewString(),
		ThreadID:  threadID,
		Path:      path,
		State:     raw,
		Timestamp: time.Now().UTC(),
		Version:   version,
	})
}

// decodeState unmarshals a checkpointed state. When S is a pointer type the
// pointee is allocated first so the decode has somewhere to land.
func decodeState[S any](raw json.RawMessage) (S, error) {
	var state S
	t := reflect.TypeOf(state)
	if t != nil && t.Kind() == reflect.Ptr {
		v := reflect.New(t.Elem())
		if err := json.Unmarshal(raw, v.Interface()); err != nil {
			return state, err
		}
		return v.Interface().(S), nil
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return state, err
	}
	return state, nil
}
