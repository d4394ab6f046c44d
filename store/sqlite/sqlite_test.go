package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphmind/graphchat/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Options{Path: filepath.Join(t.TempDir(), "checkpoints.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newCheckpoint(id, threadID string, version int) *store.Checkpoint {
	return &store.Checkpoint{
		ID:       id,
		ThreadID: threadID,
		Path:     []string{"call_onboarding_subgraph", "wait_and_preview"},
		State:    json.RawMessage(`{"flow_status":"PREVIEW_SAMPLE_DATA"}`),
		Metadata: map[string]any{
			"source": "test",
		},
		Timestamp: time.Now().UTC().Truncate(time.Second),
		Version:   version,
	}
}

func TestSqliteSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cp := newCheckpoint("cp-1", "thread-1", 1)
	require.NoError(t, s.Save(ctx, cp))

	got, err := s.Load(ctx, "cp-1")
	require.NoError(t, err)
	assert.Equal(t, cp.ThreadID, got.ThreadID)
	assert.Equal(t, cp.Path, got.Path)
	assert.JSONEq(t, string(cp.State), string(got.State))
	assert.Equal(t, "test", got.Metadata["source"])
	assert.Equal(t, 1, got.Version)
}

func TestSqliteLoadMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSqliteSaveUpsertsByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cp := newCheckpoint("cp-1", "thread-1", 1)
	require.NoError(t, s.Save(ctx, cp))

	cp.State = json.RawMessage(`{"flow_status":"DONE"}`)
	cp.Path = nil
	require.NoError(t, s.Save(ctx, cp))

	got, err := s.Load(ctx, "cp-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"flow_status":"DONE"}`, string(got.State))
	assert.Empty(t, got.Path)
}

func TestSqliteLatestAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, newCheckpoint("cp-2", "thread-1", 2)))
	require.NoError(t, s.Save(ctx, newCheckpoint("cp-1", "thread-1", 1)))
	require.NoError(t, s.Save(ctx, newCheckpoint("cp-5", "thread-2", 5)))

	latest, err := s.Latest(ctx, "thread-1")
	require.NoError(t, err)
	assert.Equal(t, "cp-2", latest.ID)

	list, err := s.List(ctx, "thread-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "cp-1", list[0].ID)
	assert.Equal(t, "cp-2", list[1].ID)

	_, err = s.Latest(ctx, "thread-9")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSqliteDeleteAndClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, newCheckpoint("cp-1", "thread-1", 1)))
	require.NoError(t, s.Save(ctx, newCheckpoint("cp-2", "thread-1", 2)))

	require.NoError(t, s.Delete(ctx, "cp-1"))
	assert.ErrorIs(t, s.Delete(ctx, "cp-1"), store.ErrNotFound)

	require.NoError(t, s.Clear(ctx, "thread-1"))
	_, err := s.Latest(ctx, "thread-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
