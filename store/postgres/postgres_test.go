package postgres

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"

	"github.com/graphmind/graphchat/store"
)

func TestPostgresSave(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewWithPool(mock, "checkpoints")

	cp := &store.Checkpoint{
		ID:        "cp-1",
		ThreadID:  "thread-1",
		Path:      []string{"execute_next_task"},
		State:     json.RawMessage(`{"flow_status":"EXECUTE_TASK"}`),
		Timestamp: time.Now(),
		Version:   1,
	}

	pathJSON, _ := json.Marshal(cp.Path)
	metadataJSON, _ := json.Marshal(cp.Metadata)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO checkpoints")).
		WithArgs(
			cp.ID,
			cp.ThreadID,
			pathJSON,
			[]byte(cp.State),
			metadataJSON,
			cp.Timestamp,
			cp.Version,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, s.Save(context.Background(), cp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLoad(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewWithPool(mock, "checkpoints")

	timestamp := time.Now()
	rows := pgxmock.NewRows([]string{"id", "thread_id", "path", "state", "metadata", "timestamp", "version"}).
		AddRow("cp-1", "thread-1", []byte(`["execute_next_task"]`), []byte(`{"flow_status":"EXECUTE_TASK"}`), []byte(`null`), timestamp, 1)

	mock.ExpectQuery(regexp.QuoteMeta("FROM checkpoints WHERE id = $1")).
		WithArgs("cp-1").
		WillReturnRows(rows)

	loaded, err := s.Load(context.Background(), "cp-1")
	assert.NoError(t, err)
	assert.Equal(t, "thread-1", loaded.ThreadID)
	assert.Equal(t, []string{"execute_next_task"}, loaded.Path)
	assert.JSONEq(t, `{"flow_status":"EXECUTE_TASK"}`, string(loaded.State))
	assert.Nil(t, loaded.Metadata)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLoadNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewWithPool(mock, "checkpoints")

	rows := pgxmock.NewRows([]string{"id", "thread_id", "path", "state", "metadata", "timestamp", "version"})
	mock.ExpectQuery(regexp.QuoteMeta("FROM checkpoints WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(rows)

	_, err = s.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostgresLatest(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewWithPool(mock, "checkpoints")

	rows := pgxmock.NewRows([]string{"id", "thread_id", "path", "state", "metadata", "timestamp", "version"}).
		AddRow("cp-3", "thread-1", []byte(`[]`), []byte(`{}`), []byte(`null`), time.Now(), 3)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY version DESC LIMIT 1")).
		WithArgs("thread-1").
		WillReturnRows(rows)

	latest, err := s.Latest(context.Background(), "thread-1")
	assert.NoError(t, err)
	assert.Equal(t, "cp-3", latest.ID)
	assert.Equal(t, 3, latest.Version)
}

func TestPostgresDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewWithPool(mock, "checkpoints")

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM checkpoints WHERE id = $1")).
		WithArgs("cp-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	assert.NoError(t, s.Delete(context.Background(), "cp-1"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM checkpoints WHERE id = $1")).
		WithArgs("cp-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	assert.ErrorIs(t, s.Delete(context.Background(), "cp-1"), store.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
