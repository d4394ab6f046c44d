package chatbot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphmind/graphchat/gdb"
)

func TestStripDiagnosticHints(t *testing.T) {
	in := "⚠️ row 3: empty id." + gdb.DiagnosticHint + "\n⚠️ row 7: empty id." + gdb.DiagnosticHint
	out := stripDiagnosticHints(in)
	assert.NotContains(t, out, "SHOW LOAD WARNINGS")
	assert.Contains(t, out, "row 3: empty id.")
	assert.Contains(t, out, "row 7: empty id.")
}

func TestDataLoadingConfirmFlow(t *testing.T) {
	model := newFakeModel(
		textTurn("Schema: Person(id, name)."),
		textTurn("files: f_people -> people.csv"),
		textTurn("files + node mappings"),
		textTurn("files + node + edge mappings. Please confirm."),
		textTurn(`{"success": true, "message": "✅ Loading finished: 10 nodes and 4 edges.` + gdb.DiagnosticHint + `"}`),
	)
	w := newTestWorkflows(t, model)
	r, err := w.buildDataLoading()
	require.NoError(t, err)

	state := NewChatSessionState()
	state.AppendUser("load people.csv into the graph")

	state, gi := invokeUntilInterrupt(t, r, state)
	assert.Equal(t, []string{"wait_for_user_review_job"}, gi.Path)
	assert.Equal(t, "files + node + edge mappings. Please confirm.", state.LoadingJobDraft)

	got, err := r.InvokeWithConfig(context.Background(), state, resumeConfig(gi.Path, "confirmed"))
	require.NoError(t, err)
	assert.Equal(t, StatusDataLoadedSuccessful, got.FlowStatus)
	assert.Empty(t, got.LoadingJobDraft)
	final := got.LastMessage()
	assert.Contains(t, final.Content, "✅ Loading finished: 10 nodes and 4 edges.")
	assert.NotContains(t, final.Content, "SHOW LOAD WARNINGS")
}

func TestDataLoadingEditLoop(t *testing.T) {
	model := newFakeModel(
		textTurn("Schema: Person(id)."),
		textTurn("files draft"),
		textTurn("node mappings draft"),
		textTurn("edge mappings draft. Please confirm."),
		textTurn("revised draft with tab separator. Please confirm."),
		textTurn(`{"success": true, "message": "✅ Loading finished."}`),
	)
	w := newTestWorkflows(t, model)
	r, err := w.buildDataLoading()
	require.NoError(t, err)

	state := NewChatSessionState()
	state.AppendUser("load the data")

	state, gi := invokeUntilInterrupt(t, r, state)
	state, gi = resumeUntilInterrupt(t, r, state, gi.Path, "use tab as the separator")
	assert.Equal(t, StatusUserRequestedJobChanges, state.FlowStatus)
	assert.Equal(t, "revised draft with tab separator. Please confirm.", state.LoadingJobDraft)

	got, err := r.InvokeWithConfig(context.Background(), state, resumeConfig(gi.Path, "ok"))
	require.NoError(t, err)
	assert.Equal(t, StatusDataLoadedSuccessful, got.FlowStatus)
	assert.Empty(t, got.LoadingJobDraft)
}

func TestDataLoadingFailureSurfacesVerbatimAndClearsDraft(t *testing.T) {
	model := newFakeModel(
		textTurn("Schema: Person(id)."),
		textTurn("files draft"),
		textTurn("node mappings draft"),
		textTurn("edge mappings draft. Please confirm."),
		textTurn(`{"success": false, "message": "[Error] LoadingError: file alias f_people has no mappings"}`),
	)
	w := newTestWorkflows(t, model)
	r, err := w.buildDataLoading()
	require.NoError(t, err)

	state := NewChatSessionState()
	state.AppendUser("load the data")

	state, gi := invokeUntilInterrupt(t, r, state)
	got, err := r.InvokeWithConfig(context.Background(), state, resumeConfig(gi.Path, "go ahead"))
	require.NoError(t, err)
	assert.Equal(t, StatusDataLoadedFailed, got.FlowStatus)
	assert.Empty(t, got.LoadingJobDraft)
	assert.Contains(t, got.LastMessage().Content, "file alias f_people has no mappings")
}
