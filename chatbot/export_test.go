package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExportTranscriptHTML(t *testing.T) {
	html := string(ExportTranscriptHTML([]Message{
		{Role: RoleAssistant, Content: "**Welcome!**"},
		{Role: RoleUser, Content: "list queries"},
		{Role: RoleTool, ToolName: "list_queries", Content: "no queries defined"},
	}))

	assert.Contains(t, html, "<strong>Welcome!</strong>")
	assert.Contains(t, html, "list_queries")
	assert.Contains(t, html, "no queries defined")
}

func TestExportTranscriptHTMLSanitizesMarkup(t *testing.T) {
	html := string(ExportTranscriptHTML([]Message{
		{Role: RoleUser, Content: `<script>alert("x")</script> hello`},
	}))

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "hello")
}

func TestExportTranscriptHTMLSkipsEmptyAssistantEntries(t *testing.T) {
	html := string(ExportTranscriptHTML([]Message{
		{Role: RoleAssistant, Content: "", ToolCalls: []ToolCall{{ID: "c1", Name: "get_schema"}}},
		{Role: RoleUser, Content: "hi"},
	}))

	assert.NotContains(t, html, "Assistant:")
	assert.Contains(t, html, "hi")
}
