package chatbot

import (
	"bytes"
	"fmt"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// ExportTranscriptHTML renders the transcript's markdown to sanitized HTML
// for sharing or archiving. Tool results are included under their tool name
// so failures stay distinguishable in the export.
func ExportTranscriptHTML(messages []Message) []byte {
	var md bytes.Buffer
	for _, m := range messages {
		switch m.Role {
		case RoleUser:
			fmt.Fprintf(&md, "**You:**\n\n%s\n\n", m.Content)
		case RoleAssistant:
			if m.Content == "" {
				continue
			}
			fmt.Fprintf(&md, "**Assistant:**\n\n%s\n\n", m.Content)
		case RoleTool:
			fmt.Fprintf(&md, "**Tool (%s):**\n\n%s\n\n", m.ToolName, m.Content)
		}
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	unsafe := markdown.ToHTML(md.Bytes(), p, renderer)
	return bluemonday.UGCPolicy().SanitizeBytes(unsafe)
}
