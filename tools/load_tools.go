package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/graphmind/graphchat/gdb"
)

func loadTools(client *gdb.Client, fetcher gdb.Fetcher) []*tool {
	return []*tool{
		{
			name: LoadData,
			description: "Run a structured loading job: named files with parsing options, per-file " +
				"node mappings, and per-file edge mappings. The job is validated against the live schema.",
			parameters: objectSchema(map[string]any{
				"job": map[string]any{
					"type":        "object",
					"description": "Loading job with graph_name, files, node_mappings, and edge_mappings.",
				},
			}, []string{"job"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				var job gdb.LoadingJob
				if err := decodeArg(args, "job", &job); err != nil {
					return "", err
				}
				report, err := client.LoadData(ctx, fetcher, &job)
				if err != nil {
					return "", &Error{Kind: "LoadingError", Message: err.Error()}
				}

				var b strings.Builder
				fmt.Fprintf(&b, "✅ Loading finished: %d nodes and %d edges loaded into %q.",
					report.NodesLoaded, report.EdgesLoaded, job.GraphName)
				for _, w := range report.Warnings {
					b.WriteString("\n⚠️ ")
					b.WriteString(w)
				}
				return b.String(), nil
			},
		},
	}
}
