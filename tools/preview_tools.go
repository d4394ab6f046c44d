package tools

import (
	"context"
	"strings"

	"github.com/graphmind/graphchat/gdb"
)

func previewTools(client *gdb.Client, fetcher gdb.Fetcher) []*tool {
	return []*tool{
		{
			name: PreviewSampleData,
			description: "Preview the first rows of a delimited file as a text table. The command text " +
				"must contain at least one s3:// URI or local file path. Read-only.",
			parameters: objectSchema(map[string]any{
				"command":    stringProp("Free text naming the file(s) to preview."),
				"size":       map[string]any{"type": "integer", "description": "Maximum data rows per file, default 5."},
				"has_header": map[string]any{"type": "boolean", "description": "Whether the first row is a header, default true."},
				"separator":  stringProp("Field separator, default ','."),
			}, []string{"command"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				command, err := argString(args, "command")
				if err != nil {
					return "", err
				}

				paths := gdb.ExtractPaths(command)
				if len(paths) == 0 {
					return gdb.NoValidPathsMarker, nil
				}

				opts := &gdb.PreviewOptions{
					Size:      optInt(args, "size", 5),
					HasHeader: optBool(args, "has_header", true),
				}
				if sep := optString(args, "separator", ","); sep != "" {
					opts.Separator = rune(sep[0])
				}

				var previews []string
				for _, path := range paths {
					preview, err := client.PreviewSampleData(ctx, fetcher, path, opts)
					if err != nil {
						return "", &Error{Kind: "PreviewError", Message: err.Error()}
					}
					previews = append(previews, preview)
				}
				return strings.Join(previews, "\n"), nil
			},
		},
	}
}
