package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/graphmind/graphchat/gdb"
)

func queryTools(client *gdb.Client) []*tool {
	graphArg := stringProp("Name of the graph.")
	queryNameArg := stringProp("Name of the saved query.")

	return []*tool{
		{
			name:        CreateQuery,
			description: "Save a named query text for a graph. The query must be installed before it can run.",
			parameters: objectSchema(map[string]any{
				"graph_name": graphArg,
				"query_name": queryNameArg,
				"query_text": stringProp("The query text to save."),
			}, []string{"graph_name", "query_name", "query_text"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, queryName, err := queryArgs(args)
				if err != nil {
					return "", err
				}
				queryText, err := argString(args, "query_text")
				if err != nil {
					return "", err
				}
				if err := client.CreateQuery(ctx, graphName, queryName, queryText); err != nil {
					return "", &Error{Kind: "QueryError", Message: err.Error()}
				}
				return fmt.Sprintf("✅ Query %q created.", queryName), nil
			},
		},
		{
			name:        InstallQuery,
			description: "Install a saved query so it can be run.",
			parameters: objectSchema(map[string]any{
				"graph_name": graphArg,
				"query_name": queryNameArg,
			}, []string{"graph_name", "query_name"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, queryName, err := queryArgs(args)
				if err != nil {
					return "", err
				}
				if err := client.InstallQuery(ctx, graphName, queryName); err != nil {
					return "", &Error{Kind: "QueryError", Message: err.Error()}
				}
				return fmt.Sprintf("✅ Query %q installed.", queryName), nil
			},
		},
		{
			name:        RunQuery,
			description: "Run an installed query and return its result.",
			parameters: objectSchema(map[string]any{
				"graph_name": graphArg,
				"query_name": queryNameArg,
			}, []string{"graph_name", "query_name"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, queryName, err := queryArgs(args)
				if err != nil {
					return "", err
				}
				qr, err := client.RunQuery(ctx, graphName, queryName)
				if err != nil {
					return "", &Error{Kind: "QueryError", Message: err.Error()}
				}
				out := renderResult(qr)
				if out == "" {
					out = fmt.Sprintf("✅ Query %q ran with no output.", queryName)
				}
				return out, nil
			},
		},
		{
			name:        DropQuery,
			description: "Delete a saved query. Destructive.",
			parameters: objectSchema(map[string]any{
				"graph_name": graphArg,
				"query_name": queryNameArg,
			}, []string{"graph_name", "query_name"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, queryName, err := queryArgs(args)
				if err != nil {
					return "", err
				}
				if err := client.DropQuery(ctx, graphName, queryName); err != nil {
					return "", &Error{Kind: "QueryError", Message: err.Error()}
				}
				return fmt.Sprintf("✅ Query %q dropped.", queryName), nil
			},
		},
		{
			name:        ListQueries,
			description: "List the saved query names for a graph.",
			parameters: objectSchema(map[string]any{
				"graph_name": graphArg,
			}, []string{"graph_name"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, err := argString(args, "graph_name")
				if err != nil {
					return "", err
				}
				names, err := client.ListQueries(ctx, graphName)
				if err != nil {
					return "", &Error{Kind: "QueryError", Message: err.Error()}
				}
				if len(names) == 0 {
					return fmt.Sprintf("Graph %q has no saved queries.", graphName), nil
				}
				return fmt.Sprintf("Saved queries for %q:\n%s", graphName, strings.Join(names, "\n")), nil
			},
		},
	}
}

func queryArgs(args map[string]any) (graphName, queryName string, err error) {
	if graphName, err = argString(args, "graph_name"); err != nil {
		return
	}
	queryName, err = argString(args, "query_name")
	return
}
