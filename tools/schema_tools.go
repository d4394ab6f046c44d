package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/graphmind/graphchat/gdb"
)

func schemaTools(client *gdb.Client) []*tool {
	return []*tool{
		{
			name: CreateSchema,
			description: "Create a graph schema from a structured description with node types " +
				"(name, primary key, typed attributes) and edge types (name, endpoints, direction).",
			parameters: objectSchema(map[string]any{
				"schema": map[string]any{
					"type":        "object",
					"description": "Structured schema description with graph_name, nodes, and edges.",
				},
			}, []string{"schema"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				var schema gdb.Schema
				if err := decodeArg(args, "schema", &schema); err != nil {
					return "", err
				}
				if err := client.CreateSchema(ctx, &schema); err != nil {
					return "", &Error{Kind: "SchemaError", Message: err.Error()}
				}
				return fmt.Sprintf("✅ Schema for graph %q created with %d node types and %d edge types.",
					schema.GraphName, len(schema.Nodes), len(schema.Edges)), nil
			},
		},
		{
			name:        GetSchema,
			description: "Retrieve the current schema of a graph as JSON.",
			parameters: objectSchema(map[string]any{
				"graph_name": stringProp("Name of the graph."),
			}, []string{"graph_name"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, err := argString(args, "graph_name")
				if err != nil {
					return "", err
				}
				schema, err := client.GetSchema(ctx, graphName)
				if err != nil {
					return "", &Error{Kind: "SchemaError", Message: err.Error()}
				}
				doc, err := json.MarshalIndent(schema, "", "  ")
				if err != nil {
					return "", &Error{Kind: "SchemaError", Message: err.Error()}
				}
				return string(doc), nil
			},
		},
		{
			name:        DropGraph,
			description: "Permanently delete a graph, its schema, and all its data. Destructive.",
			parameters: objectSchema(map[string]any{
				"graph_name": stringProp("Name of the graph to drop."),
			}, []string{"graph_name"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, err := argString(args, "graph_name")
				if err != nil {
					return "", err
				}
				if err := client.DropGraph(ctx, graphName); err != nil {
					return "", &Error{Kind: "SchemaError", Message: err.Error()}
				}
				return fmt.Sprintf("✅ Graph %q dropped.", graphName), nil
			},
		},
		{
			name:        ClearGraphData,
			description: "Delete every node and edge of a graph while keeping its schema. Destructive.",
			parameters: objectSchema(map[string]any{
				"graph_name": stringProp("Name of the graph to clear."),
			}, []string{"graph_name"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, err := argString(args, "graph_name")
				if err != nil {
					return "", err
				}
				if err := client.ClearGraphData(ctx, graphName); err != nil {
					return "", &Error{Kind: "SchemaError", Message: err.Error()}
				}
				return fmt.Sprintf("✅ All data in graph %q cleared.", graphName), nil
			},
		},
	}
}
