package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/graphmind/graphchat/gdb"
)

func vectorTools(client *gdb.Client) []*tool {
	graphArg := stringProp("Name of the graph.")
	nodeTypeArg := stringProp("Node type that owns the embedding.")
	attrArg := stringProp("Attribute the embedding represents.")
	idArg := stringProp("Primary-key value of the node.")

	return []*tool{
		{
			name:        UpsertVector,
			description: "Store or replace the embedding of one node attribute.",
			parameters: objectSchema(map[string]any{
				"graph_name": graphArg,
				"node_type":  nodeTypeArg,
				"attribute":  attrArg,
				"node_id":    idArg,
				"embedding": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "number"},
					"description": "The embedding vector.",
				},
			}, []string{"graph_name", "node_type", "attribute", "node_id", "embedding"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, nodeType, attr, id, err := vectorArgs(args)
				if err != nil {
					return "", err
				}
				embedding, err := argFloats(args, "embedding")
				if err != nil {
					return "", err
				}
				if err := client.UpsertVector(ctx, graphName, nodeType, attr, id, embedding); err != nil {
					return "", &Error{Kind: "VectorError", Message: err.Error()}
				}
				return fmt.Sprintf("✅ Embedding for %s/%s.%s stored (%d dimensions).", nodeType, id, attr, len(embedding)), nil
			},
		},
		{
			name:        FetchVector,
			description: "Retrieve the stored embedding of one node attribute.",
			parameters: objectSchema(map[string]any{
				"graph_name": graphArg,
				"node_type":  nodeTypeArg,
				"attribute":  attrArg,
				"node_id":    idArg,
			}, []string{"graph_name", "node_type", "attribute", "node_id"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, nodeType, attr, id, err := vectorArgs(args)
				if err != nil {
					return "", err
				}
				embedding, err := client.FetchVector(ctx, graphName, nodeType, attr, id)
				if err != nil {
					return "", &Error{Kind: "VectorError", Message: err.Error()}
				}
				parts := make([]string, len(embedding))
				for i, v := range embedding {
					parts[i] = fmt.Sprintf("%g", v)
				}
				return fmt.Sprintf("[%s]", strings.Join(parts, ", ")), nil
			},
		},
		{
			name:        DeleteVector,
			description: "Delete the stored embedding of one node attribute.",
			parameters: objectSchema(map[string]any{
				"graph_name": graphArg,
				"node_type":  nodeTypeArg,
				"attribute":  attrArg,
				"node_id":    idArg,
			}, []string{"graph_name", "node_type", "attribute", "node_id"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, nodeType, attr, id, err := vectorArgs(args)
				if err != nil {
					return "", err
				}
				if err := client.DeleteVector(ctx, graphName, nodeType, attr, id); err != nil {
					return "", &Error{Kind: "VectorError", Message: err.Error()}
				}
				return fmt.Sprintf("✅ Embedding for %s/%s.%s deleted.", nodeType, id, attr), nil
			},
		},
		{
			name:        SearchVector,
			description: "Find the nodes whose stored embeddings are most similar to a query vector.",
			parameters: objectSchema(map[string]any{
				"graph_name": graphArg,
				"node_type":  nodeTypeArg,
				"attribute":  attrArg,
				"query": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "number"},
					"description": "The query vector.",
				},
				"top_k": map[string]any{
					"type":        "integer",
					"description": "Maximum number of matches, default 10.",
				},
			}, []string{"graph_name", "node_type", "attribute", "query"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, err := argString(args, "graph_name")
				if err != nil {
					return "", err
				}
				nodeType, err := argString(args, "node_type")
				if err != nil {
					return "", err
				}
				attr, err := argString(args, "attribute")
				if err != nil {
					return "", err
				}
				query, err := argFloats(args, "query")
				if err != nil {
					return "", err
				}
				matches, err := client.SearchVector(ctx, graphName, nodeType, attr, query, optInt(args, "top_k", 10))
				if err != nil {
					return "", &Error{Kind: "VectorError", Message: err.Error()}
				}
				if len(matches) == 0 {
					return "No matches found.", nil
				}
				var b strings.Builder
				for _, m := range matches {
					fmt.Fprintf(&b, "%s (score %.4f)\n", m.ID, m.Score)
				}
				return strings.TrimRight(b.String(), "\n"), nil
			},
		},
	}
}

func vectorArgs(args map[string]any) (graphName, nodeType, attr, id string, err error) {
	if graphName, err = argString(args, "graph_name"); err != nil {
		return
	}
	if nodeType, err = argString(args, "node_type"); err != nil {
		return
	}
	if attr, err = argString(args, "attribute"); err != nil {
		return
	}
	id, err = argString(args, "node_id")
	return
}
