package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/graphmind/graphchat/gdb"
)

func crudTools(client *gdb.Client) []*tool {
	graphArg := stringProp("Name of the graph.")
	nodeTypeArg := stringProp("Node type as declared by the schema.")
	nodeIDArg := stringProp("Primary-key value of the node.")

	return []*tool{
		{
			name:        AddNode,
			description: "Add or update a node of a schema-declared type, keyed by its primary key.",
			parameters: objectSchema(map[string]any{
				"graph_name": graphArg,
				"node_type":  nodeTypeArg,
				"node_id":    nodeIDArg,
				"attributes": map[string]any{
					"type":        "object",
					"description": "Attribute values to set on the node.",
				},
			}, []string{"graph_name", "node_type", "node_id"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, nodeType, nodeID, err := nodeArgs(args)
				if err != nil {
					return "", err
				}
				if err := client.AddNode(ctx, graphName, nodeType, nodeID, argStringMap(args, "attributes")); err != nil {
					return "", &Error{Kind: "GraphError", Message: err.Error()}
				}
				return fmt.Sprintf("✅ Node %s/%s added.", nodeType, nodeID), nil
			},
		},
		{
			name:        RemoveNode,
			description: "Remove a node and every edge attached to it. Destructive.",
			parameters: objectSchema(map[string]any{
				"graph_name": graphArg,
				"node_type":  nodeTypeArg,
				"node_id":    nodeIDArg,
			}, []string{"graph_name", "node_type", "node_id"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, nodeType, nodeID, err := nodeArgs(args)
				if err != nil {
					return "", err
				}
				if err := client.RemoveNode(ctx, graphName, nodeType, nodeID); err != nil {
					return "", &Error{Kind: "GraphError", Message: err.Error()}
				}
				return fmt.Sprintf("✅ Node %s/%s removed.", nodeType, nodeID), nil
			},
		},
		{
			name:        HasNode,
			description: "Check whether a node exists.",
			parameters: objectSchema(map[string]any{
				"graph_name": graphArg,
				"node_type":  nodeTypeArg,
				"node_id":    nodeIDArg,
			}, []string{"graph_name", "node_type", "node_id"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, nodeType, nodeID, err := nodeArgs(args)
				if err != nil {
					return "", err
				}
				ok, err := client.HasNode(ctx, graphName, nodeType, nodeID)
				if err != nil {
					return "", &Error{Kind: "GraphError", Message: err.Error()}
				}
				if ok {
					return fmt.Sprintf("✅ Node %s/%s exists.", nodeType, nodeID), nil
				}
				return fmt.Sprintf("❌ Node %s/%s does not exist.", nodeType, nodeID), nil
			},
		},
		{
			name:        GetNodeData,
			description: "Retrieve the attributes of a node.",
			parameters: objectSchema(map[string]any{
				"graph_name": graphArg,
				"node_type":  nodeTypeArg,
				"node_id":    nodeIDArg,
			}, []string{"graph_name", "node_type", "node_id"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, nodeType, nodeID, err := nodeArgs(args)
				if err != nil {
					return "", err
				}
				qr, err := client.NodeData(ctx, graphName, nodeType, nodeID)
				if err != nil {
					return "", &Error{Kind: "GraphError", Message: err.Error()}
				}
				return renderResult(qr), nil
			},
		},
		{
			name:        AddEdge,
			description: "Add an edge of a schema-declared type between two existing nodes.",
			parameters: objectSchema(map[string]any{
				"graph_name":     graphArg,
				"edge_type":      stringProp("Edge type as declared by the schema."),
				"from_node_type": stringProp("Source node type."),
				"from_node_id":   stringProp("Source node primary key."),
				"to_node_type":   stringProp("Target node type."),
				"to_node_id":     stringProp("Target node primary key."),
				"attributes": map[string]any{
					"type":        "object",
					"description": "Attribute values to set on the edge.",
				},
			}, []string{"graph_name", "edge_type", "from_node_type", "from_node_id", "to_node_type", "to_node_id"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, edgeType, fromType, fromID, toType, toID, err := edgeArgs(args)
				if err != nil {
					return "", err
				}
				if err := client.AddEdge(ctx, graphName, edgeType, fromType, fromID, toType, toID, argStringMap(args, "attributes")); err != nil {
					return "", &Error{Kind: "GraphError", Message: err.Error()}
				}
				return fmt.Sprintf("✅ Edge %s from %s/%s to %s/%s added.", edgeType, fromType, fromID, toType, toID), nil
			},
		},
		{
			name:        HasEdge,
			description: "Check whether an edge exists between two nodes.",
			parameters: objectSchema(map[string]any{
				"graph_name":     graphArg,
				"edge_type":      stringProp("Edge type as declared by the schema."),
				"from_node_type": stringProp("Source node type."),
				"from_node_id":   stringProp("Source node primary key."),
				"to_node_type":   stringProp("Target node type."),
				"to_node_id":     stringProp("Target node primary key."),
			}, []string{"graph_name", "edge_type", "from_node_type", "from_node_id", "to_node_type", "to_node_id"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, edgeType, fromType, fromID, toType, toID, err := edgeArgs(args)
				if err != nil {
					return "", err
				}
				ok, err := client.HasEdge(ctx, graphName, edgeType, fromType, fromID, toType, toID)
				if err != nil {
					return "", &Error{Kind: "GraphError", Message: err.Error()}
				}
				if ok {
					return fmt.Sprintf("✅ Edge %s from %s/%s to %s/%s exists.", edgeType, fromType, fromID, toType, toID), nil
				}
				return fmt.Sprintf("❌ Edge %s from %s/%s to %s/%s does not exist.", edgeType, fromType, fromID, toType, toID), nil
			},
		},
		{
			name:        GetNeighbors,
			description: "List the nodes adjacent to a node.",
			parameters: objectSchema(map[string]any{
				"graph_name": graphArg,
				"node_type":  nodeTypeArg,
				"node_id":    nodeIDArg,
			}, []string{"graph_name", "node_type", "node_id"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, nodeType, nodeID, err := nodeArgs(args)
				if err != nil {
					return "", err
				}
				neighbors, err := client.Neighbors(ctx, graphName, nodeType, nodeID)
				if err != nil {
					return "", &Error{Kind: "GraphError", Message: err.Error()}
				}
				if len(neighbors) == 0 {
					return fmt.Sprintf("Node %s/%s has no neighbors.", nodeType, nodeID), nil
				}
				return fmt.Sprintf("Neighbors of %s/%s:\n%s", nodeType, nodeID, strings.Join(neighbors, "\n")), nil
			},
		},
		{
			name:        GetNodeDegree,
			description: "Return the number of edges attached to a node.",
			parameters: objectSchema(map[string]any{
				"graph_name": graphArg,
				"node_type":  nodeTypeArg,
				"node_id":    nodeIDArg,
			}, []string{"graph_name", "node_type", "node_id"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, nodeType, nodeID, err := nodeArgs(args)
				if err != nil {
					return "", err
				}
				degree, err := client.Degree(ctx, graphName, nodeType, nodeID)
				if err != nil {
					return "", &Error{Kind: "GraphError", Message: err.Error()}
				}
				return fmt.Sprintf("Node %s/%s has degree %d.", nodeType, nodeID, degree), nil
			},
		},
		{
			name:        NumberOfNodes,
			description: "Return the total node count of a graph.",
			parameters: objectSchema(map[string]any{
				"graph_name": graphArg,
			}, []string{"graph_name"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, err := argString(args, "graph_name")
				if err != nil {
					return "", err
				}
				n, err := client.NumberOfNodes(ctx, graphName)
				if err != nil {
					return "", &Error{Kind: "GraphError", Message: err.Error()}
				}
				return fmt.Sprintf("Graph %q has %d nodes.", graphName, n), nil
			},
		},
		{
			name:        NumberOfEdges,
			description: "Return the total edge count of a graph.",
			parameters: objectSchema(map[string]any{
				"graph_name": graphArg,
			}, []string{"graph_name"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				graphName, err := argString(args, "graph_name")
				if err != nil {
					return "", err
				}
				n, err := client.NumberOfEdges(ctx, graphName)
				if err != nil {
					return "", &Error{Kind: "GraphError", Message: err.Error()}
				}
				return fmt.Sprintf("Graph %q has %d edges.", graphName, n), nil
			},
		},
	}
}

func nodeArgs(args map[string]any) (graphName, nodeType, nodeID string, err error) {
	if graphName, err = argString(args, "graph_name"); err != nil {
		return
	}
	if nodeType, err = argString(args, "node_type"); err != nil {
		return
	}
	nodeID, err = argString(args, "node_id")
	return
}

func edgeArgs(args map[string]any) (graphName, edgeType, fromType, fromID, toType, toID string, err error) {
	if graphName, err = argString(args, "graph_name"); err != nil {
		return
	}
	if edgeType, err = argString(args, "edge_type"); err != nil {
		return
	}
	if fromType, err = argString(args, "from_node_type"); err != nil {
		return
	}
	if fromID, err = argString(args, "from_node_id"); err != nil {
		return
	}
	if toType, err = argString(args, "to_node_type"); err != nil {
		return
	}
	toID, err = argString(args, "to_node_id")
	return
}

func renderResult(qr *gdb.QueryResult) string {
	var b strings.Builder
	if len(qr.Header) > 0 {
		b.WriteString(strings.Join(qr.Header, " | "))
		b.WriteString("\n")
	}
	for _, row := range qr.Rows {
		parts := make([]string, len(row))
		for i, v := range row {
			parts[i] = fmt.Sprint(v)
		}
		b.WriteString(strings.Join(parts, " | "))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
