package gdb

import (
	"context"
	"fmt"
)

// AddNode merges a node of the given type keyed by its primary-key value and
// sets the remaining attributes.
func (c *Client) AddNode(ctx context.Context, graphName, nodeType, id string, attrs map[string]any) error {
	schema, err := c.GetSchema(ctx, graphName)
	if err != nil {
		return err
	}
	nt := schema.NodeType(nodeType)
	if nt == nil {
		return fmt.Errorf("unknown node type %q", nodeType)
	}

	cypher := fmt.Sprintf("MERGE (n:%s {%s: %s})",
		sanitizeLabel(nodeType), sanitizeLabel(nt.PrimaryKey), quoteValue(id))
	if len(attrs) > 0 {
		cypher += " SET n += " + propsToString(attrs)
	}
	_, err = c.query(ctx, graphName, cypher)
	return err
}

// RemoveNode deletes a node and its attached edges. Destructive.
func (c *Client) RemoveNode(ctx context.Context, graphName, nodeType, id string) error {
	schema, err := c.GetSchema(ctx, graphName)
	if err != nil {
		return err
	}
	nt := schema.NodeType(nodeType)
	if nt == nil {
		return fmt.Errorf("unknown node type %q", nodeType)
	}

	cypher := fmt.Sprintf("MATCH (n:%s {%s: %s}) DETACH DELETE n",
		sanitizeLabel(nodeType), sanitizeLabel(nt.PrimaryKey), quoteValue(id))
	_, err = c.query(ctx, graphName, cypher)
	return err
}

// HasNode reports whether a node exists.
func (c *Client) HasNode(ctx context.Context, graphName, nodeType, id string) (bool, error) {
	schema, err := c.GetSchema(ctx, graphName)
	if err != nil {
		return false, err
	}
	nt := schema.NodeType(nodeType)
	if nt == nil {
		return false, fmt.Errorf("unknown node type %q", nodeType)
	}

	cypher := fmt.Sprintf("MATCH (n:%s {%s: %s}) RETURN count(n)",
		sanitizeLabel(nodeType), sanitizeLabel(nt.PrimaryKey), quoteValue(id))
	qr, err := c.query(ctx, graphName, cypher)
	if err != nil {
		return false, err
	}
	n, _ := asInt(qr.scalarRow())
	return n > 0, nil
}

// NodeData returns the attributes of a node as a header/row pair, or an
// error when the node does not exist.
func (c *Client) NodeData(ctx context.Context, graphName, nodeType, id string) (*QueryResult, error) {
	schema, err := c.GetSchema(ctx, graphName)
	if err != nil {
		return nil, err
	}
	nt := schema.NodeType(nodeType)
	if nt == nil {
		return nil, fmt.Errorf("unknown node type %q", nodeType)
	}

	cypher := fmt.Sprintf("MATCH (n:%s {%s: %s}) RETURN n",
		sanitizeLabel(nodeType), sanitizeLabel(nt.PrimaryKey), quoteValue(id))
	qr, err := c.query(ctx, graphName, cypher)
	if err != nil {
		return nil, err
	}
	if len(qr.Rows) == 0 {
		return nil, fmt.Errorf("node %s/%s not found", nodeType, id)
	}
	return qr, nil
}

// AddEdge merges an edge of the given type between two existing nodes. The
// edge type and direction must be declared by the schema.
func (c *Client) AddEdge(ctx context.Context, graphName, edgeType, fromType, fromID, toType, toID string, attrs map[string]any) error {
	schema, err := c.GetSchema(ctx, graphName)
	if err != nil {
		return err
	}
	et := schema.EdgeBetween(edgeType, fromType, toType)
	if et == nil {
		return fmt.Errorf("schema declares no edge type %q from %q to %q", edgeType, fromType, toType)
	}
	fromNT := schema.NodeType(fromType)
	toNT := schema.NodeType(toType)

	cypher := fmt.Sprintf("MATCH (a:%s {%s: %s}), (b:%s {%s: %s}) MERGE (a)-[r:%s]->(b)",
		sanitizeLabel(fromType), sanitizeLabel(fromNT.PrimaryKey), quoteValue(fromID),
		sanitizeLabel(toType), sanitizeLabel(toNT.PrimaryKey), quoteValue(toID),
		sanitizeLabel(edgeType))
	if len(attrs) > 0 {
		cypher += " SET r += " + propsToString(attrs)
	}
	_, err = c.query(ctx, graphName, cypher)
	return err
}

// HasEdge reports whether an edge exists between two nodes.
func (c *Client) HasEdge(ctx context.Context, graphName, edgeType, fromType, fromID, toType, toID string) (bool, error) {
	schema, err := c.GetSchema(ctx, graphName)
	if err != nil {
		return false, err
	}
	fromNT := schema.NodeType(fromType)
	toNT := schema.NodeType(toType)
	if fromNT == nil || toNT == nil {
		return false, fmt.Errorf("unknown node type in edge lookup")
	}

	cypher := fmt.Sprintf("MATCH (a:%s {%s: %s})-[r:%s]->(b:%s {%s: %s}) RETURN count(r)",
		sanitizeLabel(fromType), sanitizeLabel(fromNT.PrimaryKey), quoteValue(fromID),
		sanitizeLabel(edgeType),
		sanitizeLabel(toType), sanitizeLabel(toNT.PrimaryKey), quoteValue(toID))
	qr, err := c.query(ctx, graphName, cypher)
	if err != nil {
		return false, err
	}
	n, _ := asInt(qr.scalarRow())
	return n > 0, nil
}

// Neighbors returns the primary keys of nodes adjacent to the given node.
func (c *Client) Neighbors(ctx context.Context, graphName, nodeType, id string) ([]string, error) {
	schema, err := c.GetSchema(ctx, graphName)
	if err != nil {
		return nil, err
	}
	nt := schema.NodeType(nodeType)
	if nt == nil {
		return nil, fmt.Errorf("unknown node type %q", nodeType)
	}

	cypher := fmt.Sprintf("MATCH (n:%s {%s: %s})--(m) RETURN m",
		sanitizeLabel(nodeType), sanitizeLabel(nt.PrimaryKey), quoteValue(id))
	qr, err := c.query(ctx, graphName, cypher)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, row := range qr.Rows {
		if len(row) > 0 {
			out = append(out, fmt.Sprint(row[0]))
		}
	}
	return out, nil
}

// Degree returns the number of edges attached to a node.
func (c *Client) Degree(ctx context.Context, graphName, nodeType, id string) (int64, error) {
	schema, err := c.GetSchema(ctx, graphName)
	if err != nil {
		return 0, err
	}
	nt := schema.NodeType(nodeType)
	if nt == nil {
		return 0, fmt.Errorf("unknown node type %q", nodeType)
	}

	cypher := fmt.Sprintf("MATCH (n:%s {%s: %s})-[r]-() RETURN count(r)",
		sanitizeLabel(nodeType), sanitizeLabel(nt.PrimaryKey), quoteValue(id))
	qr, err := c.query(ctx, graphName, cypher)
	if err != nil {
		return 0, err
	}
	n, _ := asInt(qr.scalarRow())
	return n, nil
}

// NumberOfNodes returns the node count of a graph.
func (c *Client) NumberOfNodes(ctx context.Context, graphName string) (int64, error) {
	qr, err := c.query(ctx, graphName, "MATCH (n) RETURN count(n)")
	if err != nil {
		return 0, err
	}
	n, _ := asInt(qr.scalarRow())
	return n, nil
}

// NumberOfEdges returns the edge count of a graph.
func (c *Client) NumberOfEdges(ctx context.Context, graphName string) (int64, error) {
	qr, err := c.query(ctx, graphName, "MATCH ()-[r]->() RETURN count(r)")
	if err != nil {
		return 0, err
	}
	n, _ := asInt(qr.scalarRow())
	return n, nil
}
