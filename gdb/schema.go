package gdb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// AttrType enumerates the attribute types a schema may declare.
type AttrType string

const (
	AttrString AttrType = "STRING"
	AttrInt    AttrType = "INT"
	AttrUint   AttrType = "UINT"
	AttrFloat  AttrType = "FLOAT"
	AttrBool   AttrType = "BOOL"
	AttrDate   AttrType = "DATETIME"
)

// Attribute is a typed property of a node or edge type.
type Attribute struct {
	Name string   `json:"name"`
	Type AttrType `json:"type"`
}

// NodeType describes one node type of a graph schema. PrimaryKey must name
// one of the declared attributes.
type NodeType struct {
	Name       string      `json:"name"`
	PrimaryKey string      `json:"primary_key"`
	Attributes []Attribute `json:"attributes"`
}

// EdgeType describes one edge type. FromNode and ToNode must name declared
// node types.
type EdgeType struct {
	Name       string      `json:"name"`
	FromNode   string      `json:"from_node"`
	ToNode     string      `json:"to_node"`
	Directed   bool        `json:"directed"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

// Schema is the structured schema description for one graph.
type Schema struct {
	GraphName string     `json:"graph_name"`
	Nodes     []NodeType `json:"nodes"`
	Edges     []EdgeType `json:"edges"`
}

// Validate checks the schema's internal consistency.
func (s *Schema) Validate() error {
	if s.GraphName == "" {
		return fmt.Errorf("schema has no graph name")
	}
	if len(s.Nodes) == 0 {
		return fmt.Errorf("schema declares no node types")
	}

	nodeNames := make(map[string]*NodeType, len(s.Nodes))
	for i := range s.Nodes {
		n := &s.Nodes[i]
		if n.Name == "" {
			return fmt.Errorf("node type %d has no name", i)
		}
		if _, dup := nodeNames[n.Name]; dup {
			return fmt.Errorf("duplicate node type %q", n.Name)
		}
		nodeNames[n.Name] = n

		if n.PrimaryKey == "" {
			return fmt.Errorf("node type %q has no primary key", n.Name)
		}
		if !n.hasAttribute(n.PrimaryKey) {
			return fmt.Errorf("node type %q: primary key %q is not a declared attribute", n.Name, n.PrimaryKey)
		}
	}

	edgeNames := make(map[string]bool, len(s.Edges))
	for i := range s.Edges {
		e := &s.Edges[i]
		if e.Name == "" {
			return fmt.Errorf("edge type %d has no name", i)
		}
		if edgeNames[e.Name] {
			return fmt.Errorf("duplicate edge type %q", e.Name)
		}
		edgeNames[e.Name] = true

		if _, ok := nodeNames[e.FromNode]; !ok {
			return fmt.Errorf("edge type %q: unknown source node type %q", e.Name, e.FromNode)
		}
		if _, ok := nodeNames[e.ToNode]; !ok {
			return fmt.Errorf("edge type %q: unknown target node type %q", e.Name, e.ToNode)
		}
	}
	return nil
}

func (n *NodeType) hasAttribute(name string) bool {
	for _, a := range n.Attributes {
		if a.Name == name {
			return true
		}
	}
	return false
}

// NodeType returns the named node type, or nil.
func (s *Schema) NodeType(name string) *NodeType {
	for i := range s.Nodes {
		if s.Nodes[i].Name == name {
			return &s.Nodes[i]
		}
	}
	return nil
}

// EdgeBetween returns the edge type connecting from -> to, honoring
// directionality: an undirected edge matches either orientation, a directed
// edge only its declared one.
func (s *Schema) EdgeBetween(name, from, to string) *EdgeType {
	for i := range s.Edges {
		e := &s.Edges[i]
		if e.Name != name {
			continue
		}
		if e.FromNode == from && e.ToNode == to {
			return e
		}
		if !e.Directed && e.FromNode == to && e.ToNode == from {
			return e
		}
	}
	return nil
}

// CreateSchema validates the schema, persists the schema document, and
// creates a primary-key index for every node type.
func (c *Client) CreateSchema(ctx context.Context, schema *Schema) error {
	if err := schema.Validate(); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	doc, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}
	if err := c.kv.Set(ctx, c.schemaKey(schema.GraphName), doc, 0).Err(); err != nil {
		return fmt.Errorf("failed to store schema: %w", err)
	}

	for _, n := range schema.Nodes {
		cypher := fmt.Sprintf("CREATE INDEX FOR (n:%s) ON (n.%s)",
			sanitizeLabel(n.Name), sanitizeLabel(n.PrimaryKey))
		if _, err := c.query(ctx, schema.GraphName, cypher); err != nil {
			return fmt.Errorf("failed to index %s.%s: %w", n.Name, n.PrimaryKey, err)
		}
	}
	return nil
}

// GetSchema loads the schema document for a graph.
func (c *Client) GetSchema(ctx context.Context, graphName string) (*Schema, error) {
	doc, err := c.kv.Get(ctx, c.schemaKey(graphName)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("no schema found for graph %q", graphName)
		}
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	var schema Schema
	if err := json.Unmarshal(doc, &schema); err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}
	return &schema, nil
}

// DropGraph deletes the graph, its schema document, saved queries and
// vectors. Destructive.
func (c *Client) DropGraph(ctx context.Context, graphName string) error {
	if err := c.do.Do(ctx, "GRAPH.DELETE", graphName).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("failed to delete graph: %w", err)
	}
	keys := []string{
		c.schemaKey(graphName),
		c.queriesKey(graphName),
		c.installedQueriesKey(graphName),
	}
	if err := c.kv.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete graph metadata: %w", err)
	}
	return nil
}

// ClearGraphData removes every node and edge but keeps the schema.
// Destructive.
func (c *Client) ClearGraphData(ctx context.Context, graphName string) error {
	_, err := c.query(ctx, graphName, "MATCH (n) DETACH DELETE n")
	if err != nil {
		return fmt.Errorf("failed to clear graph data: %w", err)
	}
	return nil
}
