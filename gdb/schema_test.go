package gdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func socialSchema() *Schema {
	return &Schema{
		GraphName: "social",
		Nodes: []NodeType{
			{
				Name:       "Person",
				PrimaryKey: "id",
				Attributes: []Attribute{
					{Name: "id", Type: AttrString},
					{Name: "name", Type: AttrString},
					{Name: "age", Type: AttrInt},
				},
			},
			{
				Name:       "Company",
				PrimaryKey: "id",
				Attributes: []Attribute{
					{Name: "id", Type: AttrString},
					{Name: "name", Type: AttrString},
				},
			},
		},
		Edges: []EdgeType{
			{Name: "works_at", FromNode: "Person", ToNode: "Company", Directed: true},
			{Name: "knows", FromNode: "Person", ToNode: "Person", Directed: false},
		},
	}
}

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Schema)
		wantErr string
	}{
		{"valid", func(s *Schema) {}, ""},
		{"no graph name", func(s *Schema) { s.GraphName = "" }, "no graph name"},
		{"no nodes", func(s *Schema) { s.Nodes = nil }, "no node types"},
		{"duplicate node", func(s *Schema) { s.Nodes = append(s.Nodes, s.Nodes[0]) }, "duplicate node type"},
		{"missing primary key", func(s *Schema) { s.Nodes[0].PrimaryKey = "" }, "no primary key"},
		{"primary key not an attribute", func(s *Schema) { s.Nodes[0].PrimaryKey = "ghost" }, "not a declared attribute"},
		{"duplicate edge", func(s *Schema) { s.Edges = append(s.Edges, s.Edges[0]) }, "duplicate edge type"},
		{"unknown edge source", func(s *Schema) { s.Edges[0].FromNode = "Ghost" }, "unknown source node type"},
		{"unknown edge target", func(s *Schema) { s.Edges[0].ToNode = "Ghost" }, "unknown target node type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := socialSchema()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestEdgeBetweenDirectionality(t *testing.T) {
	s := socialSchema()

	assert.NotNil(t, s.EdgeBetween("works_at", "Person", "Company"))
	// Directed edge does not match the reverse orientation.
	assert.Nil(t, s.EdgeBetween("works_at", "Company", "Person"))
	// Undirected edge matches either orientation.
	assert.NotNil(t, s.EdgeBetween("knows", "Person", "Person"))
	assert.Nil(t, s.EdgeBetween("ghost", "Person", "Company"))
}

func TestCreateAndGetSchema(t *testing.T) {
	c, doer := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.CreateSchema(ctx, socialSchema()))

	// One primary-key index per node type.
	cyphers := doer.cypherCalls()
	require.Len(t, cyphers, 2)
	assert.Contains(t, cyphers[0], "CREATE INDEX FOR (n:Person) ON (n.id)")
	assert.Contains(t, cyphers[1], "CREATE INDEX FOR (n:Company) ON (n.id)")

	got, err := c.GetSchema(ctx, "social")
	require.NoError(t, err)
	assert.Equal(t, "social", got.GraphName)
	require.Len(t, got.Nodes, 2)
	assert.Equal(t, "Person", got.Nodes[0].Name)
	require.Len(t, got.Edges, 2)
	assert.True(t, got.Edges[0].Directed)
}

func TestCreateSchemaRejectsInvalid(t *testing.T) {
	c, _ := newTestClient(t)
	s := socialSchema()
	s.Nodes[0].PrimaryKey = "ghost"
	assert.ErrorContains(t, c.CreateSchema(context.Background(), s), "invalid schema")
}

func TestGetSchemaMissing(t *testing.T) {
	c, _ := newTestClient(t)
	_, err := c.GetSchema(context.Background(), "nope")
	assert.ErrorContains(t, err, "no schema found")
}

func TestDropGraphRemovesMetadata(t *testing.T) {
	c, doer := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.CreateSchema(ctx, socialSchema()))
	require.NoError(t, c.CreateQuery(ctx, "social", "pagerank", PageRankQuery))

	require.NoError(t, c.DropGraph(ctx, "social"))

	_, err := c.GetSchema(ctx, "social")
	assert.ErrorContains(t, err, "no schema found")
	names, err := c.ListQueries(ctx, "social")
	require.NoError(t, err)
	assert.Empty(t, names)

	// GRAPH.DELETE was issued.
	deleted := false
	for _, call := range doer.calls {
		if call[0] == "GRAPH.DELETE" {
			deleted = true
			assert.Equal(t, "social", call[1])
		}
	}
	assert.True(t, deleted)
}

func TestClearGraphData(t *testing.T) {
	c, doer := newTestClient(t)
	require.NoError(t, c.ClearGraphData(context.Background(), "social"))
	cyphers := doer.cypherCalls()
	require.Len(t, cyphers, 1)
	assert.Equal(t, "MATCH (n) DETACH DELETE n", cyphers[0])
}
