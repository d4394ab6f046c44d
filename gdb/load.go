package gdb

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// DiagnosticHint is appended to loading warnings that have row-level detail
// available elsewhere. Conversational surfaces strip it before showing the
// warning to a user who has no console access.
const DiagnosticHint = ` Run "SHOW LOAD WARNINGS" in the console for details.`

// CSVOptions are per-file parsing options.
type CSVOptions struct {
	Separator rune `json:"separator,omitempty"` // Default ','
	Quote     rune `json:"quote,omitempty"`
	HasHeader bool `json:"has_header"`
}

// FileSource names one input file of a loading job.
type FileSource struct {
	Alias string     `json:"alias"`
	Path  string     `json:"path"`
	CSV   CSVOptions `json:"csv"`
}

// AttributeMapping maps a file column onto a typed attribute.
type AttributeMapping struct {
	Attribute string `json:"attribute"`
	Column    string `json:"column"`
}

// NodeMapping loads nodes of one type from one file.
type NodeMapping struct {
	FileAlias  string             `json:"file_alias"`
	NodeType   string             `json:"node_type"`
	IDColumn   string             `json:"id_column"`
	Attributes []AttributeMapping `json:"attributes,omitempty"`
}

// EdgeMapping loads edges of one type from one file. Both endpoint columns
// must be present in the same file.
type EdgeMapping struct {
	FileAlias    string             `json:"file_alias"`
	EdgeType     string             `json:"edge_type"`
	FromNodeType string             `json:"from_node_type"`
	FromColumn   string             `json:"from_column"`
	ToNodeType   string             `json:"to_node_type"`
	ToColumn     string             `json:"to_column"`
	Attributes   []AttributeMapping `json:"attributes,omitempty"`
}

// LoadingJob is the structured data-loading configuration.
type LoadingJob struct {
	GraphName    string        `json:"graph_name"`
	Files        []FileSource  `json:"files"`
	NodeMappings []NodeMapping `json:"node_mappings"`
	EdgeMappings []EdgeMapping `json:"edge_mappings,omitempty"`
}

// LoadReport summarizes a completed load.
type LoadReport struct {
	NodesLoaded int      `json:"nodes_loaded"`
	EdgesLoaded int      `json:"edges_loaded"`
	Warnings    []string `json:"warnings,omitempty"`
}

// Validate checks the job against a schema: aliases must be unique, every
// mapping must reference a declared file alias, node types must exist in the
// schema, and edge mappings must name a schema edge type with the declared
// direction between the two endpoint node types.
func (j *LoadingJob) Validate(schema *Schema) error {
	if j.GraphName == "" {
		return fmt.Errorf("loading job has no graph name")
	}
	if len(j.Files) == 0 {
		return fmt.Errorf("loading job declares no files")
	}

	aliases := make(map[string]bool, len(j.Files))
	for i, f := range j.Files {
		if f.Alias == "" || f.Path == "" {
			return fmt.Errorf("file %d is missing alias or path", i)
		}
		if aliases[f.Alias] {
			return fmt.Errorf("duplicate file alias %q", f.Alias)
		}
		aliases[f.Alias] = true
	}

	if len(j.NodeMappings) == 0 {
		return fmt.Errorf("loading job declares no node mappings")
	}
	for _, m := range j.NodeMappings {
		if !aliases[m.FileAlias] {
			return fmt.Errorf("node mapping references unknown file alias %q", m.FileAlias)
		}
		nt := schema.NodeType(m.NodeType)
		if nt == nil {
			return fmt.Errorf("node mapping references unknown node type %q", m.NodeType)
		}
		if m.IDColumn == "" {
			return fmt.Errorf("node mapping for %q has no id column", m.NodeType)
		}
		for _, a := range m.Attributes {
			if !nt.hasAttribute(a.Attribute) {
				return fmt.Errorf("node type %q has no attribute %q", m.NodeType, a.Attribute)
			}
		}
	}

	for _, m := range j.EdgeMappings {
		if !aliases[m.FileAlias] {
			return fmt.Errorf("edge mapping references unknown file alias %q", m.FileAlias)
		}
		if schema.NodeType(m.FromNodeType) == nil {
			return fmt.Errorf("edge mapping references unknown node type %q", m.FromNodeType)
		}
		if schema.NodeType(m.ToNodeType) == nil {
			return fmt.Errorf("edge mapping references unknown node type %q", m.ToNodeType)
		}
		if schema.EdgeBetween(m.EdgeType, m.FromNodeType, m.ToNodeType) == nil {
			return fmt.Errorf("schema declares no edge type %q from %q to %q",
				m.EdgeType, m.FromNodeType, m.ToNodeType)
		}
	}
	return nil
}

// LoadData validates the job against the live schema and streams every file
// into the graph. Rows with an empty or missing key column are skipped and
// reported as warnings; the load continues.
func (c *Client) LoadData(ctx context.Context, fetcher Fetcher, job *LoadingJob) (*LoadReport, error) {
	schema, err := c.GetSchema(ctx, job.GraphName)
	if err != nil {
		return nil, err
	}
	if err := job.Validate(schema); err != nil {
		return nil, fmt.Errorf("invalid loading job: %w", err)
	}

	report := &LoadReport{}
	for _, file := range job.Files {
		if err := c.loadFile(ctx, fetcher, schema, job, file, report); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func (c *Client) loadFile(ctx context.Context, fetcher Fetcher, schema *Schema, job *LoadingJob, file FileSource, report *LoadReport) error {
	body, err := fetcher.Fetch(ctx, file.Path)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", file.Path, err)
	}
	defer body.Close()

	reader := csv.NewReader(body)
	if file.CSV.Separator != 0 {
		reader.Comma = file.CSV.Separator
	}
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", file.Path, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	nodeMappings, edgeMappings, err := mappingsForFile(job, file.Alias, columns)
	if err != nil {
		return err
	}

	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", file.Path, err)
		}
		rowNum++

		for _, m := range nodeMappings {
			id := cell(record, columns[m.IDColumn])
			if id == "" {
				report.Warnings = append(report.Warnings, fmt.Sprintf(
					"file %s row %d: empty %s, node of type %s skipped.%s",
					file.Alias, rowNum, m.IDColumn, m.NodeType, DiagnosticHint))
				continue
			}
			attrs := make(map[string]any, len(m.Attributes))
			for _, a := range m.Attributes {
				attrs[a.Attribute] = cell(record, columns[a.Column])
			}
			if err := c.mergeNode(ctx, schema, job.GraphName, m.NodeType, id, attrs); err != nil {
				return err
			}
			report.NodesLoaded++
		}

		for _, m := range edgeMappings {
			fromID := cell(record, columns[m.FromColumn])
			toID := cell(record, columns[m.ToColumn])
			if fromID == "" || toID == "" {
				report.Warnings = append(report.Warnings, fmt.Sprintf(
					"file %s row %d: missing endpoint for edge type %s, edge skipped.%s",
					file.Alias, rowNum, m.EdgeType, DiagnosticHint))
				continue
			}
			attrs := make(map[string]any, len(m.Attributes))
			for _, a := range m.Attributes {
				attrs[a.Attribute] = cell(record, columns[a.Column])
			}
			if err := c.mergeEdge(ctx, schema, job.GraphName, m, fromID, toID, attrs); err != nil {
				return err
			}
			report.EdgesLoaded++
		}
	}
	return nil
}

// mappingsForFile filters the job's mappings down to one file and verifies
// that every referenced column is literally present in its header.
func mappingsForFile(job *LoadingJob, alias string, columns map[string]int) ([]NodeMapping, []EdgeMapping, error) {
	var nodes []NodeMapping
	for _, m := range job.NodeMappings {
		if m.FileAlias != alias {
			continue
		}
		if _, ok := columns[m.IDColumn]; !ok {
			return nil, nil, fmt.Errorf("file %s has no column %q", alias, m.IDColumn)
		}
		for _, a := range m.Attributes {
			if _, ok := columns[a.Column]; !ok {
				return nil, nil, fmt.Errorf("file %s has no column %q", alias, a.Column)
			}
		}
		nodes = append(nodes, m)
	}

	var edges []EdgeMapping
	for _, m := range job.EdgeMappings {
		if m.FileAlias != alias {
			continue
		}
		if _, ok := columns[m.FromColumn]; !ok {
			return nil, nil, fmt.Errorf("file %s has no column %q", alias, m.FromColumn)
		}
		if _, ok := columns[m.ToColumn]; !ok {
			return nil, nil, fmt.Errorf("file %s has no column %q", alias, m.ToColumn)
		}
		for _, a := range m.Attributes {
			if _, ok := columns[a.Column]; !ok {
				return nil, nil, fmt.Errorf("file %s has no column %q", alias, a.Column)
			}
		}
		edges = append(edges, m)
	}
	return nodes, edges, nil
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (c *Client) mergeNode(ctx context.Context, schema *Schema, graphName, nodeType, id string, attrs map[string]any) error {
	nt := schema.NodeType(nodeType)
	cypher := fmt.Sprintf("MERGE (n:%s {%s: %s})",
		sanitizeLabel(nodeType), sanitizeLabel(nt.PrimaryKey), quoteValue(id))
	if len(attrs) > 0 {
		cypher += " SET n += " + propsToString(attrs)
	}
	_, err := c.query(ctx, graphName, cypher)
	return err
}

func (c *Client) mergeEdge(ctx context.Context, schema *Schema, graphName string, m EdgeMapping, fromID, toID string, attrs map[string]any) error {
	fromNT := schema.NodeType(m.FromNodeType)
	toNT := schema.NodeType(m.ToNodeType)
	cypher := fmt.Sprintf("MERGE (a:%s {%s: %s}) MERGE (b:%s {%s: %s}) MERGE (a)-[r:%s]->(b)",
		sanitizeLabel(m.FromNodeType), sanitizeLabel(fromNT.PrimaryKey), quoteValue(fromID),
		sanitizeLabel(m.ToNodeType), sanitizeLabel(toNT.PrimaryKey), quoteValue(toID),
		sanitizeLabel(m.EdgeType))
	if len(attrs) > 0 {
		cypher += " SET r += " + propsToString(attrs)
	}
	_, err := c.query(ctx, graphName, cypher)
	return err
}
