package tools

// Name identifies a tool in the registry. The set is closed: routing and
// destructive-operation policy both key off these identifiers, so handlers
// are dispatched through an explicit mapping rather than any name-derived
// lookup.
type Name string

const (
	// Schema operations
	CreateSchema   Name = "create_schema"
	GetSchema      Name = "get_schema"
	DropGraph      Name = "drop_graph"
	ClearGraphData Name = "clear_graph_data"

	// Node and edge CRUD
	AddNode       Name = "add_node"
	RemoveNode    Name = "remove_node"
	HasNode       Name = "has_node"
	GetNodeData   Name = "get_node_data"
	AddEdge       Name = "add_edge"
	HasEdge       Name = "has_edge"
	GetNeighbors  Name = "get_neighbors"
	GetNodeDegree Name = "get_node_degree"
	NumberOfNodes Name = "number_of_nodes"
	NumberOfEdges Name = "number_of_edges"

	// Named queries
	CreateQuery  Name = "create_query"
	InstallQuery Name = "install_query"
	RunQuery     Name = "run_query"
	DropQuery    Name = "drop_query"
	ListQueries  Name = "list_queries"

	// Vector embeddings
	UpsertVector Name = "upsert_vector"
	FetchVector  Name = "fetch_vector"
	DeleteVector Name = "delete_vector"
	SearchVector Name = "search_vector"

	// Data sources
	CreateDataSource Name = "create_data_source"
	GetDataSource    Name = "get_data_source"
	UpdateDataSource Name = "update_data_source"
	DropDataSource   Name = "drop_data_source"
	ListDataSources  Name = "list_data_sources"

	// Preview and loading
	PreviewSampleData Name = "preview_sample_data"
	LoadData          Name = "load_data"

	// Reserved trigger tools. These are no-op signal tokens: calling one
	// tells the task executor to hand control to the named sub-workflow.
	TriggerSchemaCreation Name = "trigger_graph_schema_creation"
	TriggerLoadData       Name = "trigger_load_data"
	TriggerRunAlgorithms  Name = "trigger_run_algorithms"
)

// destructive is the closed set of operations that must never run without a
// prior explicit user confirmation.
var destructive = map[Name]bool{
	DropGraph:      true,
	ClearGraphData: true,
	RemoveNode:     true,
	DropQuery:      true,
	DropDataSource: true,
}

// Destructive reports whether a tool irreversibly removes data.
func Destructive(name Name) bool {
	return destructive[name]
}

// Trigger reports whether a tool is a reserved sub-workflow signal token.
func Trigger(name Name) bool {
	return name == TriggerSchemaCreation || name == TriggerLoadData || name == TriggerRunAlgorithms
}
