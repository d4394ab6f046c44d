package graph

// Config carries per-invocation options for a compiled graph.
type Config struct {
	// ResumePath re-enters the graph at a previously interrupted position.
	// The first element names a node of this graph; the remainder addresses
	// positions inside nested subgraphs.
	ResumePath []string

	// ResumeValue is handed to the first Interrupt call that re-executes.
	// It is consumed at most once.
	ResumeValue any

	// Configurable holds caller-supplied keys such as "thread_id".
	Configurable map[string]any
}

// ThreadID returns the thread identifier from the configurable map, if any.
func (c *Config) ThreadID() string {
	if c == nil || c.Configurable == nil {
		return ""
	}
	id, _ := c.Configurable["thread_id"].(string)
	return id
}

// WithThreadID creates a Config with the given thread_id set in the
// configurable map. This is the conversation identity key used by
// checkpoint-based resumption.
func WithThreadID(threadID string) *Config {
	return &Config{
		Configurable: map[string]any{
			"thread_id": threadID,
		},
	}
}
