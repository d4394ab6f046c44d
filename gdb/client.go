package gdb

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Doer issues raw commands against the graph engine. redis.UniversalClient
// satisfies it; tests substitute a scripted implementation.
type Doer interface {
	Do(ctx context.Context, args ...any) *redis.Cmd
}

// Options configuration for the graph database connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // Key prefix for metadata documents, default "graphchat:"
}

// Client talks to a FalkorDB-compatible graph engine. Graph traffic goes
// through GRAPH.* commands; schema documents, data sources, saved queries
// and vectors live in plain keys next to the graphs.
type Client struct {
	kv     redis.UniversalClient
	do     Doer
	prefix string
}

// New creates a client from connection options.
func New(opts Options) *Client {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewWithClient(client, opts.Prefix)
}

// NewWithClient wraps an existing Redis client.
func NewWithClient(client redis.UniversalClient, prefix string) *Client {
	if prefix == "" {
		prefix = "graphchat:"
	}
	return &Client{
		kv:     client,
		do:     client,
		prefix: prefix,
	}
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.kv.Close()
}

func (c *Client) schemaKey(graphName string) string {
	return c.prefix + "schema:" + graphName
}

func (c *Client) datasourcesKey() string {
	return c.prefix + "datasources"
}

func (c *Client) queriesKey(graphName string) string {
	return c.prefix + "queries:" + graphName
}

func (c *Client) installedQueriesKey(graphName string) string {
	return c.prefix + "queries:" + graphName + ":installed"
}

func (c *Client) vectorKey(graphName, nodeType, attr string) string {
	return fmt.Sprintf("%svectors:%s:%s:%s", c.prefix, graphName, nodeType, attr)
}

// QueryResult holds a parsed GRAPH.QUERY reply.
type QueryResult struct {
	Header     []string
	Rows       [][]any
	Statistics []string
}

// query executes a Cypher statement against the named graph and parses the
// reply. The engine answers with either [header, rows, stats] or
// [rows, stats] depending on whether the statement returns data.
func (c *Client) query(ctx context.Context, graphName, cypher string) (*QueryResult, error) {
	res, err := c.do.Do(ctx, "GRAPH.QUERY", graphName, cypher, "--compact").Result()
	if err != nil {
		return nil, fmt.Errorf("graph query failed: %w", err)
	}

	reply, ok := res.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", res)
	}

	qr := &QueryResult{}
	switch len(reply) {
	case 3:
		if header, ok := reply[0].([]any); ok {
			qr.Header = make([]string, len(header))
			for i, h := range header {
				qr.Header[i] = fmt.Sprint(h)
			}
		}
		qr.Rows = parseRows(reply[1])
		qr.Statistics = parseStats(reply[2])
	case 2:
		qr.Rows = parseRows(reply[0])
		qr.Statistics = parseStats(reply[1])
	default:
		return nil, fmt.Errorf("unexpected response length: %d", len(reply))
	}
	return qr, nil
}

func parseRows(v any) [][]any {
	rows, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([][]any, len(rows))
	for i, row := range rows {
		if vals, ok := row.([]any); ok {
			out[i] = vals
		}
	}
	return out
}

func parseStats(v any) []string {
	stats, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, len(stats))
	for i, s := range stats {
		out[i] = fmt.Sprint(s)
	}
	return out
}

// scalarRow returns the first column of the first row, or nil.
func (qr *QueryResult) scalarRow() any {
	if len(qr.Rows) == 0 || len(qr.Rows[0]) == 0 {
		return nil
	}
	return qr.Rows[0][0]
}

// asInt coerces a reply scalar to an int64. The wire protocol delivers
// numbers as int64 or as decimal strings depending on the reply mode.
func asInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case string:
		var n int64
		if _, err := fmt.Sscanf(x, "%d", &n); err == nil {
			return n, true
		}
	}
	return 0, false
}

// sanitizeLabel keeps graph labels to identifier characters so user input
// cannot break out of a Cypher label position.
func sanitizeLabel(label string) string {
	var b strings.Builder
	for _, r := range label {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// quoteValue renders an attribute value as a Cypher literal.
func quoteValue(v any) string {
	switch x := v.(type) {
	case string:
		escaped := strings.ReplaceAll(x, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, `'`, `\'`)
		return "'" + escaped + "'"
	case nil:
		return "null"
	default:
		return fmt.Sprint(x)
	}
}

// propsToString renders a property map as a Cypher map literal with keys in
// sorted order so generated statements are deterministic.
func propsToString(props map[string]any) string {
	if len(props) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, sanitizeLabel(k)+":"+quoteValue(props[k]))
	}
	return "{" + strings.Join(parts, ",") + "}"
}
