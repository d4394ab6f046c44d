package gdb

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Packaged algorithm query definitions. Their semantics belong to the graph
// engine; the client only stores, installs and runs them by name.
const (
	// PageRankQuery ranks nodes by link structure.
	PageRankQuery = "CALL algo.pageRank(null, null) YIELD node, score RETURN node, score ORDER BY score DESC LIMIT 20"

	// WCCQuery labels weakly connected components.
	WCCQuery = "CALL algo.wcc() YIELD node, componentId RETURN componentId, count(node) AS size ORDER BY size DESC"
)

// CreateQuery saves a named query text for a graph. The query is not
// runnable until installed.
func (c *Client) CreateQuery(ctx context.Context, graphName, queryName, queryText string) error {
	if queryName == "" || queryText == "" {
		return fmt.Errorf("query name and text are required")
	}
	if err := c.kv.HSet(ctx, c.queriesKey(graphName), queryName, queryText).Err(); err != nil {
		return fmt.Errorf("failed to save query: %w", err)
	}
	return nil
}

// InstallQuery marks a saved query as installed.
func (c *Client) InstallQuery(ctx context.Context, graphName, queryName string) error {
	exists, err := c.kv.HExists(ctx, c.queriesKey(graphName), queryName).Result()
	if err != nil {
		return fmt.Errorf("failed to check query: %w", err)
	}
	if !exists {
		return fmt.Errorf("no query named %q", queryName)
	}
	if err := c.kv.SAdd(ctx, c.installedQueriesKey(graphName), queryName).Err(); err != nil {
		return fmt.Errorf("failed to install query: %w", err)
	}
	return nil
}

// RunQuery executes an installed query and returns its result. Running a
// query that was never installed is an error.
func (c *Client) RunQuery(ctx context.Context, graphName, queryName string) (*QueryResult, error) {
	installed, err := c.kv.SIsMember(ctx, c.installedQueriesKey(graphName), queryName).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check installed queries: %w", err)
	}
	if !installed {
		return nil, fmt.Errorf("query %q is not installed", queryName)
	}

	queryText, err := c.kv.HGet(ctx, c.queriesKey(graphName), queryName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("no query named %q", queryName)
		}
		return nil, fmt.Errorf("failed to load query: %w", err)
	}
	return c.query(ctx, graphName, queryText)
}

// DropQuery removes a saved query and its installed marker. Destructive.
func (c *Client) DropQuery(ctx context.Context, graphName, queryName string) error {
	removed, err := c.kv.HDel(ctx, c.queriesKey(graphName), queryName).Result()
	if err != nil {
		return fmt.Errorf("failed to drop query: %w", err)
	}
	if removed == 0 {
		return fmt.Errorf("no query named %q", queryName)
	}
	if err := c.kv.SRem(ctx, c.installedQueriesKey(graphName), queryName).Err(); err != nil {
		return fmt.Errorf("failed to drop installed marker: %w", err)
	}
	return nil
}

// ListQueries returns the saved query names for a graph.
func (c *Client) ListQueries(ctx context.Context, graphName string) ([]string, error) {
	names, err := c.kv.HKeys(ctx, c.queriesKey(graphName)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}
	return names, nil
}
