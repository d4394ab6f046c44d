package gdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// DataSourceType enumerates the supported external source kinds.
type DataSourceType string

const (
	SourceS3Anonymous DataSourceType = "s3_anonymous"
	SourceS3Secret    DataSourceType = "s3_secret"
	SourceLocal       DataSourceType = "local"
)

// DataSource is a named external data source configuration.
type DataSource struct {
	Name      string         `json:"name"`
	Type      DataSourceType `json:"type"`
	Region    string         `json:"region,omitempty"`
	AccessKey string         `json:"access_key,omitempty"`
	SecretKey string         `json:"secret_key,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func (d *DataSource) validate() error {
	if d.Name == "" {
		return fmt.Errorf("data source has no name")
	}
	switch d.Type {
	case SourceS3Anonymous, SourceLocal:
		return nil
	case SourceS3Secret:
		if d.AccessKey == "" || d.SecretKey == "" {
			return fmt.Errorf("s3_secret data source requires access and secret keys")
		}
		return nil
	default:
		return fmt.Errorf("unknown data source type %q", d.Type)
	}
}

// CreateDataSource stores a new data source. Creating a name that already
// exists is an error; use UpdateDataSource for that.
func (c *Client) CreateDataSource(ctx context.Context, ds *DataSource) error {
	if err := ds.validate(); err != nil {
		return err
	}
	if ds.CreatedAt.IsZero() {
		ds.CreatedAt = time.Now().UTC()
	}

	doc, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("failed to encode data source: %w", err)
	}

	created, err := c.kv.HSetNX(ctx, c.datasourcesKey(), ds.Name, doc).Result()
	if err != nil {
		return fmt.Errorf("failed to store data source: %w", err)
	}
	if !created {
		return fmt.Errorf("data source %q already exists", ds.Name)
	}
	return nil
}

// GetDataSource loads a data source by name.
func (c *Client) GetDataSource(ctx context.Context, name string) (*DataSource, error) {
	doc, err := c.kv.HGet(ctx, c.datasourcesKey(), name).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("no data source named %q", name)
		}
		return nil, fmt.Errorf("failed to load data source: %w", err)
	}

	var ds DataSource
	if err := json.Unmarshal(doc, &ds); err != nil {
		return nil, fmt.Errorf("failed to decode data source: %w", err)
	}
	return &ds, nil
}

// UpdateDataSource overwrites an existing data source.
func (c *Client) UpdateDataSource(ctx context.Context, ds *DataSource) error {
	if err := ds.validate(); err != nil {
		return err
	}
	exists, err := c.kv.HExists(ctx, c.datasourcesKey(), ds.Name).Result()
	if err != nil {
		return fmt.Errorf("failed to check data source: %w", err)
	}
	if !exists {
		return fmt.Errorf("no data source named %q", ds.Name)
	}

	doc, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("failed to encode data source: %w", err)
	}
	if err := c.kv.HSet(ctx, c.datasourcesKey(), ds.Name, doc).Err(); err != nil {
		return fmt.Errorf("failed to store data source: %w", err)
	}
	return nil
}

// DropDataSource removes a data source. Destructive.
func (c *Client) DropDataSource(ctx context.Context, name string) error {
	removed, err := c.kv.HDel(ctx, c.datasourcesKey(), name).Result()
	if err != nil {
		return fmt.Errorf("failed to drop data source: %w", err)
	}
	if removed == 0 {
		return fmt.Errorf("no data source named %q", name)
	}
	return nil
}

// ListDataSources returns all data sources sorted by name.
func (c *Client) ListDataSources(ctx context.Context) ([]*DataSource, error) {
	docs, err := c.kv.HGetAll(ctx, c.datasourcesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list data sources: %w", err)
	}

	out := make([]*DataSource, 0, len(docs))
	for name, doc := range docs {
		var ds DataSource
		if err := json.Unmarshal([]byte(doc), &ds); err != nil {
			return nil, fmt.Errorf("failed to decode data source %q: %w", name, err)
		}
		out = append(out, &ds)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetOrCreateDataSource retrieves the named data source, creating it from
// the template when retrieval fails. Onboarding uses this to idempotently
// prepare its anonymous source.
func (c *Client) GetOrCreateDataSource(ctx context.Context, template *DataSource) (*DataSource, error) {
	if ds, err := c.GetDataSource(ctx, template.Name); err == nil {
		return ds, nil
	}
	if err := c.CreateDataSource(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}
