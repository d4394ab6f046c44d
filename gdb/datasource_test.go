package gdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataSourceLifecycle(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	ds := &DataSource{Name: "samples", Type: SourceS3Anonymous, Region: "us-east-1"}
	require.NoError(t, c.CreateDataSource(ctx, ds))

	// Creating the same name again fails.
	assert.ErrorContains(t, c.CreateDataSource(ctx, ds), "already exists")

	got, err := c.GetDataSource(ctx, "samples")
	require.NoError(t, err)
	assert.Equal(t, SourceS3Anonymous, got.Type)
	assert.Equal(t, "us-east-1", got.Region)
	assert.False(t, got.CreatedAt.IsZero())

	got.Region = "eu-west-1"
	require.NoError(t, c.UpdateDataSource(ctx, got))
	got, err = c.GetDataSource(ctx, "samples")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", got.Region)

	require.NoError(t, c.DropDataSource(ctx, "samples"))
	_, err = c.GetDataSource(ctx, "samples")
	assert.ErrorContains(t, err, "no data source")
	assert.ErrorContains(t, c.DropDataSource(ctx, "samples"), "no data source")
}

func TestDataSourceValidation(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	assert.ErrorContains(t, c.CreateDataSource(ctx, &DataSource{Type: SourceLocal}), "no name")
	assert.ErrorContains(t, c.CreateDataSource(ctx, &DataSource{Name: "x", Type: "ftp"}), "unknown data source type")
	assert.ErrorContains(t, c.CreateDataSource(ctx, &DataSource{Name: "x", Type: SourceS3Secret}), "requires access and secret keys")
}

func TestUpdateMissingDataSource(t *testing.T) {
	c, _ := newTestClient(t)
	err := c.UpdateDataSource(context.Background(), &DataSource{Name: "ghost", Type: SourceLocal})
	assert.ErrorContains(t, err, "no data source")
}

func TestListDataSourcesSorted(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.CreateDataSource(ctx, &DataSource{Name: "beta", Type: SourceLocal}))
	require.NoError(t, c.CreateDataSource(ctx, &DataSource{Name: "alpha", Type: SourceLocal}))

	list, err := c.ListDataSources(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "beta", list[1].Name)
}

func TestGetOrCreateDataSource(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	template := &DataSource{Name: "samples", Type: SourceS3Anonymous}

	// First call creates.
	ds, err := c.GetOrCreateDataSource(ctx, template)
	require.NoError(t, err)
	assert.Equal(t, "samples", ds.Name)

	// Second call retrieves the stored one, not the template.
	stored, err := c.GetDataSource(ctx, "samples")
	require.NoError(t, err)
	stored.Region = "us-east-2"
	require.NoError(t, c.UpdateDataSource(ctx, stored))

	again, err := c.GetOrCreateDataSource(ctx, template)
	require.NoError(t, err)
	assert.Equal(t, "us-east-2", again.Region)
}
