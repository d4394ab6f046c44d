package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/graphmind/graphchat/gdb"
)

func dataSourceTools(client *gdb.Client) []*tool {
	nameArg := stringProp("Name of the data source.")
	typeArg := stringProp("Source type: s3_anonymous, s3_secret, or local.")

	return []*tool{
		{
			name:        CreateDataSource,
			description: "Create a named external data source (anonymous S3, authenticated S3, or local files).",
			parameters: objectSchema(map[string]any{
				"name":       nameArg,
				"type":       typeArg,
				"region":     stringProp("AWS region for S3 sources."),
				"access_key": stringProp("Access key for s3_secret sources."),
				"secret_key": stringProp("Secret key for s3_secret sources."),
			}, []string{"name", "type"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				ds, err := dataSourceFromArgs(args)
				if err != nil {
					return "", err
				}
				if err := client.CreateDataSource(ctx, ds); err != nil {
					return "", &Error{Kind: "DataSourceError", Message: err.Error()}
				}
				return fmt.Sprintf("✅ Data source %q created.", ds.Name), nil
			},
		},
		{
			name:        GetDataSource,
			description: "Retrieve a data source configuration by name.",
			parameters: objectSchema(map[string]any{
				"name": nameArg,
			}, []string{"name"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				name, err := argString(args, "name")
				if err != nil {
					return "", err
				}
				ds, err := client.GetDataSource(ctx, name)
				if err != nil {
					return "", &Error{Kind: "DataSourceError", Message: err.Error()}
				}
				return fmt.Sprintf("Data source %q (type %s, region %q).", ds.Name, ds.Type, ds.Region), nil
			},
		},
		{
			name:        UpdateDataSource,
			description: "Overwrite an existing data source configuration.",
			parameters: objectSchema(map[string]any{
				"name":       nameArg,
				"type":       typeArg,
				"region":     stringProp("AWS region for S3 sources."),
				"access_key": stringProp("Access key for s3_secret sources."),
				"secret_key": stringProp("Secret key for s3_secret sources."),
			}, []string{"name", "type"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				ds, err := dataSourceFromArgs(args)
				if err != nil {
					return "", err
				}
				if err := client.UpdateDataSource(ctx, ds); err != nil {
					return "", &Error{Kind: "DataSourceError", Message: err.Error()}
				}
				return fmt.Sprintf("✅ Data source %q updated.", ds.Name), nil
			},
		},
		{
			name:        DropDataSource,
			description: "Delete a data source configuration. Destructive.",
			parameters: objectSchema(map[string]any{
				"name": nameArg,
			}, []string{"name"}),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				name, err := argString(args, "name")
				if err != nil {
					return "", err
				}
				if err := client.DropDataSource(ctx, name); err != nil {
					return "", &Error{Kind: "DataSourceError", Message: err.Error()}
				}
				return fmt.Sprintf("✅ Data source %q dropped.", name), nil
			},
		},
		{
			name:        ListDataSources,
			description: "List every configured data source.",
			parameters:  objectSchema(nil, nil),
			fn: func(ctx context.Context, args map[string]any) (string, error) {
				list, err := client.ListDataSources(ctx)
				if err != nil {
					return "", &Error{Kind: "DataSourceError", Message: err.Error()}
				}
				if len(list) == 0 {
					return "No data sources configured.", nil
				}
				var b strings.Builder
				for _, ds := range list {
					fmt.Fprintf(&b, "%s (%s)\n", ds.Name, ds.Type)
				}
				return strings.TrimRight(b.String(), "\n"), nil
			},
		},
	}
}

func dataSourceFromArgs(args map[string]any) (*gdb.DataSource, error) {
	name, err := argString(args, "name")
	if err != nil {
		return nil, err
	}
	typ, err := argString(args, "type")
	if err != nil {
		return nil, err
	}
	return &gdb.DataSource{
		Name:      name,
		Type:      gdb.DataSourceType(typ),
		Region:    optString(args, "region", ""),
		AccessKey: optString(args, "access_key", ""),
		SecretKey: optString(args, "secret_key", ""),
	}, nil
}
