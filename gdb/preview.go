package gdb

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/olekukonko/tablewriter"
)

// NoValidPathsMarker is emitted when a preview request contains no
// recognizable file path. Workflow routers match on this exact string.
const NoValidPathsMarker = "⚠️ No valid file paths detected in the command."

// pathPattern recognizes s3:// URIs and local delimited-file paths inside
// free text.
var pathPattern = regexp.MustCompile(`(?:s3://[^\s"']+|(?:\.{0,2}/)?[\w\-./]+\.(?:csv|tsv|txt))`)

// ExtractPaths returns the file paths found in a free-text command, in
// order of appearance.
func ExtractPaths(command string) []string {
	return pathPattern.FindAllString(command, -1)
}

// Fetcher retrieves the raw bytes of an external file.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (io.ReadCloser, error)
}

// LocalFetcher reads files from the local filesystem.
type LocalFetcher struct{}

func (LocalFetcher) Fetch(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

// S3Fetcher reads objects from S3. With anonymous credentials it serves the
// public sample buckets used during onboarding.
type S3Fetcher struct {
	Region    string
	Anonymous bool
}

func (f S3Fetcher) Fetch(ctx context.Context, path string) (io.ReadCloser, error) {
	bucket, key, err := splitS3Path(path)
	if err != nil {
		return nil, err
	}

	opts := []func(*config.LoadOptions) error{}
	if f.Region != "" {
		opts = append(opts, config.WithRegion(f.Region))
	}
	if f.Anonymous {
		opts = append(opts, config.WithCredentialsProvider(aws.AnonymousCredentials{}))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	return out.Body, nil
}

func splitS3Path(path string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(path, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 path: %s", path)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("malformed s3 path: %s", path)
	}
	return bucket, key, nil
}

// RouterFetcher dispatches to an S3 or local fetcher based on the path.
type RouterFetcher struct {
	S3    Fetcher
	Local Fetcher
}

// NewRouterFetcher builds the default fetcher: anonymous S3 plus local
// files.
func NewRouterFetcher(region string) *RouterFetcher {
	return &RouterFetcher{
		S3:    S3Fetcher{Region: region, Anonymous: true},
		Local: LocalFetcher{},
	}
}

func (r *RouterFetcher) Fetch(ctx context.Context, path string) (io.ReadCloser, error) {
	if strings.HasPrefix(path, "s3://") {
		return r.S3.Fetch(ctx, path)
	}
	return r.Local.Fetch(ctx, path)
}

// PreviewOptions controls sample-data parsing and rendering.
type PreviewOptions struct {
	Size      int  // Maximum data rows, default 5
	HasHeader bool // First row is a header
	Separator rune // Field separator, default ','
	Quote     rune // Quote character, informational (encoding/csv quotes with '"')
}

func (o *PreviewOptions) withDefaults() PreviewOptions {
	out := PreviewOptions{Size: 5, HasHeader: true, Separator: ','}
	if o != nil {
		if o.Size > 0 {
			out.Size = o.Size
		}
		out.HasHeader = o.HasHeader
		if o.Separator != 0 {
			out.Separator = o.Separator
		}
	}
	return out
}

// PreviewSampleData fetches a delimited file and renders the first rows as
// an aligned text table. The preview is read-only and is the grounding
// input for schema classification.
func (c *Client) PreviewSampleData(ctx context.Context, fetcher Fetcher, path string, opts *PreviewOptions) (string, error) {
	o := opts.withDefaults()

	body, err := fetcher.Fetch(ctx, path)
	if err != nil {
		return "", err
	}
	defer body.Close()

	reader := csv.NewReader(body)
	reader.Comma = o.Separator
	reader.FieldsPerRecord = -1

	var header []string
	var rows [][]string
	for len(rows) < o.Size {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if header == nil && o.HasHeader {
			header = record
			continue
		}
		rows = append(rows, record)
	}
	if header == nil && len(rows) == 0 {
		return "", fmt.Errorf("file %s is empty", path)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Preview of %s:\n", path)
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	if len(header) > 0 {
		table.SetHeader(header)
	}
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
	return buf.String(), nil
}
