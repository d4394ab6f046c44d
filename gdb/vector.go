package gdb

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/redis/go-redis/v9"
)

// VectorMatch is one search hit.
type VectorMatch struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// UpsertVector stores an embedding for one node attribute.
func (c *Client) UpsertVector(ctx context.Context, graphName, nodeType, attr, id string, embedding []float32) error {
	if len(embedding) == 0 {
		return fmt.Errorf("empty embedding")
	}
	doc, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("failed to encode embedding: %w", err)
	}
	if err := c.kv.HSet(ctx, c.vectorKey(graphName, nodeType, attr), id, doc).Err(); err != nil {
		return fmt.Errorf("failed to store embedding: %w", err)
	}
	return nil
}

// FetchVector loads a stored embedding.
func (c *Client) FetchVector(ctx context.Context, graphName, nodeType, attr, id string) ([]float32, error) {
	doc, err := c.kv.HGet(ctx, c.vectorKey(graphName, nodeType, attr), id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("no embedding for %s/%s", nodeType, id)
		}
		return nil, fmt.Errorf("failed to load embedding: %w", err)
	}

	var embedding []float32
	if err := json.Unmarshal(doc, &embedding); err != nil {
		return nil, fmt.Errorf("failed to decode embedding: %w", err)
	}
	return embedding, nil
}

// DeleteVector removes a stored embedding.
func (c *Client) DeleteVector(ctx context.Context, graphName, nodeType, attr, id string) error {
	removed, err := c.kv.HDel(ctx, c.vectorKey(graphName, nodeType, attr), id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete embedding: %w", err)
	}
	if removed == 0 {
		return fmt.Errorf("no embedding for %s/%s", nodeType, id)
	}
	return nil
}

// SearchVector returns the topK stored embeddings closest to the query by
// cosine similarity, best first.
func (c *Client) SearchVector(ctx context.Context, graphName, nodeType, attr string, query []float32, topK int) ([]VectorMatch, error) {
	if topK <= 0 {
		topK = 10
	}

	docs, err := c.kv.HGetAll(ctx, c.vectorKey(graphName, nodeType, attr)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to scan embeddings: %w", err)
	}

	matches := make([]VectorMatch, 0, len(docs))
	for id, doc := range docs {
		var embedding []float32
		if err := json.Unmarshal([]byte(doc), &embedding); err != nil {
			return nil, fmt.Errorf("failed to decode embedding %q: %w", id, err)
		}
		score, ok := cosineSimilarity(query, embedding)
		if !ok {
			continue
		}
		matches = append(matches, VectorMatch{ID: id, Score: score})
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func cosineSimilarity(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
