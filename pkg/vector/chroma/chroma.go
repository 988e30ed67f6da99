// Package chroma provides a Chroma vector database connector implementation.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/persona/pkg/vector"
)

const apiPrefix = "/api/v2/tenants/default_tenant/databases/default_database"

// Connector implements vector.Connector using Chroma's REST API.
type Connector struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds configuration for the Chroma connector.
type Config struct {
	// URL is the Chroma server URL (e.g., "http://localhost:8000").
	URL string

	// Timeout bounds each request to the Chroma server.
	// Defaults to 60 seconds if zero.
	Timeout time.Duration
}

// NewConnector creates a new Chroma vector connector. It does not contact
// the server; use Ping to check reachability.
func NewConnector(c Config, logger *zap.Logger) (*Connector, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("chroma URL is required")
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Connector{
		baseURL: c.URL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}, nil
}

// Ping issues a heartbeat request to check server reachability.
func (c *Connector) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v2/heartbeat", nil)
	if err != nil {
		return fmt.Errorf("%w: creating heartbeat request: %v", vector.ErrConnection, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", vector.ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: heartbeat returned status %d", vector.ErrConnection, resp.StatusCode)
	}

	return nil
}

// Collection returns a Driver bound to the named collection, creating the
// collection if it does not exist.
func (c *Connector) Collection(ctx context.Context, name string) (vector.Driver, error) {
	collectionID, err := c.getOrCreateCollection(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("getting or creating collection %q: %w", name, err)
	}

	c.logger.Debug("resolved chroma collection",
		zap.String("collection", name),
		zap.String("collection_id", collectionID),
	)

	return &Driver{
		conn:           c,
		collectionName: name,
		collectionID:   collectionID,
	}, nil
}

// Close releases resources held by the connector.
func (c *Connector) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

// getOrCreateCollection gets an existing collection or creates a new one.
func (c *Connector) getOrCreateCollection(ctx context.Context, name string) (string, error) {
	// Try to get existing collection first
	url := fmt.Sprintf("%s%s/collections/%s", c.baseURL, apiPrefix, name)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("creating get request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending get request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var collection chromaCollection
		if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
			return "", fmt.Errorf("decoding collection response: %w", err)
		}
		return collection.ID, nil
	}

	// Collection doesn't exist, create it
	createURL := fmt.Sprintf("%s%s/collections", c.baseURL, apiPrefix)
	createBody := map[string]string{"name": name}
	jsonBody, err := json.Marshal(createBody)
	if err != nil {
		return "", fmt.Errorf("marshaling create request: %w", err)
	}

	req, err = http.NewRequestWithContext(ctx, "POST", createURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err = c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending create request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("failed to create collection: status %d: %s", resp.StatusCode, string(body))
	}

	var collection chromaCollection
	if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
		return "", fmt.Errorf("decoding create response: %w", err)
	}

	return collection.ID, nil
}

// Driver implements vector.Driver over one Chroma collection.
type Driver struct {
	conn           *Connector
	collectionName string
	collectionID   string
}

// Add stores documents with their embeddings.
func (d *Driver) Add(ctx context.Context, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	reqBody := chromaAddRequest{
		IDs:        make([]string, len(docs)),
		Embeddings: make([][]float32, len(docs)),
		Metadatas:  make([]map[string]any, len(docs)),
		Documents:  make([]string, len(docs)),
	}

	for i, doc := range docs {
		reqBody.IDs[i] = doc.ID
		reqBody.Embeddings[i] = doc.Embedding
		reqBody.Metadatas[i] = doc.Metadata
		reqBody.Documents[i] = doc.Content
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshaling add request: %w", err)
	}

	url := fmt.Sprintf("%s%s/collections/%s/add", d.conn.baseURL, apiPrefix, d.collectionID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("creating add request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.conn.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending add request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to add documents: status %d: %s", resp.StatusCode, string(body))
	}

	d.conn.logger.Debug("added documents to chroma",
		zap.String("collection", d.collectionName),
		zap.Int("count", len(docs)),
	)

	return nil
}

// Query finds the topK most similar documents to the given embedding,
// restricted by the filter.
func (d *Driver) Query(ctx context.Context, embedding []float32, topK int, filter vector.Filter) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 10
	}

	reqBody := chromaQueryRequest{
		QueryEmbeddings: [][]float32{embedding},
		NResults:        topK,
		Where:           whereClause(filter),
		Include:         []string{"metadatas", "distances", "documents"},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling query request: %w", err)
	}

	url := fmt.Sprintf("%s%s/collections/%s/query", d.conn.baseURL, apiPrefix, d.collectionID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("creating query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.conn.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending query request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to query: status %d: %s", resp.StatusCode, string(body))
	}

	var queryResp chromaQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&queryResp); err != nil {
		return nil, fmt.Errorf("decoding query response: %w", err)
	}

	var results []vector.QueryResult

	// Process first group (we only query with one embedding)
	if len(queryResp.IDs) == 0 || len(queryResp.IDs[0]) == 0 {
		return results, nil
	}

	ids := queryResp.IDs[0]

	var distances []float32
	if len(queryResp.Distances) > 0 {
		distances = queryResp.Distances[0]
	}

	var metadatas []map[string]any
	if len(queryResp.Metadatas) > 0 {
		metadatas = queryResp.Metadatas[0]
	}

	var documents []string
	if len(queryResp.Documents) > 0 {
		documents = queryResp.Documents[0]
	}

	for i, id := range ids {
		result := vector.QueryResult{
			Document: vector.Document{ID: id},
		}

		if i < len(metadatas) {
			result.Metadata = metadatas[i]
		}
		if i < len(documents) {
			result.Content = documents[i]
		}
		if i < len(distances) {
			result.Distance = distances[i]
		}

		results = append(results, result)
	}

	d.conn.logger.Debug("queried chroma",
		zap.String("collection", d.collectionName),
		zap.Int("results", len(results)),
	)

	return results, nil
}

// DeleteWhere removes all documents matching the filter.
func (d *Driver) DeleteWhere(ctx context.Context, filter vector.Filter) error {
	if len(filter) == 0 {
		return fmt.Errorf("delete requires a filter")
	}

	reqBody := chromaDeleteRequest{Where: whereClause(filter)}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshaling delete request: %w", err)
	}

	url := fmt.Sprintf("%s%s/collections/%s/delete", d.conn.baseURL, apiPrefix, d.collectionID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("creating delete request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.conn.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending delete request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to delete documents: status %d: %s", resp.StatusCode, string(body))
	}

	d.conn.logger.Debug("deleted documents from chroma",
		zap.String("collection", d.collectionName),
	)

	return nil
}

// Count returns the number of documents in the collection.
func (d *Driver) Count(ctx context.Context) (int, error) {
	url := fmt.Sprintf("%s%s/collections/%s/count", d.conn.baseURL, apiPrefix, d.collectionID)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating count request: %w", err)
	}

	resp, err := d.conn.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("sending count request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("failed to count documents: status %d: %s", resp.StatusCode, string(body))
	}

	var count int
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return 0, fmt.Errorf("decoding count response: %w", err)
	}

	return count, nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

// whereClause converts a Filter into Chroma's where syntax. Multiple
// conditions are joined with $and.
func whereClause(filter vector.Filter) map[string]any {
	if len(filter) == 0 {
		return nil
	}

	if len(filter) == 1 {
		for k, v := range filter {
			return map[string]any{k: v}
		}
	}

	conds := make([]map[string]any, 0, len(filter))
	for k, v := range filter {
		conds = append(conds, map[string]any{k: v})
	}
	return map[string]any{"$and": conds}
}

var (
	_ vector.Connector = (*Connector)(nil)
	_ vector.Driver    = (*Driver)(nil)
)
