// Package vector provides interfaces and implementations for vector storage.
package vector

import "context"

// Document represents a stored item with its embedding and metadata.
type Document struct {
	// ID is a unique identifier for the document within its collection.
	ID string

	// Content is the raw document text.
	Content string

	// Embedding is the vector representation of the document content.
	Embedding []float32

	// Metadata holds flat key/value pairs (string, number, bool) used for
	// filtered queries and grouping.
	Metadata map[string]any
}

// QueryResult represents a search result with its distance to the query
// vector (lower = more similar).
type QueryResult struct {
	Document

	// Distance is the backend's distance measure for the match.
	Distance float32
}

// Filter expresses equality conditions over document metadata. All entries
// must match.
type Filter map[string]any

// Connector is a handle to a vector store backend. Collections partition
// documents; this system keeps one collection per platform.
type Connector interface {
	// Ping checks backend reachability. Used once at startup to decide
	// between primary and fallback storage.
	Ping(ctx context.Context) error

	// Collection returns a Driver bound to the named collection, creating
	// the collection if it does not exist.
	Collection(ctx context.Context, name string) (Driver, error)

	// Close releases any resources held by the connector.
	Close() error
}

// Driver handles storage and retrieval of documents in one collection.
type Driver interface {
	// Add stores documents with their embeddings. If a document with the
	// same ID already exists, implementers should update the document.
	Add(ctx context.Context, docs []Document) error

	// Query finds the topK most similar documents to the given embedding,
	// restricted to documents matching the filter (nil = no restriction).
	Query(ctx context.Context, embedding []float32, topK int, filter Filter) ([]QueryResult, error)

	// DeleteWhere removes all documents matching the filter. Deleting with
	// a filter that matches nothing is not an error.
	DeleteWhere(ctx context.Context, filter Filter) error

	// Count returns the number of documents in the collection.
	Count(ctx context.Context) (int, error)

	// Close releases any resources held by the driver.
	Close() error
}
