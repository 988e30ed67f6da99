// Package qdrant provides a Qdrant vector database connector implementation.
package qdrant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	qd "github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"github.com/papercomputeco/persona/pkg/vector"
)

// Qdrant point IDs must be UUIDs or integers, so the document ID and content
// travel in reserved payload keys and the point ID is a UUIDv5 of the
// document ID. The derivation is deterministic, which keeps re-ingestion an
// upsert rather than a duplicate insert.
const (
	payloadDocID   = "_id"
	payloadContent = "_content"
)

// Connector implements vector.Connector using Qdrant's gRPC API.
type Connector struct {
	client     *qd.Client
	dimensions uint64
	logger     *zap.Logger
}

// Config holds configuration for the Qdrant connector.
type Config struct {
	// Host is the Qdrant server host (e.g., "localhost").
	Host string

	// Port is the Qdrant gRPC port. Defaults to 6334 if zero.
	Port int

	// APIKey authenticates against a managed Qdrant instance. Optional.
	APIKey string

	// UseTLS enables TLS for the gRPC connection.
	UseTLS bool

	// Dimensions is the vector width used when creating collections.
	Dimensions int
}

// NewConnector creates a new Qdrant vector connector.
func NewConnector(c Config, logger *zap.Logger) (*Connector, error) {
	if c.Host == "" {
		return nil, fmt.Errorf("qdrant host is required")
	}
	if c.Dimensions <= 0 {
		return nil, fmt.Errorf("qdrant vector dimensions are required")
	}

	port := c.Port
	if port == 0 {
		port = 6334
	}

	client, err := qd.NewClient(&qd.Config{
		Host:   c.Host,
		Port:   port,
		APIKey: c.APIKey,
		UseTLS: c.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating qdrant client: %v", vector.ErrConnection, err)
	}

	return &Connector{
		client:     client,
		dimensions: uint64(c.Dimensions),
		logger:     logger,
	}, nil
}

// Ping checks server reachability via a health check.
func (c *Connector) Ping(ctx context.Context) error {
	if _, err := c.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("%w: %v", vector.ErrConnection, err)
	}
	return nil
}

// Collection returns a Driver bound to the named collection, creating the
// collection with cosine distance if it does not exist.
func (c *Connector) Collection(ctx context.Context, name string) (vector.Driver, error) {
	exists, err := c.client.CollectionExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("checking collection %q: %w", name, err)
	}

	if !exists {
		err = c.client.CreateCollection(ctx, &qd.CreateCollection{
			CollectionName: name,
			VectorsConfig: qd.NewVectorsConfig(&qd.VectorParams{
				Size:     c.dimensions,
				Distance: qd.Distance_Cosine,
			}),
		})
		if err != nil {
			return nil, fmt.Errorf("creating collection %q: %w", name, err)
		}

		c.logger.Debug("created qdrant collection", zap.String("collection", name))
	}

	return &Driver{conn: c, collectionName: name}, nil
}

// Close releases the underlying gRPC connection.
func (c *Connector) Close() error {
	return c.client.Close()
}

// Driver implements vector.Driver over one Qdrant collection.
type Driver struct {
	conn           *Connector
	collectionName string
}

// Add upserts documents with their embeddings.
func (d *Driver) Add(ctx context.Context, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	points := make([]*qd.PointStruct, len(docs))
	for i, doc := range docs {
		payload := make(map[string]any, len(doc.Metadata)+2)
		for k, v := range doc.Metadata {
			payload[k] = v
		}
		payload[payloadDocID] = doc.ID
		payload[payloadContent] = doc.Content

		points[i] = &qd.PointStruct{
			Id:      qd.NewID(pointID(doc.ID)),
			Vectors: qd.NewVectors(doc.Embedding...),
			Payload: qd.NewValueMap(payload),
		}
	}

	_, err := d.conn.client.Upsert(ctx, &qd.UpsertPoints{
		CollectionName: d.collectionName,
		Points:         points,
		Wait:           qd.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("upserting points: %w", err)
	}

	d.conn.logger.Debug("added documents to qdrant",
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

	points, err := d.conn.client.Query(ctx, &qd.QueryPoints{
		CollectionName: d.collectionName,
		Query:          qd.NewQuery(embedding...),
		Filter:         buildFilter(filter),
		Limit:          qd.PtrOf(uint64(topK)),
		WithPayload:    qd.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("querying points: %w", err)
	}

	results := make([]vector.QueryResult, 0, len(points))
	for _, p := range points {
		doc := vector.Document{Metadata: make(map[string]any, len(p.Payload))}

		for k, v := range p.Payload {
			val := payloadValue(v)
			switch k {
			case payloadDocID:
				doc.ID, _ = val.(string)
			case payloadContent:
				doc.Content, _ = val.(string)
			default:
				if val != nil {
					doc.Metadata[k] = val
				}
			}
		}

		// Qdrant reports cosine similarity (higher = closer); the driver
		// contract is a distance.
		results = append(results, vector.QueryResult{
			Document: doc,
			Distance: 1 - p.Score,
		})
	}

	d.conn.logger.Debug("queried qdrant",
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

	_, err := d.conn.client.Delete(ctx, &qd.DeletePoints{
		CollectionName: d.collectionName,
		Points:         qd.NewPointsSelectorFilter(buildFilter(filter)),
		Wait:           qd.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("deleting points: %w", err)
	}

	return nil
}

// Count returns the number of documents in the collection.
func (d *Driver) Count(ctx context.Context) (int, error) {
	count, err := d.conn.client.Count(ctx, &qd.CountPoints{
		CollectionName: d.collectionName,
	})
	if err != nil {
		return 0, fmt.Errorf("counting points: %w", err)
	}

	return int(count), nil
}

// Close is a no-op; the connector owns the gRPC connection.
func (d *Driver) Close() error {
	return nil
}

// pointID derives a deterministic UUID for a document ID.
func pointID(docID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(docID)).String()
}

// buildFilter converts a vector.Filter into Qdrant match conditions.
func buildFilter(filter vector.Filter) *qd.Filter {
	if len(filter) == 0 {
		return nil
	}

	must := make([]*qd.Condition, 0, len(filter))
	for k, v := range filter {
		switch val := v.(type) {
		case string:
			must = append(must, qd.NewMatch(k, val))
		case bool:
			must = append(must, qd.NewMatchBool(k, val))
		case int:
			must = append(must, qd.NewMatchInt(k, int64(val)))
		case int64:
			must = append(must, qd.NewMatchInt(k, val))
		default:
			must = append(must, qd.NewMatch(k, fmt.Sprintf("%v", val)))
		}
	}

	return &qd.Filter{Must: must}
}

// payloadValue converts a Qdrant payload value into a plain Go value.
func payloadValue(v *qd.Value) any {
	switch kind := v.GetKind().(type) {
	case *qd.Value_StringValue:
		return kind.StringValue
	case *qd.Value_BoolValue:
		return kind.BoolValue
	case *qd.Value_IntegerValue:
		return kind.IntegerValue
	case *qd.Value_DoubleValue:
		return kind.DoubleValue
	default:
		return nil
	}
}

var (
	_ vector.Connector = (*Connector)(nil)
	_ vector.Driver    = (*Driver)(nil)
)
