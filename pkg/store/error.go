package store

import "errors"

var (
	// ErrLengthMismatch is returned when an ingestion batch's parallel
	// arrays (ids, documents, metadatas, embeddings) differ in length.
	// Fatal for that ingestion call only.
	ErrLengthMismatch = errors.New("ingestion arrays differ in length")

	// ErrInvalidEmbedding is returned when an ingestion batch contains an
	// empty or non-finite embedding vector. Fatal for that ingestion call
	// only.
	ErrInvalidEmbedding = errors.New("invalid embedding vector")

	// ErrUnavailable is returned when a primary-only operation is invoked
	// while the store is in fallback mode.
	ErrUnavailable = errors.New("primary vector store unavailable")
)
