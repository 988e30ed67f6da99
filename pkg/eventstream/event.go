// Package eventstream defines the events emitted when profile data is
// indexed, and the publisher interface backends implement.
package eventstream

import "time"

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeProfileIngested is emitted after an identity's documents are
	// persisted to the index or its fallback file.
	EventTypeProfileIngested = "persona.profile.ingested"
)

// ProfileIngestedEvent is a transport-neutral event payload for one
// completed ingest of an identity.
type ProfileIngestedEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EmittedAt     time.Time `json:"emitted_at"`
	Username      string    `json:"username"`
	Platform      string    `json:"platform"`
	DocumentCount int       `json:"document_count"`
	StorageMode   string    `json:"storage_mode"`
}
