package synth

// Document is a synthesized semantic text unit with structured metadata.
// Metadata values are string, number, bool, or []string; the store flattens
// slices before persistence.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]any
}

// Metadata type tags. Retrieval and context assembly group documents by the
// "type" metadata key, so the values here are part of the storage contract.
const (
	TypeProfile    = "profile"
	TypePost       = "post"
	TypeBio        = "bio"
	TypeEngagement = "engagement"
)
