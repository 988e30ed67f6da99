package retrieval

// Weights are the heuristic relevance bonuses. The defaults are tuned
// empirically rather than derived, so they are overridable constants, not
// invariants: construct the engine with a modified set to re-tune ranking.
type Weights struct {
	// WordMatch is added for each query word appearing verbatim in the
	// document's word list.
	WordMatch float64

	// TypeMatch is added when the query names a document type keyword
	// (profile, post, engagement, bio) matching the document's type.
	TypeMatch float64

	// HighEngagement is added when the document's totalEngagement metadata
	// exceeds EngagementThreshold.
	HighEngagement float64

	// Verified is added when the document's verified metadata flag is set.
	Verified float64

	// Business is added when the document's businessAccount metadata flag
	// is set.
	Business float64

	// EngagementThreshold is the totalEngagement cutoff for the
	// HighEngagement bonus.
	EngagementThreshold float64

	// Cap bounds the total relevance score.
	Cap float64

	// FallbackFloor is the minimum overlap relevance kept by fallback
	// search.
	FallbackFloor float64
}

// DefaultWeights returns the standard bonus set.
func DefaultWeights() Weights {
	return Weights{
		WordMatch:           0.3,
		TypeMatch:           0.2,
		HighEngagement:      0.1,
		Verified:            0.05,
		Business:            0.05,
		EngagementThreshold: 1000,
		Cap:                 1.0,
		FallbackFloor:       0.1,
	}
}

// applyDefaults fills zero-valued fields so a partially-specified override
// set still ranks sensibly.
func (w Weights) applyDefaults() Weights {
	d := DefaultWeights()
	if w.WordMatch == 0 {
		w.WordMatch = d.WordMatch
	}
	if w.TypeMatch == 0 {
		w.TypeMatch = d.TypeMatch
	}
	if w.HighEngagement == 0 {
		w.HighEngagement = d.HighEngagement
	}
	if w.Verified == 0 {
		w.Verified = d.Verified
	}
	if w.Business == 0 {
		w.Business = d.Business
	}
	if w.EngagementThreshold == 0 {
		w.EngagementThreshold = d.EngagementThreshold
	}
	if w.Cap == 0 {
		w.Cap = d.Cap
	}
	if w.FallbackFloor == 0 {
		w.FallbackFloor = d.FallbackFloor
	}
	return w
}
