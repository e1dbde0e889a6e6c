package types

import "time"

// AdvisoryKind identifies which advisory produced a record.
type AdvisoryKind string

// Supported advisory kinds.
const (
	AdvisoryCrop      AdvisoryKind = "crop"
	AdvisoryYield     AdvisoryKind = "yield"
	AdvisoryPesticide AdvisoryKind = "pesticide"
	AdvisoryDisease   AdvisoryKind = "disease"
)

// AdvisorySource tells whether a record came from the static heuristics or
// from the generative model.
type AdvisorySource string

// Supported advisory sources.
const (
	SourceHeuristic AdvisorySource = "heuristic"
	SourceAI        AdvisorySource = "ai"
)

// AdvisoryRecord is an input/output pair logged for audit.
// Records are written once and never read back by the API.
type AdvisoryRecord struct {
	// ID is assigned by the document store on insert.
	ID string `json:"id" bson:"_id,omitempty"`

	// Kind is the advisory that produced the record.
	Kind AdvisoryKind `json:"type" bson:"type"`

	// Source distinguishes heuristic answers from model answers.
	Source AdvisorySource `json:"source" bson:"source"`

	// Input is the request payload as received.
	Input map[string]any `json:"input" bson:"input"`

	// Output is the result returned to the caller.
	Output map[string]any `json:"output" bson:"output"`

	// CreatedAt is the timestamp when the record was written.
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
