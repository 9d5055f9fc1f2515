package domain

import "context"

// Entity labels as emitted by the NER model.
const (
	LabelGeopolitical = "GPE"
	LabelLocation     = "LOC"
	LabelEvent        = "EVENT"
)

// EntityMention is a labeled span of text found by the entity extractor.
// Mentions are transient; they are never persisted.
type EntityMention struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// IsPlace reports whether the mention names a geographic place.
func (e EntityMention) IsPlace() bool {
	return e.Label == LabelGeopolitical || e.Label == LabelLocation
}

// IsEvent reports whether the mention names an event or disaster.
func (e EntityMention) IsEvent() bool {
	return e.Label == LabelEvent
}

// EntityExtractor tags spans of text with semantic labels. Mentions are
// returned in order of appearance; an empty slice means none were found.
// Extraction has no side effects and is deterministic for a fixed model
// version.
type EntityExtractor interface {
	Extract(ctx context.Context, text string) ([]EntityMention, error)
}
