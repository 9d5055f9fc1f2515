package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/incident-feed-etl/internal/domain"
)

// IncidentTransformer implements Transformer by running entity extraction
// once per post and feeding the mentions to both location resolution and
// classification.
type IncidentTransformer struct {
	extractor  domain.EntityExtractor
	geocoder   domain.Geocoder
	classifier domain.Classifier
	logger     *slog.Logger
}

// NewTransformer creates an IncidentTransformer. Pass a nil geocoder to
// disable location enrichment.
func NewTransformer(extractor domain.EntityExtractor, geocoder domain.Geocoder, classifier domain.Classifier, logger *slog.Logger) *IncidentTransformer {
	return &IncidentTransformer{
		extractor:  extractor,
		geocoder:   geocoder,
		classifier: classifier,
		logger:     logger,
	}
}

// Transform converts one raw post into a standardized incident. Extraction
// failures degrade the record rather than fail it: the post is still
// classified from its text alone and emitted with an empty location.
func (t *IncidentTransformer) Transform(ctx context.Context, post domain.RawPost) domain.StandardizedIncident {
	entities, err := t.extractor.Extract(ctx, post.Text)
	if err != nil {
		t.logger.Warn("entity extraction failed, continuing without entities", "error", err)
		entities = nil
	}

	location := domain.ResolveLocation(ctx, entities, t.geocoder, t.logger)
	incidentType := t.classifier.Classify(ctx, post.Text, entities)

	return domain.NewIncident(post, location, incidentType)
}
