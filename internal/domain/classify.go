package domain

import (
	"context"
	"strings"
)

// Classifier maps free text (plus the extractor's mentions for that text) to
// a single incident-type label. Implementations are deterministic and
// side-effect-free; they never return "".
type Classifier interface {
	Classify(ctx context.Context, text string, entities []EntityMention) string
}

// keywordRule binds a keyword phrase to its canonical incident-type label.
type keywordRule struct {
	keyword string
	label   string
}

// incidentTaxonomy is the ordered keyword→label table used by the taxonomy
// strategy. Enumeration order is the category priority: the first keyword
// found in the text wins, so entries must not be reordered.
var incidentTaxonomy = []keywordRule{
	{"flood", "flooding"},
	{"heavy rain", "flooding"},
	{"inundation", "flooding"},
	{"waterlogging", "flooding"},
	{"hurricane", "hurricane"},
	{"typhoon", "hurricane"},
	{"cyclone", "hurricane"},
	{"tornado", "tornado"},
	{"twister", "tornado"},
	{"storm", "storm"},
	{"thunderstorm", "storm"},
	{"hailstorm", "storm"},
	{"blizzard", "storm"},
	{"snowstorm", "storm"},
	{"drought", "drought"},
	{"heatwave", "drought"},
	{"wildfire", "wildfire"},
	{"bushfire", "wildfire"},
	{"forest fire", "wildfire"},
	{"earthquake", "earthquake"},
	{"seismic", "earthquake"},
	{"quake", "earthquake"},
	{"tsunami", "tsunami"},
	{"tidal wave", "tsunami"},
	{"volcano", "volcanic eruption"},
	{"eruption", "volcanic eruption"},
	{"lava", "volcanic eruption"},
	{"ashfall", "volcanic eruption"},
	{"landslide", "landslide"},
	{"mudslide", "landslide"},
	{"avalanche", "avalanche"},
	{"collapse", "building collapse"},
	{"building collapse", "building collapse"},
	{"sinkhole", "sinkhole"},
	{"pandemic", "pandemic"},
	{"epidemic", "epidemic"},
	{"disease outbreak", "epidemic"},
	{"fire", "fire"},
	{"explosion", "explosion"},
	{"blast", "explosion"},
	{"chemical spill", "hazardous material"},
	{"gas leak", "hazardous material"},
	{"radiation leak", "hazardous material"},
	{"toxic release", "hazardous material"},
	{"industrial accident", "industrial accident"},
	{"train crash", "transportation accident"},
	{"plane crash", "transportation accident"},
	{"shipwreck", "transportation accident"},
	{"road accident", "transportation accident"},
	{"car crash", "transportation accident"},
	{"vehicle collision", "transportation accident"},
	{"traffic incident", "transportation accident"},
	{"terrorist attack", "terrorism"},
	{"bombing", "terrorism"},
	{"shooting", "terrorism"},
	{"hostage", "terrorism"},
	{"cyberattack", "cyberattack"},
	{"data breach", "cyberattack"},
	{"phishing", "cyberattack"},
	{"power outage", "infrastructure failure"},
	{"blackout", "infrastructure failure"},
	{"water shortage", "infrastructure failure"},
	{"bridge collapse", "infrastructure failure"},
	{"dam breach", "infrastructure failure"},
	{"riot", "civil unrest"},
	{"protest", "civil unrest"},
	{"demonstration", "civil unrest"},
	{"stampede", "civil unrest"},
}

// TaxonomyLabels returns the set of canonical labels the taxonomy strategy
// can emit, not including IncidentUnknown.
func TaxonomyLabels() map[string]bool {
	labels := make(map[string]bool, len(incidentTaxonomy))
	for _, rule := range incidentTaxonomy {
		labels[rule.label] = true
	}
	return labels
}

// TaxonomyClassifier resolves incident types with the static keyword
// taxonomy: case-insensitive substring match, first keyword in table order
// wins. Closed vocabulary.
type TaxonomyClassifier struct{}

// NewTaxonomyClassifier creates the taxonomy-strategy classifier.
func NewTaxonomyClassifier() *TaxonomyClassifier {
	return &TaxonomyClassifier{}
}

func (*TaxonomyClassifier) Classify(_ context.Context, text string, _ []EntityMention) string {
	lowered := strings.ToLower(text)
	for _, rule := range incidentTaxonomy {
		if strings.Contains(lowered, rule.keyword) {
			return rule.label
		}
	}
	return IncidentUnknown
}

// fallbackKeywords is the entity strategy's short keyword list, scanned only
// when no EVENT entity is present.
var fallbackKeywords = []string{
	"flood",
	"earthquake",
	"fire",
	"crash",
	"storm",
	"hurricane",
	"tornado",
}

// EntityClassifier resolves incident types from the extractor's mentions:
// the first EVENT-labeled mention, lowercased, is the label (open
// vocabulary). Without one it falls back to a short keyword scan.
type EntityClassifier struct{}

// NewEntityClassifier creates the entity-strategy classifier.
func NewEntityClassifier() *EntityClassifier {
	return &EntityClassifier{}
}

func (*EntityClassifier) Classify(_ context.Context, text string, entities []EntityMention) string {
	for _, ent := range entities {
		if ent.IsEvent() {
			return strings.ToLower(ent.Text)
		}
	}

	lowered := strings.ToLower(text)
	for _, keyword := range fallbackKeywords {
		if strings.Contains(lowered, keyword) {
			return keyword
		}
	}
	return IncidentUnknown
}
