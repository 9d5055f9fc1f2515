package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxonomyClassifier_Classify(t *testing.T) {
	c := NewTaxonomyClassifier()

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"flood keyword", "Severe flooding reported near Manila after heavy rain", "flooding"},
		{"earthquake keyword", "Magnitude 6.2 earthquake strikes off the coast", "earthquake"},
		{"riot maps to civil unrest", "Riot breaks out downtown after the match", "civil unrest"},
		{"case insensitive", "TYPHOON warning issued for coastal provinces", "hurricane"},
		{"substring inside word", "Floodwaters continue to rise", "flooding"},
		{"no keyword", "Lovely weather in the park today", IncidentUnknown},
		{"empty text", "", IncidentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(context.Background(), tt.text, nil))
		})
	}
}

// Table order, not text order, decides ties: "flood" precedes "fire" in the
// taxonomy even when "fire" appears first in the text.
func TestTaxonomyClassifier_DefinitionOrderPriority(t *testing.T) {
	c := NewTaxonomyClassifier()

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"fire before flood in text", "Fire crews respond as flood waters spread", "flooding"},
		{"flood before fire in text", "Flood recedes but fire still burning", "flooding"},
		{"storm wins over fire", "Fire sparked by storm damage", "storm"},
		{"hailstorm matches storm not hail entry", "Hailstorm batters the valley", "storm"},
		{"collapse before bridge collapse", "Bridge collapse shuts the highway", "building collapse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(context.Background(), tt.text, nil))
		})
	}
}

func TestEntityClassifier_Classify(t *testing.T) {
	c := NewEntityClassifier()

	t.Run("event entity wins", func(t *testing.T) {
		entities := []EntityMention{
			{Text: "Manila", Label: LabelGeopolitical},
			{Text: "Typhoon Haiyan", Label: LabelEvent},
		}
		result := c.Classify(context.Background(), "Typhoon Haiyan makes landfall near Manila", entities)
		assert.Equal(t, "typhoon haiyan", result)
	})

	t.Run("first event entity wins", func(t *testing.T) {
		entities := []EntityMention{
			{Text: "Hurricane Ida", Label: LabelEvent},
			{Text: "Katrina", Label: LabelEvent},
		}
		result := c.Classify(context.Background(), "Comparisons between Hurricane Ida and Katrina", entities)
		assert.Equal(t, "hurricane ida", result)
	})

	t.Run("keyword fallback without event entity", func(t *testing.T) {
		entities := []EntityMention{{Text: "Osaka", Label: LabelGeopolitical}}
		result := c.Classify(context.Background(), "Train crash outside Osaka injures dozens", entities)
		assert.Equal(t, "crash", result)
	})

	t.Run("fallback list order", func(t *testing.T) {
		// "flood" precedes "storm" in the fallback list.
		result := c.Classify(context.Background(), "Storm surge causes flooding along the coast", nil)
		assert.Equal(t, "flood", result)
	})

	t.Run("unknown when nothing matches", func(t *testing.T) {
		result := c.Classify(context.Background(), "City council approves new budget", nil)
		assert.Equal(t, IncidentUnknown, result)
	})
}

// The two strategies intentionally disagree on vocabulary for the same text.
func TestClassifierStrategies_Disagree(t *testing.T) {
	text := "Flooding across the region https://t.co/xyz"

	taxonomy := NewTaxonomyClassifier().Classify(context.Background(), text, nil)
	entity := NewEntityClassifier().Classify(context.Background(), text, nil)

	assert.Equal(t, "flooding", taxonomy)
	assert.Equal(t, "flood", entity)
}
