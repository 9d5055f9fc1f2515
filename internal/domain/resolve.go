package domain

import (
	"context"
	"log/slog"
)

// ResolveLocation finds the first place-labeled entity that geocodes to a
// candidate and returns its city/country/[lat, lon] triple. Entities with no
// candidates are skipped; lookup errors are logged, treated as "no match",
// and never propagated, so a flaky geocoding service cannot abort a batch.
// Returns the empty location when nothing resolves or geocoder is nil.
func ResolveLocation(ctx context.Context, entities []EntityMention, geocoder Geocoder, logger *slog.Logger) LocationInfo {
	if geocoder == nil {
		return EmptyLocation()
	}

	for _, ent := range entities {
		if !ent.IsPlace() {
			continue
		}

		result, err := geocoder.Geocode(ctx, ent.Text)
		if err != nil {
			logger.Warn("geocode lookup failed",
				"place", ent.Text,
				"label", ent.Label,
				"error", err,
			)
			continue
		}
		if !result.Found {
			continue
		}

		// Latitude first: the provider's Y/X pair is consumed as [Y, X].
		return LocationInfo{
			City:        result.City,
			Country:     result.Country,
			Coordinates: []float64{result.Lat, result.Lon},
		}
	}

	return EmptyLocation()
}
