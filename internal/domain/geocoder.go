package domain

import "context"

// GeocodeResult contains the best candidate returned by a geocoding
// provider. Found distinguishes "no candidates" from a candidate at (0, 0).
type GeocodeResult struct {
	City    string
	Country string
	Lat     float64
	Lon     float64
	Score   float64 // 0.0–1.0 provider match score
	Found   bool
}

// Geocoder converts a place name into its highest-ranked candidate match.
// A zero-candidate response is (GeocodeResult{}, nil), not an error.
type Geocoder interface {
	Geocode(ctx context.Context, placeName string) (GeocodeResult, error)
}
