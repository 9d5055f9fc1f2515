package domain

import "time"

// IncidentUnknown is the fallback incident type when no strategy matches.
const IncidentUnknown = "unknown"

// RawPost is an unprocessed text-plus-date record from the upstream
// collector. Current batches carry "date"; legacy batches carry "created_at".
type RawPost struct {
	Text      string `json:"text"`
	Date      string `json:"date,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// PostedOn returns the post's ISO date, preferring "date" over "created_at".
func (p RawPost) PostedOn() string {
	if p.Date != "" {
		return p.Date
	}
	return p.CreatedAt
}

// LocationInfo is a resolved city/country/coordinate triple. Coordinates are
// [lat, lon]. The all-empty value means "no resolvable location" and is a
// valid terminal state, never an error.
type LocationInfo struct {
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Coordinates []float64 `json:"coordinates"`
}

// EmptyLocation returns the "no resolvable location" value. Coordinates is a
// non-nil empty slice so it serializes as [] rather than null.
func EmptyLocation() LocationInfo {
	return LocationInfo{Coordinates: []float64{}}
}

// IsEmpty reports whether no location was resolved.
func (l LocationInfo) IsEmpty() bool {
	return l.City == "" && l.Country == "" && len(l.Coordinates) == 0
}

// StandardizedIncident is the normalized output record, one per RawPost.
// ProcessedAt is carried for sink message headers only; it is excluded from
// the file output, whose schema is fixed.
type StandardizedIncident struct {
	IncidentType string       `json:"incident_type"`
	Location     LocationInfo `json:"location"`
	Date         string       `json:"date"`
	Description  string       `json:"description"`
	OriginalLink string       `json:"original_link"`

	ProcessedAt time.Time `json:"-"`
}

// NewIncident assembles a standardized incident from a raw post and the
// outputs of location resolution and classification. It strips link
// references from the text, guards the non-empty incident_type and
// well-formed location invariants, and stamps ProcessedAt from the package
// clock.
func NewIncident(post RawPost, location LocationInfo, incidentType string) StandardizedIncident {
	if incidentType == "" {
		incidentType = IncidentUnknown
	}
	if location.Coordinates == nil {
		location.Coordinates = []float64{}
	}

	description, link := ExtractLink(post.Text)

	return StandardizedIncident{
		IncidentType: incidentType,
		Location:     location,
		Date:         post.PostedOn(),
		Description:  description,
		OriginalLink: link,
		ProcessedAt:  clock.Now(),
	}
}
