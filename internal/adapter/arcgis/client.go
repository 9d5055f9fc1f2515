// Package arcgis implements domain.Geocoder against the ArcGIS World
// Geocoding Service.
package arcgis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/incident-feed-etl/internal/domain"
	"github.com/couchcryptid/incident-feed-etl/internal/observability"
)

const defaultBaseURL = "https://geocode-api.arcgis.com/arcgis/rest/services/World/GeocodeServer"

// Client implements domain.Geocoder using the findAddressCandidates endpoint.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an ArcGIS geocoding client.
func NewClient(apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Geocode resolves a place name to its single highest-ranked candidate.
// Zero candidates is a non-error empty result.
func (c *Client) Geocode(ctx context.Context, placeName string) (domain.GeocodeResult, error) {
	params := url.Values{
		"f":            {"json"},
		"singleLine":   {placeName},
		"maxLocations": {"1"},
		"outFields":    {"City,Country"},
		"token":        {c.apiKey},
	}
	fullURL := c.baseURL + "/findAddressCandidates?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodeResult{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodeResult{}, fmt.Errorf("arcgis API error: status %d: %s", resp.StatusCode, body)
	}

	var geocodeResp response
	if err := json.NewDecoder(resp.Body).Decode(&geocodeResp); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodeResult{}, fmt.Errorf("decode response: %w", err)
	}

	// ArcGIS reports auth and quota failures as 200s with an error payload.
	if geocodeResp.Error != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodeResult{}, fmt.Errorf("arcgis API error: code %d: %s", geocodeResp.Error.Code, geocodeResp.Error.Message)
	}

	if len(geocodeResp.Candidates) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		return domain.GeocodeResult{}, nil
	}

	c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	best := geocodeResp.Candidates[0]
	return domain.GeocodeResult{
		City:    best.Attributes.City,
		Country: best.Attributes.Country,
		Lat:     best.Location.Y,
		Lon:     best.Location.X,
		Score:   best.Score / 100.0,
		Found:   true,
	}, nil
}

// ArcGIS API response types.

type response struct {
	Candidates []candidate `json:"candidates"`
	Error      *apiError   `json:"error,omitempty"`
}

type candidate struct {
	Address  string  `json:"address"`
	Score    float64 `json:"score"` // 0–100 match score
	Location struct {
		X float64 `json:"x"` // longitude
		Y float64 `json:"y"` // latitude
	} `json:"location"`
	Attributes struct {
		City    string `json:"City"`
		Country string `json:"Country"`
	} `json:"attributes"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
