// Package twitter implements the upstream post collector against the
// Twitter API v2.
package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/incident-feed-etl/internal/domain"
)

const defaultBaseURL = "https://api.twitter.com/2"

// Client fetches recent posts for a monitored account using app-only bearer
// authentication.
type Client struct {
	bearerToken string
	httpClient  *http.Client
	baseURL     string
	logger      *slog.Logger
}

// NewClient creates a collector client.
func NewClient(bearerToken string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		bearerToken: bearerToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		logger:  logger,
	}
}

// FetchPostsByUsername returns up to maxResults recent posts (replies
// excluded) for the given account, with the created_at timestamp reduced to
// its ISO date part.
func (c *Client) FetchPostsByUsername(ctx context.Context, username string, maxResults int) ([]domain.RawPost, error) {
	userID, err := c.lookupUserID(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup user %q: %w", username, err)
	}

	params := url.Values{
		"tweet.fields": {"created_at"},
		"max_results":  {strconv.Itoa(maxResults)},
		"exclude":      {"replies"},
	}
	fullURL := fmt.Sprintf("%s/users/%s/tweets?%s", c.baseURL, userID, params.Encode())

	var timeline timelineResponse
	if err := c.getJSON(ctx, fullURL, &timeline); err != nil {
		return nil, fmt.Errorf("fetch timeline for %q: %w", username, err)
	}

	posts := make([]domain.RawPost, 0, len(timeline.Data))
	for _, tw := range timeline.Data {
		posts = append(posts, domain.RawPost{
			Text: tw.Text,
			Date: datePart(tw.CreatedAt),
		})
	}
	return posts, nil
}

func (c *Client) lookupUserID(ctx context.Context, username string) (string, error) {
	fullURL := fmt.Sprintf("%s/users/by/username/%s", c.baseURL, url.PathEscape(username))

	var user userResponse
	if err := c.getJSON(ctx, fullURL, &user); err != nil {
		return "", err
	}
	if user.Data.ID == "" {
		return "", fmt.Errorf("user not found")
	}
	return user.Data.ID, nil
}

func (c *Client) getJSON(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("twitter API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// datePart reduces an RFC 3339 timestamp to its date. Unparseable values are
// passed through so the record still carries whatever the API sent.
func datePart(createdAt string) string {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return createdAt
	}
	return t.Format("2006-01-02")
}

// Twitter API v2 response types.

type userResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type timelineResponse struct {
	Data []struct {
		Text      string `json:"text"`
		CreatedAt string `json:"created_at"`
	} `json:"data"`
}
