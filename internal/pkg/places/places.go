package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/thejzagency/swfldines/internal/pkg/env"
)

const defaultPlacesBaseURL = "https://maps.googleapis.com"

// Client is a minimal REST client for the Google Places Details call.
// Configuration is injected, never hardcoded.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClientFromEnv builds a client from GOOGLE_PLACES_API_KEY and an
// optional GOOGLE_PLACES_API_BASE override (used in tests).
func NewClientFromEnv() *Client {
	return &Client{
		apiKey:     env.GetEnv("GOOGLE_PLACES_API_KEY", ""),
		baseURL:    env.GetEnv("GOOGLE_PLACES_API_BASE", defaultPlacesBaseURL),
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// IsConfigured reports whether an API key is set. Review syncing is an
// optional feature; without a key it stays off.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// PlaceDetails is the subset of a Place Details response the app uses.
type PlaceDetails struct {
	PlaceID          string  `json:"place_id"`
	Rating           float64 `json:"rating"`
	UserRatingsTotal int     `json:"user_ratings_total"`
}

type detailsResponse struct {
	Result       *PlaceDetails `json:"result"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
}

// FetchDetails loads the aggregate rating and review count for a place id.
func (c *Client) FetchDetails(ctx context.Context, placeID string) (*PlaceDetails, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("google places api key is not configured")
	}
	if placeID == "" {
		return nil, fmt.Errorf("place id is empty")
	}

	query := url.Values{}
	query.Set("place_id", placeID)
	query.Set("fields", "place_id,rating,user_ratings_total")
	query.Set("key", c.apiKey)

	endpoint := c.baseURL + "/maps/api/place/details/json?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places details request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places details returned HTTP %d", resp.StatusCode)
	}

	var parsed detailsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode places response: %w", err)
	}
	if parsed.Status != "OK" || parsed.Result == nil {
		if parsed.ErrorMessage != "" {
			return nil, fmt.Errorf("places api error: %s (%s)", parsed.Status, parsed.ErrorMessage)
		}
		return nil, fmt.Errorf("places api error: %s", parsed.Status)
	}

	return parsed.Result, nil
}
