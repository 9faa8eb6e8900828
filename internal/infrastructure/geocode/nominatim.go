// Package geocode wraps the Nominatim search API. Results are purely
// advisory: the caller picks one candidate and stores its coordinates on the
// request; a provider failure degrades to an empty candidate list.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org"
	searchTimeout  = 5 * time.Second
	maxResults     = 6
	// Queries shorter than this return no candidates, keeping the proxy
	// cheap while a user is still typing.
	minQueryLen = 3
)

// Candidate is one geocoding match.
type Candidate struct {
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// Client queries Nominatim. The user agent is required by the provider's
// usage policy.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

func NewClient(baseURL, userAgent string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: searchTimeout},
		baseURL:    baseURL,
		userAgent:  userAgent,
	}
}

type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search returns candidates for a free-text query. Short queries and
// provider errors both yield an empty slice without error: geocoding is an
// optional aid, never a blocker.
func (c *Client) Search(ctx context.Context, query string) ([]Candidate, error) {
	if len(query) < minQueryLen {
		return []Candidate{}, nil
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("addressdetails", "1")
	q.Set("limit", strconv.Itoa(maxResults))
	q.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocode: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return []Candidate{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return []Candidate{}, nil
	}

	var raw []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return []Candidate{}, nil
	}

	out := make([]Candidate, 0, len(raw))
	for _, r := range raw {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lng, lngErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lngErr != nil {
			continue
		}
		out = append(out, Candidate{DisplayName: r.DisplayName, Lat: lat, Lng: lng})
	}
	return out, nil
}
