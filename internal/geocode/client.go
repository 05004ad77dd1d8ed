package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNoResult means the provider answered but found nothing for the
// address. Callers treat it as a soft miss, not a failure.
var ErrNoResult = errors.New("geocode: no result for address")

const DefaultBaseURL = "https://nominatim.openstreetmap.org/search"

// Client resolves free-form addresses against a Nominatim-compatible
// endpoint. Region biases the query toward the deployment's city.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	Region     string
	UserAgent  string
}

func NewClient(region string) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
		BaseURL:    DefaultBaseURL,
		Region:     region,
		UserAgent:  "radar-api/1.0",
	}
}

func (c *Client) Lookup(ctx context.Context, address string) (float64, float64, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return 0, 0, ErrNoResult
	}

	query := address
	if c.Region != "" {
		query = address + ", " + c.Region
	}

	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode: build request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocode: provider returned %d", resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, fmt.Errorf("geocode: decode response: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, ErrNoResult
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode: bad latitude %q", results[0].Lat)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode: bad longitude %q", results[0].Lon)
	}
	return lat, lng, nil
}
