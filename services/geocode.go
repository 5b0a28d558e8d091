package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

var ErrNoGeocodeResult = errors.New("no geocoding result for address")

type Coordinates struct {
	Lat float64
	Lon float64
}

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Coordinates, error)
}

// NominatimClient geocodes against OpenStreetMap Nominatim, restricted to
// the store's country. The breaker keeps a hung or failing upstream from
// stalling every checkout once it has tripped.
type NominatimClient struct {
	baseURL     string
	countryCode string
	httpClient  *http.Client
	breaker     *gobreaker.CircuitBreaker[*Coordinates]
}

func NewNominatimClient(baseURL string, timeout time.Duration) *NominatimClient {
	settings := gobreaker.Settings{
		Name:    "nominatim",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &NominatimClient{
		baseURL:     baseURL,
		countryCode: "vn",
		httpClient:  &http.Client{Timeout: timeout},
		breaker:     gobreaker.NewCircuitBreaker[*Coordinates](settings),
	}
}

func (c *NominatimClient) Geocode(ctx context.Context, address string) (*Coordinates, error) {
	return c.breaker.Execute(func() (*Coordinates, error) {
		return c.geocode(ctx, address)
	})
}

func (c *NominatimClient) geocode(ctx context.Context, address string) (*Coordinates, error) {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("q", address)
	query.Set("countrycodes", c.countryCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoGeocodeResult
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("bad latitude in nominatim response: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("bad longitude in nominatim response: %w", err)
	}

	return &Coordinates{Lat: lat, Lon: lon}, nil
}
