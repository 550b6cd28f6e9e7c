// Package weatherapi fetches current conditions from a weatherapi.com style
// HTTP endpoint.
package weatherapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"organmatch/internal/logistics"
)

var ErrNoAPIKey = errors.New("weather api key not configured")

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient bounds every request by timeout.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type currentResponse struct {
	Location struct {
		Name    string `json:"name"`
		Region  string `json:"region"`
		Country string `json:"country"`
	} `json:"location"`
	Current struct {
		TempC     float64 `json:"temp_c"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
		WindKph  float64 `json:"wind_kph"`
		Humidity float64 `json:"humidity"`
		VisKm    float64 `json:"vis_km"`
	} `json:"current"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Current returns the conditions at location. The snapshot keeps the
// requested location name.
func (c *Client) Current(ctx context.Context, location string) (logistics.WeatherSnapshot, error) {
	if c.apiKey == "" {
		return logistics.WeatherSnapshot{}, ErrNoAPIKey
	}
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", location)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return logistics.WeatherSnapshot{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return logistics.WeatherSnapshot{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return logistics.WeatherSnapshot{}, fmt.Errorf("weather api: %s", apiErr.Error.Message)
		}
		return logistics.WeatherSnapshot{}, fmt.Errorf("weather api: status %d", resp.StatusCode)
	}

	var body currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return logistics.WeatherSnapshot{}, fmt.Errorf("decode weather: %w", err)
	}
	return logistics.WeatherSnapshot{
		Location:     location,
		TemperatureC: body.Current.TempC,
		Condition:    body.Current.Condition.Text,
		WindKph:      body.Current.WindKph,
		Humidity:     body.Current.Humidity,
		VisibilityKm: body.Current.VisKm,
		Region:       body.Location.Region,
		Country:      body.Location.Country,
	}, nil
}
