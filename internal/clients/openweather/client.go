// Package openweather provides access to the OpenWeatherMap current weather
// API, with a simulator fallback for when no API key is configured.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/congestion"
)

// SourceLabel identifies readings fetched from the live API.
const SourceLabel = "OpenWeatherMap API"

// Client calls the OpenWeatherMap current weather endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates an OpenWeatherMap client with the default endpoint and
// a 10 second request timeout.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

type currentWeatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"` // m/s with metric units
	} `json:"wind"`
	Visibility *float64 `json:"visibility"` // meters
	Rain       *struct {
		OneHour float64 `json:"1h"` // mm
	} `json:"rain"`
}

// CurrentWeather fetches current conditions for the coordinates. Wind speed
// is converted from m/s to km/h; visibility defaults to 10km when absent.
func (c *Client) CurrentWeather(ctx context.Context, location string, lat, lon float64) (congestion.RawWeatherReading, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%.6f", lat))
	params.Set("lon", fmt.Sprintf("%.6f", lon))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	requestURL := fmt.Sprintf("%s/data/2.5/weather?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return congestion.RawWeatherReading{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return congestion.RawWeatherReading{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return congestion.RawWeatherReading{}, fmt.Errorf("invalid API key")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return congestion.RawWeatherReading{}, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var response currentWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return congestion.RawWeatherReading{}, fmt.Errorf("failed to decode response: %w", err)
	}

	condition := "Clear"
	if len(response.Weather) > 0 && response.Weather[0].Main != "" {
		condition = response.Weather[0].Main
	}

	visibility := 10000.0
	if response.Visibility != nil {
		visibility = *response.Visibility
	}

	var rainIntensity *float64
	if response.Rain != nil {
		mm := response.Rain.OneHour
		rainIntensity = &mm
	}

	return congestion.RawWeatherReading{
		Location:         location,
		Condition:        condition,
		Temperature:      response.Main.Temp,
		Humidity:         response.Main.Humidity,
		WindSpeedKmh:     response.Wind.Speed * 3.6,
		VisibilityMeters: visibility,
		RainIntensity:    rainIntensity,
		ObservedAt:       c.now(),
	}, nil
}
