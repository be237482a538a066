// Package config loads server configuration from the environment. API keys
// are optional; services fall back to simulators when a key is absent.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config is the complete server configuration.
type Config struct {
	Port              string
	TomTomAPIKey      string
	OpenWeatherAPIKey string
	OpenAIAPIKey      string
	OpenAIModel       string
	RefreshInterval   time.Duration
	CacheTTL          time.Duration
	HistoryDBPath     string
	Areas             []Area
}

// Area is a monitored location with its coordinates.
type Area struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Center is the fallback coordinate for locations not in the area table.
var Center = Area{Name: "Bangalore", Lat: 12.9716, Lon: 77.5946}

// DefaultAreas lists the monitored Bangalore areas.
var DefaultAreas = []Area{
	{Name: "Koramangala", Lat: 12.9352, Lon: 77.6245},
	{Name: "Indiranagar", Lat: 12.9784, Lon: 77.6408},
	{Name: "Whitefield", Lat: 12.9698, Lon: 77.7500},
	{Name: "Electronic City", Lat: 12.8399, Lon: 77.6770},
	{Name: "M.G. Road", Lat: 12.9756, Lon: 77.6063},
	{Name: "Jayanagar", Lat: 12.9308, Lon: 77.5838},
	{Name: "Hebbal", Lat: 13.0358, Lon: 77.5970},
	{Name: "Yeshwanthpur", Lat: 13.0280, Lon: 77.5410},
	{Name: "Marathahalli", Lat: 12.9591, Lon: 77.7011},
	{Name: "Silk Board", Lat: 12.9172, Lon: 77.6227},
	{Name: "Outer Ring Road", Lat: 12.9300, Lon: 77.6800},
	{Name: "Sarjapur Road", Lat: 12.9100, Lon: 77.6800},
	{Name: "Bannerghatta Road", Lat: 12.8900, Lon: 77.5970},
	{Name: "Old Airport Road", Lat: 12.9600, Lon: 77.6500},
}

// Load reads configuration from environment variables, applying defaults
// for everything optional.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		TomTomAPIKey:      getEnv("TOMTOM_API_KEY", ""),
		OpenWeatherAPIKey: getEnv("OPENWEATHER_API_KEY", ""),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		HistoryDBPath:     getEnv("HISTORY_DB_PATH", "history.db"),
		Areas:             DefaultAreas,
	}

	var err error
	cfg.RefreshInterval, err = getDuration("REFRESH_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL, err = getDuration("CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// AreaByName finds a monitored area, falling back to the city center for
// unknown locations.
func (c *Config) AreaByName(name string) Area {
	for _, area := range c.Areas {
		if area.Name == name {
			return area
		}
	}
	return Area{Name: name, Lat: Center.Lat, Lon: Center.Lon}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration in %s: %w", key, err)
	}
	return d, nil
}
