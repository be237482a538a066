// Package services wires the data sources, cache, and history store into
// the congestion analysis pipeline.
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/cache"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/clients/openweather"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/clients/tomtom"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/config"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/history"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/attribution"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/confidence"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/congestion"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/explain"
)

// TrafficSource fetches a live traffic reading for coordinates.
type TrafficSource interface {
	FlowSegment(ctx context.Context, location string, lat, lon float64) (congestion.RawTrafficReading, error)
}

// WeatherSource fetches a live weather reading for coordinates.
type WeatherSource interface {
	CurrentWeather(ctx context.Context, location string, lat, lon float64) (congestion.RawWeatherReading, error)
}

// ObservationRecorder persists congestion observations for baselines.
type ObservationRecorder interface {
	RecordObservation(ctx context.Context, location, dayOfWeek string, congestionLevel float64) error
}

// CombinedInsight bundles everything known about one location right now.
type CombinedInsight struct {
	Location            string                           `json:"location"`
	Traffic             congestion.TrafficReading        `json:"traffic"`
	Weather             congestion.WeatherReading        `json:"weather"`
	TimeContext         congestion.TimeContext           `json:"time_context"`
	Historical          congestion.HistoricalComparison  `json:"historical_comparison"`
	ContributingFactors []attribution.ContributingFactor `json:"contributing_factors"`
	ConfidenceScore     float64                          `json:"confidence_score"`
	Timestamp           time.Time                        `json:"timestamp"`
}

// AreaStatus is the per-area summary returned by AllAreasStatus.
type AreaStatus struct {
	CongestionLevel float64             `json:"congestion_level,omitempty"`
	Category        congestion.Category `json:"category,omitempty"`
	CurrentSpeed    float64             `json:"current_speed,omitempty"`
	Timestamp       time.Time           `json:"timestamp,omitempty"`
	Error           string              `json:"error,omitempty"`
}

// InsightService serves normalized readings and combined analyses. Live
// sources are optional; the simulators cover for missing keys or outages.
type InsightService struct {
	cfg         *config.Config
	cache       *cache.Cache
	history     history.Provider
	recorder    ObservationRecorder // may be nil
	liveTraffic TrafficSource       // nil when no API key configured
	liveWeather WeatherSource       // nil when no API key configured
	trafficSim  *tomtom.Simulator
	weatherSim  *openweather.Simulator
	now         func() time.Time
}

// NewInsightService builds the service from configuration. recorder may be
// nil when observations should not be persisted.
func NewInsightService(cfg *config.Config, c *cache.Cache, provider history.Provider, recorder ObservationRecorder) *InsightService {
	s := &InsightService{
		cfg:        cfg,
		cache:      c,
		history:    provider,
		recorder:   recorder,
		trafficSim: tomtom.NewSimulator(),
		weatherSim: openweather.NewSimulator(),
		now:        time.Now,
	}
	if cfg.TomTomAPIKey != "" {
		s.liveTraffic = tomtom.NewClient(cfg.TomTomAPIKey)
	}
	if cfg.OpenWeatherAPIKey != "" {
		s.liveWeather = openweather.NewClient(cfg.OpenWeatherAPIKey)
	}
	return s
}

// TrafficFor returns a normalized traffic reading for the location, served
// from cache when fresh. New readings are recorded into history.
func (s *InsightService) TrafficFor(ctx context.Context, location string) (congestion.TrafficReading, error) {
	requestID := uuid.NewString()
	key := "traffic:" + location

	var cached congestion.TrafficReading
	found, err := s.cache.Get(key, &cached)
	if err != nil {
		log.Printf("[%s] Traffic cache read failed for %s: %v", requestID, location, err)
	}
	if found {
		return cached, nil
	}

	var raw congestion.RawTrafficReading
	if s.liveTraffic == nil {
		raw = s.trafficSim.FlowSegment(location)
	} else {
		area := s.cfg.AreaByName(location)
		live, fetchErr := s.liveTraffic.FlowSegment(ctx, location, area.Lat, area.Lon)
		if fetchErr != nil {
			log.Printf("[%s] TomTom fetch failed for %s: %v", requestID, location, fetchErr)
			if reading, ok := s.staleTraffic(requestID, key, location); ok {
				return reading, nil
			}
			raw = s.trafficSim.FlowSegment(location)
		} else {
			raw = live
		}
	}

	reading, err := congestion.NormalizeTraffic(raw)
	if err != nil {
		return congestion.TrafficReading{}, fmt.Errorf("normalizing traffic reading for %s: %w", location, err)
	}

	if err := s.cache.Set(key, reading, s.cfg.CacheTTL, reading.Source); err != nil {
		log.Printf("[%s] Traffic cache write failed for %s: %v", requestID, location, err)
	}

	if s.recorder != nil {
		day := congestion.TimeContextAt(s.now()).DayOfWeek
		if err := s.recorder.RecordObservation(ctx, location, day, reading.CongestionLevel); err != nil {
			log.Printf("[%s] Recording observation failed for %s: %v", requestID, location, err)
		}
	}

	log.Printf("[%s] Traffic for %s: %.1f%% (%s) via %s", requestID, location, reading.CongestionLevel, reading.CongestionCategory, reading.Source)
	return reading, nil
}

// staleTraffic serves the last cached reading after a live-fetch failure.
// Very stale entries (past twice their TTL) are not served; the caller
// falls through to simulation instead.
func (s *InsightService) staleTraffic(requestID, key, location string) (congestion.TrafficReading, bool) {
	if s.cache.IsVeryStale(key) {
		return congestion.TrafficReading{}, false
	}

	var reading congestion.TrafficReading
	entry, ok, err := s.cache.GetStale(key, &reading)
	if !ok || err != nil {
		return congestion.TrafficReading{}, false
	}

	log.Printf("[%s] Serving stale traffic for %s cached at %s", requestID, location, entry.CreatedAt.Format(time.RFC3339))
	return reading, true
}

// WeatherFor returns a normalized weather reading for the location, served
// from cache when fresh.
func (s *InsightService) WeatherFor(ctx context.Context, location string) (congestion.WeatherReading, error) {
	requestID := uuid.NewString()
	key := "weather:" + location

	var cached congestion.WeatherReading
	found, err := s.cache.Get(key, &cached)
	if err != nil {
		log.Printf("[%s] Weather cache read failed for %s: %v", requestID, location, err)
	}
	if found {
		return cached, nil
	}

	var raw congestion.RawWeatherReading
	if s.liveWeather == nil {
		raw = s.weatherSim.CurrentWeather(location)
	} else {
		area := s.cfg.AreaByName(location)
		live, fetchErr := s.liveWeather.CurrentWeather(ctx, location, area.Lat, area.Lon)
		if fetchErr != nil {
			log.Printf("[%s] OpenWeather fetch failed for %s: %v", requestID, location, fetchErr)
			if reading, ok := s.staleWeather(requestID, key, location); ok {
				return reading, nil
			}
			raw = s.weatherSim.CurrentWeather(location)
		} else {
			raw = live
		}
	}

	reading, err := congestion.NormalizeWeather(raw)
	if err != nil {
		return congestion.WeatherReading{}, fmt.Errorf("normalizing weather reading for %s: %w", location, err)
	}

	if err := s.cache.Set(key, reading, s.cfg.CacheTTL, openweather.SourceLabel); err != nil {
		log.Printf("[%s] Weather cache write failed for %s: %v", requestID, location, err)
	}

	log.Printf("[%s] Weather for %s: %s, %s impact", requestID, location, reading.Condition, reading.Impact)
	return reading, nil
}

// staleWeather is the weather counterpart of staleTraffic.
func (s *InsightService) staleWeather(requestID, key, location string) (congestion.WeatherReading, bool) {
	if s.cache.IsVeryStale(key) {
		return congestion.WeatherReading{}, false
	}

	var reading congestion.WeatherReading
	entry, ok, err := s.cache.GetStale(key, &reading)
	if !ok || err != nil {
		return congestion.WeatherReading{}, false
	}

	log.Printf("[%s] Serving stale weather for %s cached at %s", requestID, location, entry.CreatedAt.Format(time.RFC3339))
	return reading, true
}

// CombinedInsight assembles the full picture for one location: current
// readings, time context, historical baseline, factor attribution, and an
// aggregate confidence score.
func (s *InsightService) CombinedInsight(ctx context.Context, location string) (*CombinedInsight, error) {
	traffic, err := s.TrafficFor(ctx, location)
	if err != nil {
		return nil, err
	}
	weather, err := s.WeatherFor(ctx, location)
	if err != nil {
		return nil, err
	}

	tc := congestion.TimeContextAt(s.now())
	historical, err := s.history.BaselineFor(ctx, location, tc.DayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("loading historical baseline for %s: %w", location, err)
	}

	factors := attribution.ComputeFactors(traffic, weather, tc)

	return &CombinedInsight{
		Location:            location,
		Traffic:             traffic,
		Weather:             weather,
		TimeContext:         tc,
		Historical:          historical,
		ContributingFactors: factors,
		ConfidenceScore:     confidence.Insight(traffic, factors),
		Timestamp:           s.now(),
	}, nil
}

// Explain runs the full explainable analysis for one location.
func (s *InsightService) Explain(ctx context.Context, location string) (explain.Output, error) {
	traffic, err := s.TrafficFor(ctx, location)
	if err != nil {
		return explain.Output{}, err
	}
	weather, err := s.WeatherFor(ctx, location)
	if err != nil {
		return explain.Output{}, err
	}

	tc := congestion.TimeContextAt(s.now())
	historical, err := s.history.BaselineFor(ctx, location, tc.DayOfWeek)
	if err != nil {
		return explain.Output{}, fmt.Errorf("loading historical baseline for %s: %w", location, err)
	}

	return explain.Analyze(explain.Input{
		Location:   location,
		Traffic:    traffic,
		Weather:    weather,
		Time:       tc,
		Historical: historical,
	}), nil
}

// AllAreasStatus returns the traffic summary for every monitored area.
// Failures are reported per area rather than failing the whole sweep.
func (s *InsightService) AllAreasStatus(ctx context.Context) map[string]AreaStatus {
	results := make(map[string]AreaStatus, len(s.cfg.Areas))
	for _, area := range s.cfg.Areas {
		reading, err := s.TrafficFor(ctx, area.Name)
		if err != nil {
			results[area.Name] = AreaStatus{Error: err.Error()}
			continue
		}
		results[area.Name] = AreaStatus{
			CongestionLevel: reading.CongestionLevel,
			Category:        reading.CongestionCategory,
			CurrentSpeed:    reading.CurrentSpeed,
			Timestamp:       reading.Timestamp,
		}
	}
	return results
}
