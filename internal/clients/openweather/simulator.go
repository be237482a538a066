package openweather

import (
	"math/rand"
	"time"

	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/congestion"
)

// SimulatedSourceLabel identifies readings produced by the simulator.
const SimulatedSourceLabel = "Simulated Weather"

// Condition pool weighted toward the Bangalore dry-season mix. These are
// provider-style raw strings; "Clouds" is what the live API reports for
// overcast skies, and the classifier keys on it.
var simulatedConditions = []string{"Clear", "Clear", "Clear", "Clouds", "Clouds", "Light Rain"}

// Simulator generates plausible weather readings when the live API is
// unavailable.
type Simulator struct {
	rng *rand.Rand
	now func() time.Time
}

// NewSimulator creates a simulator on the wall clock.
func NewSimulator() *Simulator {
	return &Simulator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// NewSimulatorWithClock creates a simulator with a fixed seed and clock.
// Intended for tests.
func NewSimulatorWithClock(seed int64, now func() time.Time) *Simulator {
	return &Simulator{
		rng: rand.New(rand.NewSource(seed)),
		now: now,
	}
}

// CurrentWeather produces a simulated reading for the location. Rain
// intensity is set only when the drawn condition mentions rain.
func (s *Simulator) CurrentWeather(location string) congestion.RawWeatherReading {
	condition := simulatedConditions[s.rng.Intn(len(simulatedConditions))]

	var rainIntensity *float64
	if condition == "Light Rain" {
		mm := 0.5 + s.rng.Float64()*4.5
		rainIntensity = &mm
	}

	return congestion.RawWeatherReading{
		Location:         location,
		Condition:        condition,
		Temperature:      18 + s.rng.Float64()*14,
		Humidity:         float64(40 + s.rng.Intn(41)),
		WindSpeedKmh:     5 + s.rng.Float64()*15,
		VisibilityMeters: 5000 + s.rng.Float64()*5000,
		RainIntensity:    rainIntensity,
		ObservedAt:       s.now(),
	}
}
