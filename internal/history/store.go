// Package history persists congestion observations and serves per-location
// day-of-week baselines for historical comparison.
package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/congestion"
)

// Provider serves the historical baseline for a location on a given day of
// week. Implementations must return a usable fallback rather than an error
// when no data exists for the key.
type Provider interface {
	BaselineFor(ctx context.Context, location, dayOfWeek string) (congestion.HistoricalComparison, error)
}

// Fallback baseline when a location has no recorded history.
var fallbackBaseline = congestion.HistoricalComparison{
	HistoricalAvgCongestion: 75,
	TypicalConditions:       "Moderate to Heavy",
	SampleSize:              0,
	PatternConfidence:       0.5,
}

// Confidence assigned to baselines backed by actual records.
const recordedPatternConfidence = 0.85

// Store is a sqlite-backed Provider that also records new observations.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db at %s: %w", path, err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS congestion_baselines (
			location TEXT NOT NULL,
			day_of_week TEXT NOT NULL,
			avg_congestion DOUBLE NOT NULL,
			sample_size INTEGER NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (location, day_of_week)
		);
		CREATE TABLE IF NOT EXISTS congestion_observations (
			id TEXT PRIMARY KEY,
			location TEXT NOT NULL,
			day_of_week TEXT NOT NULL,
			congestion_level DOUBLE NOT NULL,
			observed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_observations_location
			ON congestion_observations (location, day_of_week);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordObservation stores one congestion reading and folds it into the
// running baseline average for that location and day of week.
func (s *Store) RecordObservation(ctx context.Context, location, dayOfWeek string, congestionLevel float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning history transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO congestion_observations (id, location, day_of_week, congestion_level) VALUES (?, ?, ?, ?)",
		uuid.NewString(), location, dayOfWeek, congestionLevel)
	if err != nil {
		return fmt.Errorf("inserting observation for %s: %w", location, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO congestion_baselines (location, day_of_week, avg_congestion, sample_size)
		VALUES (?, ?, ?, 1)
		ON CONFLICT (location, day_of_week) DO UPDATE SET
			avg_congestion = (avg_congestion * sample_size + excluded.avg_congestion) / (sample_size + 1),
			sample_size = sample_size + 1,
			updated_at = CURRENT_TIMESTAMP`,
		location, dayOfWeek, congestionLevel)
	if err != nil {
		return fmt.Errorf("updating baseline for %s: %w", location, err)
	}

	return tx.Commit()
}

// SeedBaseline writes a baseline directly, replacing any existing row.
// Used to preload dataset-derived averages at startup.
func (s *Store) SeedBaseline(ctx context.Context, location, dayOfWeek string, avgCongestion float64, sampleSize int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO congestion_baselines (location, day_of_week, avg_congestion, sample_size)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (location, day_of_week) DO UPDATE SET
			avg_congestion = excluded.avg_congestion,
			sample_size = excluded.sample_size,
			updated_at = CURRENT_TIMESTAMP`,
		location, dayOfWeek, avgCongestion, sampleSize)
	if err != nil {
		return fmt.Errorf("seeding baseline for %s: %w", location, err)
	}
	return nil
}

// Dataset-derived city-wide averages used to preload baselines before any
// live observations exist.
var defaultBaselines = map[string]float64{
	"Monday":    68,
	"Tuesday":   70,
	"Wednesday": 69,
	"Thursday":  71,
	"Friday":    74,
	"Saturday":  52,
	"Sunday":    41,
}

const seededSampleSize = 30

// SeedDefaultBaselines preloads the dataset-derived day-of-week baselines
// for every given location. Locations that already have recorded
// observations are left alone so accumulated live data wins over the
// defaults.
func (s *Store) SeedDefaultBaselines(ctx context.Context, locations []string) error {
	for _, location := range locations {
		n, err := s.ObservationCount(ctx, location)
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		for day, avg := range defaultBaselines {
			if err := s.SeedBaseline(ctx, location, day, avg, seededSampleSize); err != nil {
				return err
			}
		}
	}
	return nil
}

// BaselineFor returns the recorded baseline for the location and day of
// week, or the shared fallback when none exists.
func (s *Store) BaselineFor(ctx context.Context, location, dayOfWeek string) (congestion.HistoricalComparison, error) {
	var avg float64
	var samples int
	err := s.db.QueryRowContext(ctx,
		"SELECT avg_congestion, sample_size FROM congestion_baselines WHERE location = ? AND day_of_week = ?",
		location, dayOfWeek).Scan(&avg, &samples)
	if err == sql.ErrNoRows {
		return fallbackBaseline, nil
	}
	if err != nil {
		return congestion.HistoricalComparison{}, fmt.Errorf("querying baseline for %s: %w", location, err)
	}

	return congestion.HistoricalComparison{
		HistoricalAvgCongestion: avg,
		TypicalConditions:       typicalConditions(avg),
		SampleSize:              samples,
		PatternConfidence:       recordedPatternConfidence,
	}, nil
}

// ObservationCount returns how many observations exist for a location.
func (s *Store) ObservationCount(ctx context.Context, location string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM congestion_observations WHERE location = ?", location).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting observations for %s: %w", location, err)
	}
	return n, nil
}

func typicalConditions(avgCongestion float64) string {
	if avgCongestion > 60 {
		return "Heavy"
	}
	return "Moderate"
}

// StaticProvider serves fixed baselines keyed by "location|day". Keys with
// no entry fall back the same way the sqlite store does.
type StaticProvider map[string]congestion.HistoricalComparison

func (p StaticProvider) BaselineFor(_ context.Context, location, dayOfWeek string) (congestion.HistoricalComparison, error) {
	if baseline, ok := p[location+"|"+dayOfWeek]; ok {
		return baseline, nil
	}
	return fallbackBaseline, nil
}
