package explain

import (
	"time"

	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/attribution"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/confidence"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/congestion"
)

// Input bundles everything one analysis needs. All fields are passed by
// value; composition never mutates them.
type Input struct {
	Location   string                          `json:"location"`
	Traffic    congestion.TrafficReading       `json:"traffic"`
	Weather    congestion.WeatherReading       `json:"weather"`
	Time       congestion.TimeContext          `json:"time_context"`
	Historical congestion.HistoricalComparison `json:"historical_comparison"`
}

// EvidenceSource is one cited data source with a coarse reliability label.
type EvidenceSource struct {
	Type        string `json:"type"`
	Source      string `json:"source"`
	Timestamp   string `json:"timestamp"`
	Reliability string `json:"reliability"` // High or Medium
}

// DataPoint is one key metric the analysis rested on.
type DataPoint struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
}

// EvidenceTrail records the sources, data points, and numbered reasoning
// steps behind an explanation.
type EvidenceTrail struct {
	Sources        []EvidenceSource `json:"sources"`
	DataPoints     []DataPoint      `json:"data_points"`
	ReasoningChain []string         `json:"reasoning_chain"`
}

// Output is the terminal, immutable artifact of one analysis request. A new
// request always produces a new instance; nothing is cached or mutated.
type Output struct {
	Summary               string                           `json:"summary"`
	DetailedExplanation   string                           `json:"detailed_explanation"`
	Confidence            confidence.Score                 `json:"confidence"`
	Factors               []attribution.ContributingFactor `json:"factor_attributions"`
	Evidence              EvidenceTrail                    `json:"evidence"`
	Recommendations       []string                         `json:"recommendations"`
	UncertaintyDisclosure string                           `json:"uncertainty_disclosure"`
	GeneratedAt           time.Time                        `json:"timestamp"`
}
