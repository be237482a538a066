package explain

import (
	"strings"

	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/attribution"
)

const maxRecommendations = 5

// recommend builds actionable recommendations: congestion-threshold alerts
// first, then per-factor advisories, with a routine-monitoring fallback and
// a fixed refresh reminder. The list is truncated to five items in
// generation order, not severity order; that ordering is part of the
// contract.
func recommend(congestionLevel float64, factors []attribution.ContributingFactor, weatherCondition string) []string {
	var recs []string

	if congestionLevel >= 85 {
		recs = append(recs,
			"URGENT: Activate congestion management protocols",
			"Issue public advisory for alternate routes")
	} else if congestionLevel >= 60 {
		recs = append(recs,
			"Monitor closely - approaching critical levels",
			"Consider adjusting signal timing at major intersections")
	}

	condition := strings.ToLower(weatherCondition)
	for _, f := range factors {
		name := strings.ToLower(f.Name)

		if strings.Contains(name, "time") && f.ContributionPct > 25 {
			recs = append(recs, "Peak hour mitigation: Stagger departure advisories")
		}

		if strings.Contains(name, "weather") && f.ContributionPct > 15 {
			if strings.Contains(condition, "rain") {
				recs = append(recs, "Weather advisory: Reduce speed limits, increase headway")
			} else if strings.Contains(condition, "fog") {
				recs = append(recs, "Fog protocol: Activate fog lights at signals, issue visibility warnings")
			}
		}

		if strings.Contains(name, "incident") {
			recs = append(recs,
				"Dispatch incident response team for faster clearance",
				"Activate alternate route signage")
		}
	}

	if len(recs) == 0 {
		recs = append(recs, "Continue routine monitoring")
	}

	recs = append(recs, "Update status in 15 minutes for real-time tracking")

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}
