package explain

import (
	"fmt"
	"strings"
)

const displayRule = "====================================================================="

// FormatForDisplay renders an Output as a plain-text report with a
// bar-chart factor breakdown, suitable for terminals and log sinks.
func FormatForDisplay(out Output) string {
	var b strings.Builder

	b.WriteString(displayRule + "\n")
	b.WriteString("                 EXPLAINABLE TRAFFIC ANALYSIS\n")
	b.WriteString(displayRule + "\n\n")

	b.WriteString("SUMMARY\n")
	b.WriteString(out.Summary + "\n\n")

	fmt.Fprintf(&b, "CONFIDENCE SCORE: %.0f%% (Grade: %s)\n", out.Confidence.Overall*100, out.Confidence.ReliabilityGrade)
	fmt.Fprintf(&b, "  Data Quality:       %.0f%%\n", out.Confidence.Components["data_quality"]*100)
	fmt.Fprintf(&b, "  Source Reliability: %.0f%%\n", out.Confidence.Components["source_reliability"]*100)
	fmt.Fprintf(&b, "  Pattern Match:      %.0f%%\n", out.Confidence.Components["pattern_match"]*100)
	fmt.Fprintf(&b, "  Data Recency:       %.0f%%\n", out.Confidence.Components["data_recency"]*100)
	b.WriteString("\n")

	b.WriteString("FACTOR ATTRIBUTION (why is this happening?):\n")
	for i, f := range out.Factors {
		if i >= 4 {
			break
		}
		fmt.Fprintf(&b, "  %-20s [%s] %.0f%%\n", f.Name, bar(f.ContributionPct), f.ContributionPct)
	}
	b.WriteString("\n")

	b.WriteString("EVIDENCE & SOURCES:\n")
	for i, s := range out.Evidence.Sources {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "  * [%s] %s (%s reliability)\n", s.Type, s.Source, s.Reliability)
	}
	b.WriteString("\n")

	b.WriteString("RECOMMENDATIONS:\n")
	for _, r := range out.Recommendations {
		fmt.Fprintf(&b, "  %s\n", r)
	}
	b.WriteString("\n")

	b.WriteString("UNCERTAINTY DISCLOSURE:\n")
	b.WriteString(out.UncertaintyDisclosure + "\n\n")

	fmt.Fprintf(&b, "Generated: %s\n", out.GeneratedAt.Format("2006-01-02 15:04:05"))
	b.WriteString(displayRule + "\n")

	return b.String()
}

// bar renders a 20-character text gauge for a 0-100 percentage.
func bar(pct float64) string {
	filled := int(pct / 5)
	if filled > 20 {
		filled = 20
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("#", filled) + strings.Repeat(".", 20-filled)
}
