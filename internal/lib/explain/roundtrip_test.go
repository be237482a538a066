package explain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Serializing an analysis and reading it back must reproduce every field,
// including the component map and the evidence trail ordering.
func TestOutput_JSONRoundTrip(t *testing.T) {
	out := Analyze(eveningPeakInput())
	out.GeneratedAt = time.Date(2026, time.August, 25, 18, 30, 0, 0, time.UTC)

	raw, err := json.Marshal(out)
	require.NoError(t, err)

	var decoded Output
	require.NoError(t, json.Unmarshal(raw, &decoded))

	if diff := cmp.Diff(out, decoded); diff != "" {
		t.Errorf("round-trip mismatch (-original +decoded):\n%s", diff)
	}
}

func TestOutput_JSONFieldNames(t *testing.T) {
	out := Analyze(eveningPeakInput())

	raw, err := json.Marshal(out)
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))

	for _, key := range []string{
		"summary",
		"detailed_explanation",
		"confidence",
		"factor_attributions",
		"evidence",
		"recommendations",
		"uncertainty_disclosure",
		"timestamp",
	} {
		assert.Contains(t, m, key)
	}
}
