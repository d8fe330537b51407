package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/serendip-ai/serendipity/internal/archive"
)

func TestMonthly(t *testing.T) {
	entries := []archive.Entry{
		{
			Body:      "Today holds something good for you.",
			Metadata:  []byte(`{"visual_element":"🌟"}`),
			CreatedAt: time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC),
		},
		{
			Body:      "Every small step counts.\nKeep walking.",
			CreatedAt: time.Date(2025, time.March, 15, 9, 0, 0, 0, time.UTC),
		},
	}

	got := Monthly(entries, 2025, time.March)

	assert.Contains(t, got, "# Daily Affirmations: March 2025")
	assert.Contains(t, got, "## Friday, March 14")
	assert.Contains(t, got, "> Today holds something good for you.")
	assert.Contains(t, got, "🌟")
	assert.Contains(t, got, "## Saturday, March 15")
	// Multi-line bodies are flattened so the quote block stays intact.
	assert.Contains(t, got, "> Every small step counts. Keep walking.")
}

func TestMonthly_NoEntries(t *testing.T) {
	got := Monthly(nil, 2025, time.April)

	assert.Contains(t, got, "# Daily Affirmations: April 2025")
	assert.Contains(t, got, "No affirmations were archived this month.")
}
