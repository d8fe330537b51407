package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFallbackResponse(t *testing.T) {
	now := time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)

	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			resp := fallbackResponse(kind, now)
			assert.Equal(t, SourceFallback, resp.Source)
			assert.NotEmpty(t, resp.Text)

			if kind == KindDailyAffirmation {
				assert.Equal(t, "2025-03-14", resp.Metadata["date"])
			}
		})
	}
}

func TestFallbackResponse_DoesNotShareMetadata(t *testing.T) {
	now := time.Now()

	first := fallbackResponse(KindRandomFun, now)
	first.Metadata["mutated"] = "yes"

	second := fallbackResponse(KindRandomFun, now)
	assert.NotContains(t, second.Metadata, "mutated")
}
