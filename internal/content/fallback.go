package content

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Fallback payloads are pre-authored content returned when the upstream
// model is unreachable or produced unusable output. They live in an embedded
// YAML file so the served defaults can be reviewed and edited without
// touching code.

//go:embed fallbacks.yml
var fallbacksYAML []byte

type fallbackPayload struct {
	Text     string            `yaml:"text"`
	Metadata map[string]string `yaml:"metadata"`
}

var fallbackPayloads = mustLoadFallbacks()

func mustLoadFallbacks() map[Kind]fallbackPayload {
	payloads := map[Kind]fallbackPayload{}
	if err := yaml.Unmarshal(fallbacksYAML, &payloads); err != nil {
		panic(fmt.Sprintf("invalid embedded fallbacks.yml: %v", err))
	}
	for _, kind := range Kinds() {
		if payloads[kind].Text == "" {
			panic(fmt.Sprintf("embedded fallbacks.yml is missing a payload for %q", kind))
		}
	}
	return payloads
}

// fallbackResponse returns the static payload for a kind. Fallback responses
// are never cached.
func fallbackResponse(kind Kind, now time.Time) Response {
	payload := fallbackPayloads[kind]

	metadata := make(map[string]string, len(payload.Metadata)+1)
	for k, v := range payload.Metadata {
		metadata[k] = v
	}
	if kind == KindDailyAffirmation {
		metadata["date"] = now.Format("2006-01-02")
	}

	return Response{
		Text:     payload.Text,
		Metadata: metadata,
		Source:   SourceFallback,
	}
}
