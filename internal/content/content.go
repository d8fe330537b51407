// Package content implements the generation service behind the Serendipity API:
// prompt construction, cache keying, response parsing, and fallback selection
// for every content kind.
package content

import (
	"context"
	"time"
)

// Kind identifies a type of generated content.
type Kind string

const (
	KindDailyAffirmation   Kind = "daily_affirmation"
	KindRandomFun          Kind = "random_fun"
	KindRiddle             Kind = "riddle"
	KindASCIIChallenge     Kind = "ascii_challenge"
	KindPersonalityInsight Kind = "personality_insight"
)

// Kinds lists every supported content kind.
func Kinds() []Kind {
	return []Kind{
		KindDailyAffirmation,
		KindRandomFun,
		KindRiddle,
		KindASCIIChallenge,
		KindPersonalityInsight,
	}
}

// Source describes where a response came from.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceCached    Source = "cached"
	SourceFallback  Source = "fallback"
)

// Request describes a single content generation request.
// Input is only meaningful for KindPersonalityInsight.
// A zero Date means "now".
type Request struct {
	Kind     Kind
	Input    string
	Language string
	Date     time.Time
}

// Response is the payload returned for every request. Text is never empty;
// when the upstream model is unavailable the service degrades to a static
// fallback payload instead of returning an error.
type Response struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Source   Source            `json:"source"`
}

// Record is an archived generation result.
type Record struct {
	Kind      Kind
	Language  string
	CacheKey  string
	Body      string
	Metadata  map[string]string
	Source    Source
	CreatedAt time.Time
}

// Recorder persists generated content for later reporting. Implementations
// are called best-effort after a successful generation; errors are logged
// and never surfaced to the caller.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// ValidationError reports invalid request input. It is the only error
// Generate returns; upstream failures are absorbed into fallback responses.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// personalityTypes is the static list served by /api/personality-types.
// "The Unique Soul" is also the parser's default when the model output
// contains no TYPE line.
var personalityTypes = []string{
	"The Creative Dreamer",
	"The Thoughtful Strategist",
	"The Radiant Optimist",
	"The Gentle Guardian",
	"The Curious Explorer",
	"The Steady Anchor",
	"The Unique Soul",
}

// PersonalityTypes returns the supported personality categories.
func PersonalityTypes() []string {
	types := make([]string, len(personalityTypes))
	copy(types, personalityTypes)
	return types
}
