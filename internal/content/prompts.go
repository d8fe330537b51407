package content

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// SystemPrompt is sent with every completion request.
const SystemPrompt = "You are a creative, uplifting AI assistant that creates personalized, engaging content. Always be positive, inspiring, and add a touch of magic."

var visualElements = []string{"✨", "🌟", "🌅", "💫", "🔥", "🌈", "🦋", "🌸"}

var moodColors = []string{"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7", "#DDA0DD", "#98D8C8"}

// dateHash returns a short deterministic seed for a calendar date. It keeps
// the affirmation prompt stable within a day while still rolling over at
// midnight.
func dateHash(date time.Time) string {
	sum := md5.Sum([]byte(date.Format("2006-01-02")))
	return hex.EncodeToString(sum[:])[:8]
}

// inputHash normalizes free-text input (case and whitespace) and returns a
// short hash usable as a cache key component.
func inputHash(input string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(input), " "))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:16]
}

func timeOfDay(now time.Time) string {
	switch hour := now.Hour(); {
	case hour < 12:
		return "morning"
	case hour < 17:
		return "afternoon"
	default:
		return "evening"
	}
}

// visualForDate derives the emoji and mood color shown with an affirmation.
// Both are indexed from the date hash so every request on the same day gets
// the same visuals.
func visualForDate(date time.Time) (element, color string) {
	hash := dateHash(date)
	var first, second int
	fmt.Sscanf(hash[:2], "%x", &first)
	fmt.Sscanf(hash[2:4], "%x", &second)
	return visualElements[first%len(visualElements)], moodColors[second%len(moodColors)]
}

func buildAffirmationPrompt(language string, now time.Time) string {
	return fmt.Sprintf(`Create a deeply inspiring daily affirmation for a %s on %s.
Language: %s
Requirements:
- 2-3 sentences
- Uplifting, poetic, encouraging
- End with hope for the day ahead
Seed: %s`, timeOfDay(now), now.Weekday().String(), language, dateHash(now))
}

// funType is one of the rotating random-fun categories.
type funType struct {
	Name   string
	Emoji  string
	prompt string
}

var funTypes = []funType{
	{
		Name:   "joke",
		Emoji:  "😄",
		prompt: "Give one short, funny, family-friendly joke that anyone can understand. Keep it under 20 words.",
	},
	{
		Name:   "compliment",
		Emoji:  "💝",
		prompt: "Give one short, warm compliment about someone's character or kindness. Under 20 words.",
	},
	{
		Name:   "art",
		Emoji:  "🎨",
		prompt: "Describe one small imaginary art scene in 1-2 short sentences that is easy to picture.",
	},
}

func languageInstruction(language string) string {
	return fmt.Sprintf("Write in %s using simple, clear words.", language)
}

func buildFunPrompt(ft funType, language string) string {
	return languageInstruction(language) + " " + ft.prompt
}

func buildRiddlePrompt(language string) string {
	return fmt.Sprintf(`%s
Give one short, fun riddle for 5 to 20 age kids.
Output format:
QUESTION: [riddle text]
ANSWER: [answer text]
Keep both under 20 words.`, languageInstruction(language))
}

func buildASCIIChallengePrompt(language string) string {
	return fmt.Sprintf(`The answer must be in %[1]s.

Create a simple ASCII art puzzle for kids and young adults (ages 5-22).

Rules:
- Draw using only keyboard characters (|, _, /, \, (, ), *, etc.).
- Make it 3-6 lines tall and easy to recognize.
- The ASCII art should represent an animal, object, or simple scene.
- Keep it fun and not too detailed.
- After the ASCII art, write the correct answer in %[1]s.

Output format exactly:
ASCII:
[line1]
[line2]
[line3]
...
ANSWER: [short answer in %[1]s]

Example:
ASCII:
 |\_/|
 ( o.o )
 > ^ <
ANSWER: Cat`, language)
}

func buildInsightPrompt(input, language string) string {
	return fmt.Sprintf(`Based on this: "%s"
Give:
- 3-4 sentence personality insight
- A creative personality type name
- 3-4 key traits
Language: %s
Format:
INSIGHT: ...
TYPE: ...
TRAITS: ...`, input, language)
}

// confidenceScore estimates how much signal the input carries. Longer input
// raises confidence up to a 0.95 ceiling.
func confidenceScore(input string) float64 {
	score := 0.6 + float64(len(strings.Fields(input)))*0.05
	if score > 0.95 {
		score = 0.95
	}
	return score
}
