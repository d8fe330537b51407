package content

import (
	"strings"
)

// Parsing is best-effort throughout: when the model ignores the requested
// output format, the whole text is kept as-is and the structured fields keep
// their defaults.

// insightResult holds the structured fields extracted from a
// personality-insight completion.
type insightResult struct {
	Insight string
	Type    string
	Traits  []string
}

func parseInsight(text string) insightResult {
	result := insightResult{
		Insight: text,
		Type:    "The Unique Soul",
		Traits:  []string{"Creative", "Thoughtful", "Inspiring"},
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "INSIGHT:"):
			result.Insight = strings.TrimSpace(strings.TrimPrefix(line, "INSIGHT:"))
		case strings.HasPrefix(line, "TYPE:"):
			result.Type = strings.TrimSpace(strings.TrimPrefix(line, "TYPE:"))
		case strings.HasPrefix(line, "TRAITS:"):
			var traits []string
			for _, trait := range strings.Split(strings.TrimPrefix(line, "TRAITS:"), ",") {
				if trait = strings.TrimSpace(trait); trait != "" {
					traits = append(traits, trait)
				}
			}
			if len(traits) > 0 {
				if len(traits) > 4 {
					traits = traits[:4]
				}
				result.Traits = traits
			}
		}
	}

	return result
}

// parseRiddle splits a QUESTION:/ANSWER: formatted completion. When no
// QUESTION line is present the whole text becomes the question.
func parseRiddle(text string) (question, answer string) {
	question = strings.TrimSpace(text)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)
		if strings.HasPrefix(upper, "QUESTION:") {
			question = strings.TrimSpace(line[len("QUESTION:"):])
		} else if strings.HasPrefix(upper, "ANSWER:") {
			answer = strings.TrimSpace(line[len("ANSWER:"):])
		}
	}
	return question, answer
}

// parseASCIIChallenge extracts the drawing between the ASCII: marker and the
// ANSWER: line. Lines inside the drawing keep their leading whitespace.
func parseASCIIChallenge(text string) (art, answer string) {
	var lines []string
	capture := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.ToUpper(strings.TrimSpace(line))
		if strings.HasPrefix(trimmed, "ASCII:") {
			capture = true
			continue
		}
		if strings.HasPrefix(trimmed, "ANSWER:") {
			capture = false
			answer = strings.TrimSpace(strings.TrimSpace(line)[len("ANSWER:"):])
			continue
		}
		if capture {
			lines = append(lines, line)
		}
	}

	art = strings.Trim(strings.Join(lines, "\n"), "\n")
	if art == "" {
		art = strings.TrimSpace(text)
	}
	return art, answer
}
