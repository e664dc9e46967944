package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ParseResult is the outcome of decoding model output. Value is only
// meaningful when OK is true.
type ParseResult[T any] struct {
	Value T
	OK    bool
	Raw   string
}

// StripCodeFences removes a leading ```json or ``` fence and a trailing ```
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// ParseJSON decodes a JSON object out of model text. It accepts fenced
// output and, failing a direct decode, the outermost {...} span.
func ParseJSON[T any](text string) ParseResult[T] {
	result := ParseResult[T]{Raw: text}

	cleaned := StripCodeFences(text)
	if cleaned == "" {
		return result
	}

	var value T
	if err := json.Unmarshal([]byte(cleaned), &value); err == nil {
		result.Value = value
		result.OK = true
		return result
	}

	match := jsonObjectPattern.FindString(cleaned)
	if match == "" {
		return result
	}

	var fallback T
	if err := json.Unmarshal([]byte(match), &fallback); err != nil {
		return result
	}
	result.Value = fallback
	result.OK = true
	return result
}
