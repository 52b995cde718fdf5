// Package ai implements the action-orchestration core: intent
// classification, prompt construction, tool-call recovery, and the
// orchestrator that drives one chat turn.
package ai

import (
	"encoding/json"
	"strings"
)

// RecoveredCall is a tool invocation recovered from free-form model text.
type RecoveredCall struct {
	Tool string
	Args json.RawMessage
}

// ExtractToolCall recovers a structured tool request from model text.
// The pipeline runs in order, first success wins: strip code fences, direct
// parse, then the first balanced brace span. A false return means the model
// did not request a tool; that is expected output, not an error.
func ExtractToolCall(text string) (RecoveredCall, bool) {
	cleaned := stripFences(text)
	if cleaned == "" {
		return RecoveredCall{}, false
	}

	if call, ok := parseCall(cleaned); ok {
		return call, true
	}

	if span, ok := firstBraceSpan(cleaned); ok {
		if call, ok := parseCall(span); ok {
			return call, true
		}
	}

	return RecoveredCall{}, false
}

// stripFences removes markdown code-fence markers and surrounding
// whitespace.
func stripFences(text string) string {
	cleaned := text
	for _, marker := range []string{"```json", "```JSON", "```"} {
		cleaned = strings.ReplaceAll(cleaned, marker, "")
	}
	return strings.TrimSpace(cleaned)
}

// parseCall parses text as a tool invocation object. The argument payload
// may arrive under "input", "args", or "arguments"; the first present wins.
func parseCall(text string) (RecoveredCall, bool) {
	var payload struct {
		Tool      string          `json:"tool"`
		Input     json.RawMessage `json:"input"`
		Args      json.RawMessage `json:"args"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return RecoveredCall{}, false
	}
	if payload.Tool == "" {
		return RecoveredCall{}, false
	}

	args := payload.Input
	if args == nil {
		args = payload.Args
	}
	if args == nil {
		args = payload.Arguments
	}
	if args == nil {
		args = json.RawMessage(`{}`)
	}

	return RecoveredCall{Tool: payload.Tool, Args: args}, true
}

// firstBraceSpan returns the first balanced {...} span in text, tracking
// string literals so braces inside them do not count.
func firstBraceSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}
	return "", false
}
