// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jsonx recovers JSON values from model output. Models wrap JSON in
// markdown fences, leave trailing commas, and truncate long responses; the
// helpers here strip the wrapping, repair the commas, and fall back to the
// longest balanced leading value before giving up.
package jsonx

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

// Unmarshal decodes model output into v, tolerating code fences, prose
// around the value, trailing commas, and truncation.
func Unmarshal(raw string, v any) error {
	text := StripFences(raw)

	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}

	candidate := extractValue(text)
	if candidate == "" {
		return fmt.Errorf("no JSON value found in model output")
	}

	candidate = trailingComma.ReplaceAllString(candidate, "$1")
	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return fmt.Errorf("parsing repaired JSON: %w", err)
	}
	return nil
}

// StripFences removes a surrounding markdown code fence, with or without a
// language tag, and trims whitespace.
func StripFences(s string) string {
	text := strings.TrimSpace(s)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// extractValue returns the longest balanced JSON object or array starting
// at the first brace or bracket in text. For truncated input it returns the
// balanced prefix up to the last complete element, closing open containers.
func extractValue(text string) string {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return ""
	}

	var stack []byte
	inString := false
	escaped := false
	lastBalanced := -1
	// lastComplete tracks the position after the most recently closed
	// element, used to trim a truncated tail.
	lastComplete := start

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) == 0 {
				return text[start:i]
			}
			open := stack[len(stack)-1]
			if (c == '}' && open != '{') || (c == ']' && open != '[') {
				return ""
			}
			stack = stack[:len(stack)-1]
			lastComplete = i + 1
			if len(stack) == 0 {
				lastBalanced = i + 1
			}
		case ',':
			lastComplete = i
		}

		if lastBalanced > 0 {
			break
		}
	}

	if lastBalanced > 0 {
		return text[start:lastBalanced]
	}

	// Truncated: keep everything up to the last complete element and close
	// the containers still open.
	if len(stack) == 0 || lastComplete <= start {
		return ""
	}
	candidate := strings.TrimRight(text[start:lastComplete], ", \t\n\r")
	var closers strings.Builder
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			closers.WriteByte('}')
		} else {
			closers.WriteByte(']')
		}
	}
	return candidate + closers.String()
}
