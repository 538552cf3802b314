package jsonx

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractObject returns the first balanced {...} JSON object found in text.
// Model output often wraps JSON in prose or code fences, so plain
// json.Unmarshal on the raw text is not enough. Braces inside string
// literals (and escaped quotes inside those) are ignored while balancing.
func ExtractObject(text string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
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
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("no JSON object found")
}

// DecodeObject extracts the first balanced JSON object from text and
// unmarshals it into out.
func DecodeObject(text string, out any) error {
	raw, err := ExtractObject(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("parse extracted JSON: %w", err)
	}
	return nil
}

// CompactPreview trims s to at most n runes for log lines.
func CompactPreview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
