package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"card-optimizer/internal/domain"
)

// ExtractJSON returns the JSON document inside a model reply. Markdown code fences are
// stripped and any prose around the outermost object or array is dropped.
func ExtractJSON(content string) (string, error) {
	s := cleanMarkdownWrapper(content)
	if json.Valid([]byte(s)) {
		return s, nil
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", domain.ErrNoJSON
	}
	closer := "}"
	if s[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(s, closer)
	if end <= start {
		return "", domain.ErrNoJSON
	}
	candidate := s[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", fmt.Errorf("%w: malformed block", domain.ErrNoJSON)
	}
	return candidate, nil
}

// DecodeJSON extracts the JSON document from content and unmarshals it into v.
func DecodeJSON(content string, v any) error {
	raw, err := ExtractJSON(content)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}

func cleanMarkdownWrapper(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
