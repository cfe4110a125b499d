// Package parsers turns free-text completion output into typed values.
// Model replies that should be strict JSON often arrive wrapped in code
// fences or prose, so every parser here is best-effort and every caller
// must have a deterministic fallback.
package parsers

import (
	"encoding/json"
	"fmt"
	"strings"

	logx "github.com/tripflow/server/pkg/logger"
)

// maxContentLen guards against pathological model output.
const maxContentLen = 64 * 1024

// ExtractJSONObject locates the outermost JSON object in content and
// unmarshals it into dest.
func ExtractJSONObject(content string, dest any) error {
	if len(content) > maxContentLen {
		logx.Warn().Int("orig_len", len(content)).Msg("completion content truncated before JSON extraction")
		content = content[:maxContentLen]
	}

	content = stripCodeFences(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in content")
	}

	if err := json.Unmarshal([]byte(content[start:end+1]), dest); err != nil {
		return fmt.Errorf("unmarshal completion JSON: %w", err)
	}
	return nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// TripExtraction is the strict-JSON contract for travel slot extraction.
// Absent slots come back as empty strings.
type TripExtraction struct {
	Destination string `json:"destination"`
	Source      string `json:"source"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// ParseTripExtraction parses the slot-extraction reply.
func ParseTripExtraction(content string) (*TripExtraction, error) {
	var out TripExtraction
	if err := ExtractJSONObject(content, &out); err != nil {
		return nil, err
	}
	out.Destination = strings.TrimSpace(out.Destination)
	out.Source = strings.TrimSpace(out.Source)
	out.StartDate = strings.TrimSpace(out.StartDate)
	out.EndDate = strings.TrimSpace(out.EndDate)
	return &out, nil
}

// CodeResolution is the strict-JSON contract for lookup-code resolution.
type CodeResolution struct {
	SourceCode      string `json:"source_code"`
	DestinationCode string `json:"destination_code"`
}

// ParseCodeResolution parses the code-resolution reply.
func ParseCodeResolution(content string) (*CodeResolution, error) {
	var out CodeResolution
	if err := ExtractJSONObject(content, &out); err != nil {
		return nil, err
	}
	out.SourceCode = strings.TrimSpace(out.SourceCode)
	out.DestinationCode = strings.TrimSpace(out.DestinationCode)
	if out.SourceCode == "" || out.DestinationCode == "" {
		return nil, fmt.Errorf("code resolution incomplete")
	}
	return &out, nil
}

// ParseIntent normalizes an intent-classification reply to one of
// travel, weather, search or chat. Anything unrecognized is chat.
func ParseIntent(content string) string {
	v := strings.ToLower(strings.TrimSpace(content))
	v = strings.Trim(v, `"'.`)
	switch {
	case strings.Contains(v, "travel"):
		return "travel"
	case strings.Contains(v, "weather"):
		return "weather"
	case strings.Contains(v, "search"):
		return "search"
	default:
		return "chat"
	}
}

// ParsePlaceKind normalizes a country-vs-city classification reply.
// Anything that is not clearly "country" is treated as a city, which keeps
// the flow moving on malformed output.
func ParsePlaceKind(content string) string {
	v := strings.ToLower(strings.TrimSpace(content))
	v = strings.Trim(v, `"'.`)
	if strings.HasPrefix(v, "country") {
		return "country"
	}
	return "city"
}

// FirstLine extracts a single-value reply (e.g. a suggested city name)
// from possibly multi-line output.
func FirstLine(content string) string {
	content = strings.TrimSpace(stripCodeFences(content))
	if i := strings.IndexAny(content, "\r\n"); i >= 0 {
		content = content[:i]
	}
	return strings.Trim(strings.TrimSpace(content), `"'.`)
}
