package review

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
)

// Concern is one row of the concerns table: a description plus a boolean
// flag per reviewer alias. The flags are taken on trust from the synthesis
// model's output and are not cross-validated against the review texts.
type Concern struct {
	Description string
	Flags       map[string]bool
}

// UnmarshalJSON splits the "concern" description from the per-reviewer
// boolean columns, whose key names are not known statically.
func (c *Concern) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	c.Flags = make(map[string]bool)
	for key, raw := range fields {
		if key == "concern" {
			if err := json.Unmarshal(raw, &c.Description); err != nil {
				return err
			}
			continue
		}
		var flag bool
		if err := json.Unmarshal(raw, &flag); err == nil {
			c.Flags[key] = flag
		}
	}
	return nil
}

var (
	taggedFencePattern = regexp.MustCompile("(?s)" + ConcernsMarker + ".*?```json\\s*(.*?)\\s*```")
	anyFencePattern    = regexp.MustCompile("(?s)" + ConcernsMarker + ".*?```\\s*(.*?)\\s*```")
	bareObjectPattern  = regexp.MustCompile(`(?s)\{\s*"concerns"\s*:\s*\[.*?\]\s*\}`)
)

// ExtractConcerns scans meta-review text for the embedded concerns table.
// Strategies are attempted in order, first match wins: the marker followed
// by a json-tagged fence, the marker followed by any fence, then the first
// object with a "concerns" key anywhere in the text. Parsing is best
// effort; any failure yields (nil, false), never an error.
func ExtractConcerns(raw string) ([]Concern, bool) {
	candidate, ok := findCandidate(raw)
	if !ok {
		return nil, false
	}
	candidate = stripMarker(candidate)

	var table struct {
		Concerns []Concern `json:"concerns"`
	}
	if err := json.Unmarshal([]byte(candidate), &table); err != nil {
		slog.Warn("failed to parse concerns table from meta-review", "error", err)
		return nil, false
	}
	if table.Concerns == nil {
		return nil, false
	}
	return table.Concerns, true
}

func findCandidate(raw string) (string, bool) {
	if m := taggedFencePattern.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}
	if m := anyFencePattern.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}
	if m := bareObjectPattern.FindString(raw); m != "" {
		return m, true
	}
	return "", false
}

// stripMarker removes residual marker-header text that models sometimes
// repeat inside the fenced block, leaving the JSON object itself.
func stripMarker(candidate string) string {
	idx := strings.Index(candidate, ConcernsMarker)
	if idx < 0 {
		return candidate
	}
	rest := candidate[idx+len(ConcernsMarker):]
	if brace := strings.IndexByte(rest, '{'); brace >= 0 {
		return rest[brace:]
	}
	return rest
}
