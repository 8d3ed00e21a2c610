package validators

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseStringList accepts either a JSON array or a comma separated list,
// both of which the client sends depending on the view. Malformed JSON
// is a client error, not something to silently coerce.
func ParseStringList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}

	if strings.HasPrefix(raw, "[") {
		var out []string
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, fmt.Errorf("malformed list payload: %w", err)
		}
		return out, nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out, nil
}
