// internal/app/system/normalize/normalize.go
package normalize

import (
	"encoding/json"
	"strings"
)

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims display names.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Characteristics accepts either a JSON array of strings or a single
// comma-delimited string and normalizes both to a trimmed list with empty
// entries dropped. A nil/empty/null input yields nil.
func Characteristics(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, true
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return trimList(list), true
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return trimList(strings.Split(single, ",")), true
	}

	return nil, false
}

func trimList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
