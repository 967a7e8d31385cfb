package metadata

import (
	"encoding/json"
	"strings"
)

// CoerceList normalizes a raw list value into trimmed, non-empty entries with
// insertion order preserved. Accepted inputs are real arrays, JSON-array
// encoded strings, and comma-separated strings; everything else is absent.
//
// A string is only parsed as JSON when it is bracket-delimited, and a failed
// parse falls through to comma-splitting instead of raising. That leniency is
// deliberate legacy behavior: stored fields predate the JSON encoding and the
// reader has to accept both.
func CoerceList(raw any) []string {
	switch t := raw.(type) {
	case nil:
		return nil
	case []string:
		return trimEntries(t)
	case []any:
		entries := make([]string, 0, len(t))
		for _, e := range t {
			entries = append(entries, stringifyEntry(e))
		}
		return trimEntries(entries)
	case string:
		return coerceString(t)
	default:
		return nil
	}
}

func coerceString(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if delimited(s) {
		var arr []any
		if err := json.Unmarshal([]byte(s), &arr); err == nil {
			entries := make([]string, 0, len(arr))
			for _, e := range arr {
				entries = append(entries, stringifyEntry(e))
			}
			return trimEntries(entries)
		}
		// fall through to comma-splitting on parse failure
	}
	return trimEntries(strings.Split(s, ","))
}

func delimited(s string) bool {
	if len(s) < 2 {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return (first == '[' || first == '{') && (last == ']' || last == '}')
}

func trimEntries(entries []string) []string {
	var out []string
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

func stringifyEntry(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return stringify(v)
}
