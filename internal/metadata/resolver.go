package metadata

import (
	"fmt"
	"strings"
)

// RawContainer is one opaque mapping of provider field-name variants to raw
// values, as stored on the media provider. An asset usually carries two of
// them (context fields and structured metadata fields); callers decide the
// precedence by the order in which containers are passed.
type RawContainer map[string]any

// Resolve walks candidate keys in priority order, and for each key walks the
// containers in priority order, returning the first value whose stringified,
// trimmed form is non-empty. Missing keys, nils, empty strings and
// whitespace-only strings are all the same kind of absent.
func Resolve(containers []RawContainer, keys []string) string {
	for _, key := range keys {
		for _, c := range containers {
			if c == nil {
				continue
			}
			v, ok := c[key]
			if !ok {
				continue
			}
			s := strings.TrimSpace(stringify(v))
			if s != "" {
				return s
			}
		}
	}
	return ""
}

// ResolveRaw applies the same key/container precedence as Resolve but returns
// the raw value untouched, so list fields keep their original shape for
// CoerceList. A value is considered present when it coerces to at least one
// non-empty entry or stringifies to non-whitespace.
func ResolveRaw(containers []RawContainer, keys []string) any {
	for _, key := range keys {
		for _, c := range containers {
			if c == nil {
				continue
			}
			v, ok := c[key]
			if !ok || v == nil {
				continue
			}
			if rawPresent(v) {
				return v
			}
		}
	}
	return nil
}

func rawPresent(v any) bool {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t) != ""
	case []string:
		for _, e := range t {
			if strings.TrimSpace(e) != "" {
				return true
			}
		}
		return false
	case []any:
		for _, e := range t {
			if strings.TrimSpace(stringify(e)) != "" {
				return true
			}
		}
		return false
	default:
		return strings.TrimSpace(stringify(v)) != ""
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string, []any, map[string]any:
		// collections are not scalars; Resolve treats them as absent
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
