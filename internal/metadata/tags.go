package metadata

import "strings"

// DefaultTagCap bounds the flat tag set persisted onto an asset.
const DefaultTagCap = 40

// MergeTags flattens the input lists in argument order, trims entries, drops
// empties, deduplicates case-insensitively keeping the first-seen casing, and
// truncates to cap entries. cap <= 0 means uncapped.
func MergeTags(lists [][]string, cap int) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, tag := range list {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			key := strings.ToLower(tag)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, tag)
			if cap > 0 && len(out) >= cap {
				return out
			}
		}
	}
	return out
}
