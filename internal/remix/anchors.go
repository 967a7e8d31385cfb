package remix

import (
	"strings"

	"github.com/pixremix/server/internal/domain"
)

const (
	maxAnchors       = 10
	maxObjectAnchors = 5
)

// ExtractAnchors computes the bounded anchor set for one parent descriptor.
// Explicit must-keep items always outrank derived signal: they come first and
// in order, followed by up to five objects, the leading vibe, and the leading
// person. Deduplication is case-sensitive on the trimmed value and the result
// never exceeds ten entries. The same descriptor always yields the same set.
func ExtractAnchors(d domain.ImageDescriptor) domain.AnchorSet {
	seen := make(map[string]struct{})
	var anchors domain.AnchorSet

	add := func(term string) {
		term = strings.TrimSpace(term)
		if term == "" {
			return
		}
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		anchors = append(anchors, term)
	}

	for _, term := range d.MustKeep {
		add(term)
	}
	for i, term := range d.Objects {
		if i >= maxObjectAnchors {
			break
		}
		add(term)
	}
	if len(d.Vibe) > 0 {
		add(d.Vibe[0])
	}
	if len(d.People) > 0 {
		add(d.People[0])
	}

	if len(anchors) > maxAnchors {
		anchors = anchors[:maxAnchors]
	}
	return anchors
}
