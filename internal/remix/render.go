package remix

import (
	"fmt"
	"strings"

	"github.com/pixremix/server/internal/domain"
)

// Strength tier boundaries. The boundary values are contractual: 0.55 is
// already the creative tier and 0.85 is already the bold tier.
const (
	boldStrength     = 0.85
	creativeStrength = 0.55
)

const universalConstraints = "No text, no watermark, no UI, no logos, no signatures."

// RenderPrompt flattens a validated plan into the single natural-language
// prompt handed to the image model. Clause order is fixed and empty optional
// clauses are omitted entirely. aspectRatio defaults to "1:1" when empty.
func RenderPrompt(plan domain.RemixPlan, strength domain.RemixStrength, aspectRatio string) string {
	var clauses []string
	add := func(c string) {
		c = strings.TrimSpace(c)
		if c != "" {
			clauses = append(clauses, c)
		}
	}

	add(sceneClause(plan))
	add(strengthClause(strength))
	add(plan.RemixDirective)
	if c := strings.TrimSpace(plan.Composition); c != "" {
		add("Composition: " + c + ".")
	}
	add(pairClause("Medium", plan.Medium, "realism", plan.Realism))
	add(pairClause("Lighting", plan.Lighting, "palette", plan.Palette))
	if notes := strings.TrimSpace(plan.StyleNotes); notes != "" {
		add("Style notes: " + notes + ".")
	}
	if include := dedupeCaseInsensitive(plan.MustInclude); len(include) > 0 {
		add("Must clearly include: " + strings.Join(include, ", ") + ".")
	}
	if avoid := dedupeCaseInsensitive(plan.Avoid); len(avoid) > 0 {
		add("Avoid: " + strings.Join(avoid, ", ") + ".")
	}
	add(universalConstraints)
	if strings.TrimSpace(aspectRatio) == "" {
		aspectRatio = "1:1"
	}
	add(fmt.Sprintf("Compose for a %s aspect ratio.", strings.TrimSpace(aspectRatio)))

	return strings.Join(clauses, " ")
}

func sceneClause(plan domain.RemixPlan) string {
	var parts []string
	if scene := strings.TrimSpace(plan.Scene); scene != "" {
		parts = append(parts, strings.TrimRight(scene, "."))
	}
	if subject := strings.TrimSpace(plan.Subject); subject != "" {
		parts = append(parts, "Main subject: "+strings.TrimRight(subject, "."))
	}
	if setting := strings.TrimSpace(plan.Setting); setting != "" {
		parts = append(parts, "Setting: "+strings.TrimRight(setting, "."))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ". ") + "."
}

func strengthClause(strength domain.RemixStrength) string {
	switch {
	case float64(strength) >= boldStrength:
		return "This is a highly remixed reinterpretation: bold recomposition, dramatic reinvention of arrangement and framing."
	case float64(strength) >= creativeStrength:
		return "This is a creative remix: noticeable recomposition and scale shifts while staying true to the source elements."
	default:
		return "This is a light remix: subtle rearrangements that keep the sources clearly recognizable."
	}
}

func pairClause(labelA, a, labelB, b string) string {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	switch {
	case a != "" && b != "":
		return fmt.Sprintf("%s: %s, %s: %s.", labelA, a, labelB, b)
	case a != "":
		return fmt.Sprintf("%s: %s.", labelA, a)
	case b != "":
		return fmt.Sprintf("%s: %s.", capitalize(labelB), b)
	default:
		return ""
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// dedupeCaseInsensitive mirrors the tag-merger rule: trim, drop empties, and
// keep the first-seen casing of each case-insensitive duplicate.
func dedupeCaseInsensitive(items []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
