package metadata

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pixremix/server/internal/domain"
)

// The provider has accumulated three naming conventions for the same logical
// fields: the canonical camelCase name, an "ai"-prefixed camelCase alias, and
// an "ai_"-prefixed snake_case alias. Rather than hand-written lookups per
// field, aliases are generated from the canonical name so the resolver stays
// generic and the precedence is uniform everywhere.
var scalarFields = []string{
	"caption",
	"subject",
	"setting",
	"medium",
	"realism",
	"lighting",
	"palette",
	"composition",
	"style",
	"socialMediaType",
	"trend",
	"feeling",
}

var listFields = []string{
	"vibe",
	"objects",
	"people",
	"scenes",
	"mustKeep",
}

const placeholderTitle = "Untitled image"

// CandidateKeys returns the lookup keys for a canonical field name, most
// authoritative first.
func CandidateKeys(field string) []string {
	keys := []string{field}
	if snake := toSnake(field); snake != field {
		keys = append(keys, snake)
	}
	keys = append(keys, "ai"+upperFirst(field), "ai_"+toSnake(field))
	return keys
}

// Assemble builds the canonical descriptor for one asset from its raw
// metadata containers, context fields first. assetPath is the provider
// storage path of the asset, used only for the derived-title fallback.
// Missing fields resolve to absent; assembly itself never fails.
func Assemble(containers []RawContainer, assetPath string) domain.ImageDescriptor {
	var d domain.ImageDescriptor
	scalars := make(map[string]string, len(scalarFields))
	for _, field := range scalarFields {
		scalars[field] = Resolve(containers, CandidateKeys(field))
	}

	d.Caption = scalars["caption"]
	d.Subject = scalars["subject"]
	d.Setting = scalars["setting"]
	d.Medium = scalars["medium"]
	d.Realism = scalars["realism"]
	d.Lighting = scalars["lighting"]
	d.Palette = scalars["palette"]
	d.Composition = scalars["composition"]
	d.Style = scalars["style"]
	d.SocialMediaType = scalars["socialMediaType"]
	d.Trend = scalars["trend"]
	d.Feeling = scalars["feeling"]

	d.Vibe = CoerceList(ResolveRaw(containers, CandidateKeys("vibe")))
	d.Objects = CoerceList(ResolveRaw(containers, CandidateKeys("objects")))
	d.People = CoerceList(ResolveRaw(containers, CandidateKeys("people")))
	d.Scenes = CoerceList(ResolveRaw(containers, CandidateKeys("scenes")))
	d.MustKeep = CoerceList(ResolveRaw(containers, CandidateKeys("mustKeep")))

	// title: human caption wins over a stored title, then a name derived from
	// the storage path, then the fixed placeholder
	d.Title = firstNonEmpty(
		d.Caption,
		Resolve(containers, CandidateKeys("title")),
		titleFromPath(assetPath),
		placeholderTitle,
	)

	d.AltText = firstNonEmpty(
		Resolve(containers, CandidateKeys("altText")),
		Resolve(containers, CandidateKeys("description")),
	)

	return d
}

// ContextFields renders a descriptor back into the flat string map persisted
// as the provider's context block, using only canonical field names. List
// fields are stored comma-joined, which CoerceList reads back unchanged.
func ContextFields(d domain.ImageDescriptor) map[string]string {
	out := make(map[string]string)
	put := func(key, val string) {
		val = strings.TrimSpace(val)
		if val != "" {
			out[key] = val
		}
	}
	put("title", d.Title)
	put("caption", d.Caption)
	put("altText", d.AltText)
	put("subject", d.Subject)
	put("setting", d.Setting)
	put("medium", d.Medium)
	put("realism", d.Realism)
	put("lighting", d.Lighting)
	put("palette", d.Palette)
	put("composition", d.Composition)
	put("style", d.Style)
	put("socialMediaType", d.SocialMediaType)
	put("trend", d.Trend)
	put("feeling", d.Feeling)
	put("vibe", strings.Join(d.Vibe, ", "))
	put("objects", strings.Join(d.Objects, ", "))
	put("people", strings.Join(d.People, ", "))
	put("scenes", strings.Join(d.Scenes, ", "))
	put("mustKeep", strings.Join(d.MustKeep, ", "))
	return out
}

func titleFromPath(assetPath string) string {
	base := path.Base(strings.TrimSpace(assetPath))
	if base == "." || base == "/" || base == "" {
		return ""
	}
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return ""
	}
	return cases.Title(language.Und).String(base)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
