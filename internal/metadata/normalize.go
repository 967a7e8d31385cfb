package metadata

import (
	"strings"

	"github.com/pixremix/server/internal/domain"
)

// NormalizeDescriptor returns a copy of d with every scalar trimmed (empty
// after trim means absent) and every list passed through CoerceList, so
// provider-decoded descriptors satisfy the same invariants as assembled ones.
func NormalizeDescriptor(d domain.ImageDescriptor) domain.ImageDescriptor {
	trim := strings.TrimSpace
	return domain.ImageDescriptor{
		Title:           trim(d.Title),
		Caption:         trim(d.Caption),
		AltText:         trim(d.AltText),
		Subject:         trim(d.Subject),
		Setting:         trim(d.Setting),
		Medium:          trim(d.Medium),
		Realism:         trim(d.Realism),
		Lighting:        trim(d.Lighting),
		Palette:         trim(d.Palette),
		Composition:     trim(d.Composition),
		Style:           trim(d.Style),
		SocialMediaType: trim(d.SocialMediaType),
		Trend:           trim(d.Trend),
		Feeling:         trim(d.Feeling),
		Vibe:            CoerceList(d.Vibe),
		Objects:         CoerceList(d.Objects),
		People:          CoerceList(d.People),
		Scenes:          CoerceList(d.Scenes),
		MustKeep:        CoerceList(d.MustKeep),
	}
}
