package domain

// ImageDescriptor is the canonical metadata record for one stored image. It is
// a view assembled on every read of the provider's raw metadata, never a
// persisted row. Scalar fields are either trimmed non-empty strings or empty
// (absent); list fields never contain empty or whitespace-only entries.
type ImageDescriptor struct {
	Title           string `json:"title,omitempty"`
	Caption         string `json:"caption,omitempty"`
	AltText         string `json:"altText,omitempty"`
	Subject         string `json:"subject,omitempty"`
	Setting         string `json:"setting,omitempty"`
	Medium          string `json:"medium,omitempty"`
	Realism         string `json:"realism,omitempty"`
	Lighting        string `json:"lighting,omitempty"`
	Palette         string `json:"palette,omitempty"`
	Composition     string `json:"composition,omitempty"`
	Style           string `json:"style,omitempty"`
	SocialMediaType string `json:"socialMediaType,omitempty"`
	Trend           string `json:"trend,omitempty"`
	Feeling         string `json:"feeling,omitempty"`

	Vibe     []string `json:"vibe,omitempty"`
	Objects  []string `json:"objects,omitempty"`
	People   []string `json:"people,omitempty"`
	Scenes   []string `json:"scenes,omitempty"`
	MustKeep []string `json:"mustKeep,omitempty"`
}

// RemixParent references one source image contributing to a remix.
type RemixParent struct {
	URL        string           `json:"url"`
	Descriptor *ImageDescriptor `json:"descriptor,omitempty"`
}

// AnchorSet is an ordered set of at most ten terms that must stay visually
// recognizable when the owning image is remixed. Must-keep entries always
// precede derived entries.
type AnchorSet []string
