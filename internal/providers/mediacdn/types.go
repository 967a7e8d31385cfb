package mediacdn

import "time"

// Asset is one stored image as returned by the media CDN API. Context and
// Metadata are the two raw field containers the descriptor assembler merges,
// context taking precedence.
type Asset struct {
	PublicID   string             `json:"public_id"`
	Folder     string             `json:"folder"`
	URL        string             `json:"url"`
	SecureURL  string             `json:"secure_url"`
	Format     string             `json:"format"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	Bytes      int64              `json:"bytes"`
	CreatedAt  time.Time          `json:"created_at"`
	Tags       []string           `json:"tags"`
	Context    map[string]any     `json:"context"`
	Metadata   map[string]any     `json:"metadata"`
	Moderation []ModerationResult `json:"moderation"`
}

// ModerationResult is one content-moderation verdict attached to an asset by
// the provider's scanning add-on.
type ModerationResult struct {
	Kind   string `json:"kind"`
	Status string `json:"status"`
}

const moderationRejected = "rejected"

// RejectedFor reports whether the asset carries a rejection for any of the
// given moderation kinds. Verdicts for other kinds are ignored.
func (a *Asset) RejectedFor(kinds ...string) bool {
	if a == nil {
		return false
	}
	for _, m := range a.Moderation {
		if m.Status != moderationRejected {
			continue
		}
		for _, kind := range kinds {
			if m.Kind == kind {
				return true
			}
		}
	}
	return false
}

// BestURL prefers the TLS delivery URL when the provider supplies one.
func (a *Asset) BestURL() string {
	if a == nil {
		return ""
	}
	if a.SecureURL != "" {
		return a.SecureURL
	}
	return a.URL
}

// UploadParams describes one remote-fetch upload.
type UploadParams struct {
	SourceURL  string            `json:"source_url"`
	Folder     string            `json:"folder,omitempty"`
	PublicID   string            `json:"public_id,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	Context    map[string]string `json:"context,omitempty"`
	Moderation bool              `json:"moderation,omitempty"`
}

// UploadData uploads raw bytes instead of fetching a remote URL.
type UploadData struct {
	Data     []byte
	MIME     string
	Folder   string
	PublicID string
	Tags     []string
	Context  map[string]string
}

// ListParams pages through stored assets, newest first.
type ListParams struct {
	Folder string
	Skip   int
	Limit  int
}

// UpdateParams replaces descriptive state on a stored asset. Nil fields are
// left untouched by the provider.
type UpdateParams struct {
	Context map[string]string `json:"context,omitempty"`
	Tags    []string          `json:"tags,omitempty"`
}
