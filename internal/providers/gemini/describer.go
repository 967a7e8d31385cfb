package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/pixremix/server/internal/domain"
	"github.com/pixremix/server/internal/infra"
	"github.com/pixremix/server/internal/metadata"
)

// Describer runs the vision-capable structured-output call that populates an
// ImageDescriptor from image bytes.
type Describer struct {
	client *genai.Client
	model  string
	logger *infra.Logger
}

const defaultModel = "gemini-2.5-flash"

func NewDescriber(client *genai.Client, model string, logger *infra.Logger) *Describer {
	model = strings.TrimSpace(model)
	if model == "" {
		model = defaultModel
	}
	if logger == nil {
		l := infra.NopLogger()
		logger = &l
	}
	return &Describer{client: client, model: model, logger: logger}
}

// Hints carries user-supplied context forwarded to the model.
type Hints struct {
	Title     string
	Community string
}

// Describe sends the image with the descriptor schema enforced by the
// provider's structured-output mode and returns the normalized descriptor.
func (d *Describer) Describe(ctx context.Context, data []byte, mime string, hints Hints) (*domain.ImageDescriptor, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrInvalidInput)
	}
	if mime == "" {
		mime = "image/jpeg"
	}

	parts := []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: mime, Data: data}},
		{Text: buildDescribePrompt(hints)},
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   descriptorSchema(),
		Temperature:      genai.Ptr[float32](0.4),
	}

	resp, err := d.client.Models.GenerateContent(ctx, d.model, contents, config)
	if err != nil {
		d.logger.Warn().Err(err).Str("model", d.model).Msg("vision: describe call failed")
		return nil, fmt.Errorf("%w: vision describe", domain.ErrProviderFailure)
	}

	raw := firstText(resp)
	if raw == "" {
		return nil, fmt.Errorf("%w: vision returned no text", domain.ErrSchemaViolation)
	}
	var desc domain.ImageDescriptor
	if err := json.Unmarshal([]byte(extractJSONFragment(raw)), &desc); err != nil {
		d.logger.Warn().Err(err).Msg("vision: descriptor payload not valid JSON")
		return nil, fmt.Errorf("%w: descriptor payload", domain.ErrSchemaViolation)
	}
	normalized := metadata.NormalizeDescriptor(desc)
	return &normalized, nil
}

func buildDescribePrompt(hints Hints) string {
	sb := &strings.Builder{}
	sb.WriteString("Describe this image for a remixable media library. ")
	sb.WriteString("Fill every field you can observe: a short title, a one-sentence caption, accessible alt text, the main subject, the setting, the medium, realism level, lighting, palette, composition, overall style, a plausible social media post type, any trend it evokes, and the feeling it conveys. ")
	sb.WriteString("List vibe words, concrete objects, people, and distinct scenes. ")
	sb.WriteString("Put the few elements that must survive any remix of this image into mustKeep.")
	if title := strings.TrimSpace(hints.Title); title != "" {
		fmt.Fprintf(sb, " The uploader titled it %q.", title)
	}
	if community := strings.TrimSpace(hints.Community); community != "" {
		fmt.Fprintf(sb, " It was posted to the %q community.", community)
	}
	return sb.String()
}

func descriptorSchema() *genai.Schema {
	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }
	list := func() *genai.Schema {
		return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":           str(),
			"caption":         str(),
			"altText":         str(),
			"subject":         str(),
			"setting":         str(),
			"medium":          str(),
			"realism":         str(),
			"lighting":        str(),
			"palette":         str(),
			"composition":     str(),
			"style":           str(),
			"socialMediaType": str(),
			"trend":           str(),
			"feeling":         str(),
			"vibe":            list(),
			"objects":         list(),
			"people":          list(),
			"scenes":          list(),
			"mustKeep":        list(),
		},
		Required: []string{"title", "caption", "altText", "subject", "setting", "vibe", "objects"},
	}
}
