package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/pixremix/server/internal/domain"
	"github.com/pixremix/server/internal/infra"
)

// SourceImage is one conditioning image passed to the generation call.
type SourceImage struct {
	Data []byte
	MIME string
}

// Generator produces the final remix image from the rendered prompt plus the
// parent images as inline conditioning parts.
type Generator struct {
	client *genai.Client
	model  string
	logger *infra.Logger
}

const defaultImageModel = "gemini-2.5-flash-image"

func NewGenerator(client *genai.Client, model string, logger *infra.Logger) *Generator {
	model = strings.TrimSpace(model)
	if model == "" {
		model = defaultImageModel
	}
	if logger == nil {
		l := infra.NopLogger()
		logger = &l
	}
	return &Generator{client: client, model: model, logger: logger}
}

// Generate returns the produced image bytes and their MIME type.
func (g *Generator) Generate(ctx context.Context, prompt string, sources []SourceImage) ([]byte, string, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, "", fmt.Errorf("%w: empty prompt", domain.ErrInvalidInput)
	}

	var parts []*genai.Part
	for _, src := range sources {
		if len(src.Data) == 0 {
			continue
		}
		mime := src.MIME
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: mime, Data: src.Data}})
	}
	parts = append(parts, &genai.Part{Text: prompt})
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		g.logger.Warn().Err(err).Str("model", g.model).Msg("gemini: image generation failed")
		return nil, "", fmt.Errorf("%w: image generation", domain.ErrProviderFailure)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				return part.InlineData.Data, mime, nil
			}
		}
	}
	return nil, "", fmt.Errorf("%w: model returned no image", domain.ErrProviderFailure)
}
