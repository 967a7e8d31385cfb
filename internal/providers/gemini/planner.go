package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/pixremix/server/internal/domain"
	"github.com/pixremix/server/internal/infra"
)

// Planner turns a synthesis instruction into a RemixPlan via a structured-
// output chat call. The response schema forbids additional properties and
// declares the list bounds; the caller revalidates the decoded plan anyway.
type Planner struct {
	client *genai.Client
	model  string
	logger *infra.Logger
}

const plannerSystemPrompt = "You are an art director who fuses several source images into one new, coherent scene. You never collage sources side by side. You always answer with a single JSON object matching the requested schema, nothing else."

func NewPlanner(client *genai.Client, model string, logger *infra.Logger) *Planner {
	model = strings.TrimSpace(model)
	if model == "" {
		model = defaultModel
	}
	if logger == nil {
		l := infra.NopLogger()
		logger = &l
	}
	return &Planner{client: client, model: model, logger: logger}
}

func (p *Planner) GeneratePlan(ctx context.Context, instruction string) (*domain.RemixPlan, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: plannerSystemPrompt}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    planSchema(),
		Temperature:       genai.Ptr[float32](0.7),
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(instruction), config)
	if err != nil {
		p.logger.Warn().Err(err).Str("model", p.model).Msg("gemini: plan call failed")
		return nil, fmt.Errorf("%w: plan synthesis", domain.ErrProviderFailure)
	}

	raw := firstText(resp)
	if raw == "" {
		return nil, fmt.Errorf("%w: planner returned no text", domain.ErrSchemaViolation)
	}
	var plan domain.RemixPlan
	if err := json.Unmarshal([]byte(extractJSONFragment(raw)), &plan); err != nil {
		p.logger.Warn().Err(err).Msg("gemini: plan payload not valid JSON")
		return nil, fmt.Errorf("%w: plan payload", domain.ErrSchemaViolation)
	}
	return &plan, nil
}

func planSchema() *genai.Schema {
	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"scene":          str(),
			"subject":        str(),
			"setting":        str(),
			"composition":    str(),
			"medium":         str(),
			"realism":        str(),
			"lighting":       str(),
			"palette":        str(),
			"styleNotes":     str(),
			"remixDirective": str(),
			"mustInclude": {
				Type:     genai.TypeArray,
				Items:    &genai.Schema{Type: genai.TypeString},
				MinItems: genai.Ptr[int64](domain.MinMustInclude),
				MaxItems: genai.Ptr[int64](domain.MaxMustInclude),
			},
			"avoid": {
				Type:     genai.TypeArray,
				Items:    &genai.Schema{Type: genai.TypeString},
				MaxItems: genai.Ptr[int64](domain.MaxAvoid),
			},
		},
		Required: []string{
			"scene", "subject", "setting", "composition",
			"medium", "realism", "lighting", "palette", "mustInclude",
		},
	}
}
