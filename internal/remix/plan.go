package remix

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pixremix/server/internal/domain"
)

// MaxParents bounds how many parents a single plan considers. Extra parents
// are dropped in original list order; the truncation is documented behavior,
// not a silent inconsistency.
const MaxParents = 16

// Planner delegates the natural-language reasoning to an external model that
// must return JSON conforming to the RemixPlan schema.
type Planner interface {
	GeneratePlan(ctx context.Context, instruction string) (*domain.RemixPlan, error)
}

// ParentInput pairs a parent descriptor with its precomputed anchor set.
type ParentInput struct {
	Descriptor domain.ImageDescriptor
	Anchors    domain.AnchorSet
}

// PlanContext carries the free-text modifiers attached to a remix request.
type PlanContext struct {
	Adjectives  []string
	Communities []string
	Trends      []string
	ExtraPrompt string
}

// Synthesizer builds the planning instruction, runs the external planner, and
// enforces the plan schema locally so a malformed result surfaces as
// domain.ErrSchemaViolation instead of being patched downstream.
type Synthesizer struct {
	planner  Planner
	validate *validator.Validate
}

func NewSynthesizer(planner Planner) *Synthesizer {
	return &Synthesizer{
		planner:  planner,
		validate: validator.New(),
	}
}

func (s *Synthesizer) Synthesize(ctx context.Context, parents []ParentInput, pctx PlanContext, strength domain.RemixStrength) (*domain.RemixPlan, error) {
	if len(parents) < 2 {
		return nil, domain.ErrTooFewParents
	}
	if len(parents) > MaxParents {
		parents = parents[:MaxParents]
	}

	plan, err := s.planner.GeneratePlan(ctx, BuildPlanInstruction(parents, pctx, strength))
	if err != nil {
		return nil, err
	}
	if err := s.ValidatePlan(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// ValidatePlan checks a plan against the contractual schema bounds. Callers
// must treat a failure as a synthesis failure, never coerce the plan.
func (s *Synthesizer) ValidatePlan(plan *domain.RemixPlan) error {
	if plan == nil {
		return fmt.Errorf("%w: planner returned no plan", domain.ErrSchemaViolation)
	}
	if err := s.validate.Struct(plan); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSchemaViolation, err)
	}
	return nil
}

// BuildPlanInstruction renders the full natural-language instruction payload
// for the planning model. The directives are explicit: the result is a fusion
// of all parents rather than a collage, composition and scale are free, each
// parent contributes at least one recognizable anchor woven into the scene,
// exactly one unified medium/realism/lighting/palette is chosen, and the raw
// strength value is passed through so the model can scale its boldness.
func BuildPlanInstruction(parents []ParentInput, pctx PlanContext, strength domain.RemixStrength) string {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "Design one new, coherent scene that fuses %d source images into a single original composition.\n", len(parents))
	sb.WriteString("Rules:\n")
	sb.WriteString("- The result is a unified fusion, never a literal collage or side-by-side arrangement of the sources.\n")
	sb.WriteString("- You may freely change composition, perspective, and relative scale of any element.\n")
	sb.WriteString("- Every source must contribute at least one of its listed anchors, integrated into the scene narrative rather than enumerated.\n")
	sb.WriteString("- Choose exactly one unified medium, realism level, lighting scheme, and color palette, even when the sources conflict.\n")
	fmt.Fprintf(sb, "- remixStrength=%.2f on a 0..1 scale; higher means bolder departure from the sources.\n", float64(strength))

	for i, p := range parents {
		fmt.Fprintf(sb, "\nSource %d:\n", i+1)
		writeDescriptorLines(sb, p.Descriptor)
		if len(p.Anchors) > 0 {
			fmt.Fprintf(sb, "  anchors: %s\n", strings.Join(p.Anchors, ", "))
		}
	}

	if len(pctx.Adjectives) > 0 {
		fmt.Fprintf(sb, "\nDesired qualities: %s.\n", strings.Join(pctx.Adjectives, ", "))
	}
	if len(pctx.Communities) > 0 {
		fmt.Fprintf(sb, "Community aesthetics to honor: %s.\n", strings.Join(pctx.Communities, ", "))
	}
	if len(pctx.Trends) > 0 {
		fmt.Fprintf(sb, "Trends to lean into: %s.\n", strings.Join(pctx.Trends, ", "))
	}
	if extra := strings.TrimSpace(pctx.ExtraPrompt); extra != "" {
		fmt.Fprintf(sb, "Additional direction: %s\n", extra)
	}

	fmt.Fprintf(sb, "\nRespond with a JSON object only: scene, subject, setting, composition, medium, realism, lighting, palette, styleNotes, remixDirective as strings; mustInclude as %d-%d strings; avoid as 0-%d strings. No additional properties.\n",
		domain.MinMustInclude, domain.MaxMustInclude, domain.MaxAvoid)

	return sb.String()
}

func writeDescriptorLines(sb *strings.Builder, d domain.ImageDescriptor) {
	line := func(label, value string) {
		if v := strings.TrimSpace(value); v != "" {
			fmt.Fprintf(sb, "  %s: %s\n", label, v)
		}
	}
	line("title", d.Title)
	line("caption", d.Caption)
	line("subject", d.Subject)
	line("setting", d.Setting)
	line("style", d.Style)
	line("medium", d.Medium)
	line("lighting", d.Lighting)
	line("palette", d.Palette)
	line("feeling", d.Feeling)
	line("vibe", strings.Join(d.Vibe, ", "))
	line("objects", strings.Join(d.Objects, ", "))
	line("people", strings.Join(d.People, ", "))
	line("scenes", strings.Join(d.Scenes, ", "))
}
