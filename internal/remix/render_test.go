package remix

import (
	"strings"
	"testing"

	"github.com/pixremix/server/internal/domain"
)

func validPlan() domain.RemixPlan {
	return domain.RemixPlan{
		Scene:       "A kite festival drifts over a harbor at dusk",
		Subject:     "a giant red kite",
		Setting:     "harbor boardwalk",
		Composition: "low angle, sweeping sky",
		Medium:      "digital painting",
		Realism:     "stylized",
		Lighting:    "golden hour",
		Palette:     "warm oranges and deep blues",
		MustInclude: []string{"red kite", "harbor", "boardwalk", "dusk sky"},
	}
}

func TestRenderPromptStrengthTiers(t *testing.T) {
	cases := []struct {
		strength float64
		want     string
	}{
		{0.549, "light remix"},
		{0.55, "creative remix"},
		{0.849, "creative remix"},
		{0.85, "highly remixed"},
		{0.0, "light remix"},
		{1.0, "highly remixed"},
	}
	for _, tc := range cases {
		got := RenderPrompt(validPlan(), domain.RemixStrength(tc.strength), "")
		if !strings.Contains(got, tc.want) {
			t.Fatalf("strength %.3f: prompt missing %q:\n%s", tc.strength, tc.want, got)
		}
	}
}

func TestRenderPromptClauseOrder(t *testing.T) {
	plan := validPlan()
	plan.RemixDirective = "Lean into motion blur"
	plan.StyleNotes = "grainy film texture"
	plan.Avoid = []string{"crowds"}

	got := RenderPrompt(plan, 0.6, "16:9")

	ordered := []string{
		plan.Scene,
		"creative remix",
		plan.RemixDirective,
		"Composition: " + plan.Composition,
		"Medium: " + plan.Medium,
		"Lighting: " + plan.Lighting,
		"Style notes: " + plan.StyleNotes,
		"Must clearly include: red kite",
		"Avoid: crowds",
		"No text, no watermark, no UI, no logos, no signatures.",
		"Compose for a 16:9 aspect ratio.",
	}
	last := -1
	for _, clause := range ordered {
		idx := strings.Index(got, clause)
		if idx < 0 {
			t.Fatalf("prompt missing clause %q:\n%s", clause, got)
		}
		if idx < last {
			t.Fatalf("clause %q out of order:\n%s", clause, got)
		}
		last = idx
	}
}

func TestRenderPromptOmitsEmptyClauses(t *testing.T) {
	got := RenderPrompt(validPlan(), 0.3, "")
	for _, absent := range []string{"Style notes:", "Avoid:", ".."} {
		if strings.Contains(got, absent) {
			t.Fatalf("prompt should omit %q:\n%s", absent, got)
		}
	}
	if !strings.Contains(got, "Compose for a 1:1 aspect ratio.") {
		t.Fatalf("default aspect directive missing:\n%s", got)
	}
}

func TestRenderPromptDedupesMustInclude(t *testing.T) {
	plan := validPlan()
	plan.MustInclude = []string{"Red Kite", "red kite", "harbor", "Harbor", "dusk", "sky"}
	got := RenderPrompt(plan, 0.3, "")
	if !strings.Contains(got, "Must clearly include: Red Kite, harbor, dusk, sky.") {
		t.Fatalf("must-include dedup failed:\n%s", got)
	}
	if strings.Count(strings.ToLower(got), "red kite,") != 1 {
		t.Fatalf("duplicate must-include survived:\n%s", got)
	}
}
