package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pixremix/server/internal/domain"
	"github.com/pixremix/server/internal/metadata"
	"github.com/pixremix/server/internal/providers/gemini"
	"github.com/pixremix/server/internal/providers/mediacdn"
	"github.com/pixremix/server/internal/remix"
)

type remixRequest struct {
	Parents       []domain.RemixParent `json:"parents"`
	Adjectives    []string             `json:"adjectives"`
	Communities   []string             `json:"communities"`
	Trends        []string             `json:"trends"`
	ExtraPrompt   string               `json:"extra_prompt"`
	RemixStrength *float64             `json:"remix_strength"`
	Size          string               `json:"size"`
}

type remixResponse struct {
	FinalPrompt string           `json:"final_prompt"`
	Plan        domain.RemixPlan `json:"plan"`
	ImageURL    string           `json:"image_url"`
	PublicID    string           `json:"public_id"`
}

// Remix fuses two or more parent images into one new image: anchors per
// parent, plan synthesis through the planner model, deterministic prompt
// rendering, then the generation call and persistence of the output.
func (a *App) Remix(w http.ResponseWriter, r *http.Request) {
	var req remixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	parents := make([]domain.RemixParent, 0, len(req.Parents))
	for _, p := range req.Parents {
		if strings.TrimSpace(p.URL) != "" {
			parents = append(parents, p)
		}
	}
	// insufficient parents is rejected before any external call
	if len(parents) < 2 {
		a.fail(w, r, domain.ErrTooFewParents)
		return
	}
	if len(parents) > remix.MaxParents {
		parents = parents[:remix.MaxParents]
	}

	strength := domain.DefaultRemixStrength
	if req.RemixStrength != nil {
		strength = domain.ClampStrength(*req.RemixStrength)
	}

	inputs := make([]remix.ParentInput, len(parents))
	for i, p := range parents {
		var d domain.ImageDescriptor
		if p.Descriptor != nil {
			d = metadata.NormalizeDescriptor(*p.Descriptor)
		}
		inputs[i] = remix.ParentInput{Descriptor: d, Anchors: remix.ExtractAnchors(d)}
	}

	plan, err := a.Synth.Synthesize(r.Context(), inputs, remix.PlanContext{
		Adjectives:  req.Adjectives,
		Communities: req.Communities,
		Trends:      req.Trends,
		ExtraPrompt: req.ExtraPrompt,
	}, strength)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	finalPrompt := remix.RenderPrompt(*plan, strength, req.Size)

	sources, err := a.fetchParentImages(r, parents)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	imageData, mime, err := a.ImageGen.Generate(r.Context(), finalPrompt, sources)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	desc := planDescriptor(*plan)
	stored, err := a.CDN.UploadBytes(r.Context(), mediacdn.UploadData{
		Data:     imageData,
		MIME:     mime,
		Folder:   a.Config.RemixFolder,
		PublicID: fmt.Sprintf("%s/remix-%s", a.Config.RemixFolder, uuid.NewString()),
		Tags:     metadata.MergeTags([][]string{plan.MustInclude, req.Communities, req.Trends}, metadata.DefaultTagCap),
		Context:  metadata.ContextFields(desc),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.json(w, http.StatusCreated, remixResponse{
		FinalPrompt: finalPrompt,
		Plan:        *plan,
		ImageURL:    stored.BestURL(),
		PublicID:    stored.PublicID,
	})
}

// fetchParentImages downloads parent bytes in parallel, bounded by the
// configured concurrency cap. Any failed download fails the remix: the
// generation call needs every parent to honor its anchors.
func (a *App) fetchParentImages(r *http.Request, parents []domain.RemixParent) ([]gemini.SourceImage, error) {
	sources := make([]gemini.SourceImage, len(parents))
	eg, ctx := errgroup.WithContext(r.Context())
	eg.SetLimit(a.Config.ReingestConcurrency)
	for i, p := range parents {
		i, p := i, p
		eg.Go(func() error {
			data, mime, err := a.CDN.FetchImage(ctx, p.URL)
			if err != nil {
				return err
			}
			sources[i] = gemini.SourceImage{Data: data, MIME: mime}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}

// planDescriptor derives the descriptor persisted on a generated remix from
// its plan, so remix outputs are first-class members of the library.
func planDescriptor(plan domain.RemixPlan) domain.ImageDescriptor {
	return metadata.NormalizeDescriptor(domain.ImageDescriptor{
		Title:       plan.Subject,
		Caption:     plan.Scene,
		AltText:     plan.Scene,
		Subject:     plan.Subject,
		Setting:     plan.Setting,
		Medium:      plan.Medium,
		Realism:     plan.Realism,
		Lighting:    plan.Lighting,
		Palette:     plan.Palette,
		Composition: plan.Composition,
		Style:       plan.StyleNotes,
		Objects:     plan.MustInclude,
		MustKeep:    plan.MustInclude,
	})
}
