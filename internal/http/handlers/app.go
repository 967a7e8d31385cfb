package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pixremix/server/internal/domain"
	"github.com/pixremix/server/internal/infra"
	"github.com/pixremix/server/internal/middleware"
	"github.com/pixremix/server/internal/providers/gemini"
	"github.com/pixremix/server/internal/providers/mediacdn"
	"github.com/pixremix/server/internal/remix"
)

// MediaStore is the slice of the media CDN client the handlers depend on.
type MediaStore interface {
	Upload(ctx context.Context, params mediacdn.UploadParams) (*mediacdn.Asset, error)
	UploadBytes(ctx context.Context, upload mediacdn.UploadData) (*mediacdn.Asset, error)
	ListAssets(ctx context.Context, params mediacdn.ListParams) ([]mediacdn.Asset, error)
	UpdateAsset(ctx context.Context, publicID string, params mediacdn.UpdateParams) (*mediacdn.Asset, error)
	FetchImage(ctx context.Context, imageURL string) ([]byte, string, error)
}

// Describer produces a descriptor from image bytes.
type Describer interface {
	Describe(ctx context.Context, data []byte, mime string, hints gemini.Hints) (*domain.ImageDescriptor, error)
}

// ImageGenerator produces the final remix image.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string, sources []gemini.SourceImage) ([]byte, string, error)
}

// App is the handler container; every collaborator is injected so the full
// pipeline runs against fakes in tests.
type App struct {
	Config   *infra.Config
	Logger   infra.Logger
	CDN      MediaStore
	Vision   Describer
	Synth    *remix.Synthesizer
	ImageGen ImageGenerator
}

func NewApp(cfg *infra.Config, logger infra.Logger, cdn MediaStore, vision Describer, synth *remix.Synthesizer, imageGen ImageGenerator) *App {
	return &App{
		Config:   cfg,
		Logger:   logger,
		CDN:      cdn,
		Vision:   vision,
		Synth:    synth,
		ImageGen: imageGen,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}

// fail maps a pipeline error onto the caller-facing envelope. Provider detail
// stays in the logs; callers only ever see the generic message for upstream
// failures.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	rid := middleware.RequestIDFromContext(r.Context())
	switch {
	case errors.Is(err, domain.ErrTooFewParents):
		a.error(w, http.StatusBadRequest, "bad_request", "at least two parents are required")
	case errors.Is(err, domain.ErrInvalidInput):
		a.error(w, http.StatusBadRequest, "bad_request", "invalid input")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "asset not found")
	case errors.Is(err, domain.ErrPolicyRejected):
		a.error(w, http.StatusUnprocessableEntity, "policy_rejected", "the image was rejected by content policy")
	case errors.Is(err, domain.ErrSchemaViolation):
		a.Logger.Error().Err(err).Str("request_id", rid).Msg("upstream schema violation")
		a.error(w, http.StatusBadGateway, "schema_violation", "upstream returned an invalid result")
	case errors.Is(err, domain.ErrProviderFailure):
		a.Logger.Error().Err(err).Str("request_id", rid).Msg("provider failure")
		a.error(w, http.StatusBadGateway, "provider_failure", "operation failed")
	default:
		a.Logger.Error().Err(err).Str("request_id", rid).Msg("unhandled error")
		a.error(w, http.StatusInternalServerError, "internal", "operation failed")
	}
}
