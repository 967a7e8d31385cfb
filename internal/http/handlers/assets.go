package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pixremix/server/internal/domain"
	"github.com/pixremix/server/internal/metadata"
	"github.com/pixremix/server/internal/providers/gemini"
	"github.com/pixremix/server/internal/providers/mediacdn"
)

// Moderation kinds that block an upload. Verdicts for any other kind are
// deliberately ignored.
var blockedModerationKinds = []string{"explicit_content", "hate_symbols"}

type assetView struct {
	PublicID   string                 `json:"public_id"`
	URL        string                 `json:"url"`
	Folder     string                 `json:"folder,omitempty"`
	Width      int                    `json:"width,omitempty"`
	Height     int                    `json:"height,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	Tags       []string               `json:"tags,omitempty"`
	Descriptor domain.ImageDescriptor `json:"descriptor"`
}

func newAssetView(asset *mediacdn.Asset) assetView {
	return assetView{
		PublicID:   asset.PublicID,
		URL:        asset.BestURL(),
		Folder:     asset.Folder,
		Width:      asset.Width,
		Height:     asset.Height,
		CreatedAt:  asset.CreatedAt,
		Tags:       asset.Tags,
		Descriptor: assembleAsset(asset),
	}
}

// assembleAsset builds the canonical descriptor view for a stored asset,
// context fields outranking structured metadata.
func assembleAsset(asset *mediacdn.Asset) domain.ImageDescriptor {
	containers := []metadata.RawContainer{asset.Context, asset.Metadata}
	return metadata.Assemble(containers, asset.PublicID)
}

// ListAssets returns stored assets newest first, each with its assembled
// descriptor. Pagination is caller-driven via skip/limit.
func (a *App) ListAssets(w http.ResponseWriter, r *http.Request) {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	folder := strings.TrimSpace(r.URL.Query().Get("folder"))

	assets, err := a.CDN.ListAssets(r.Context(), mediacdn.ListParams{Folder: folder, Skip: skip, Limit: limit})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	items := make([]assetView, 0, len(assets))
	for i := range assets {
		items = append(items, newAssetView(&assets[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

type enrichRequest struct {
	AssetURL  string   `json:"asset_url"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags"`
	ParentIDs []string `json:"parent_ids"`
	Community string   `json:"community"`
}

// Enrich uploads the asset, rejects it on a blocking moderation verdict, runs
// the vision describe call, and writes the descriptor plus merged tags back
// onto the stored asset.
func (a *App) Enrich(w http.ResponseWriter, r *http.Request) {
	var req enrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.AssetURL) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "asset_url is required")
		return
	}

	asset, err := a.CDN.Upload(r.Context(), mediacdn.UploadParams{
		SourceURL:  req.AssetURL,
		Folder:     a.Config.UploadFolder,
		Tags:       metadata.MergeTags([][]string{req.Tags}, metadata.DefaultTagCap),
		Moderation: true,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if asset.RejectedFor(blockedModerationKinds...) {
		a.fail(w, r, domain.ErrPolicyRejected)
		return
	}

	updated, desc, err := a.enrichStoredAsset(r.Context(), asset, req)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	view := newAssetView(updated)
	view.Descriptor = desc
	a.json(w, http.StatusCreated, view)
}

// enrichStoredAsset runs the describe-merge-write cycle for one stored asset.
func (a *App) enrichStoredAsset(ctx context.Context, asset *mediacdn.Asset, req enrichRequest) (*mediacdn.Asset, domain.ImageDescriptor, error) {
	data, mime, err := a.CDN.FetchImage(ctx, asset.BestURL())
	if err != nil {
		return nil, domain.ImageDescriptor{}, err
	}

	desc, err := a.Vision.Describe(ctx, data, mime, gemini.Hints{Title: req.Title, Community: req.Community})
	if err != nil {
		return nil, domain.ImageDescriptor{}, err
	}
	d := *desc
	if title := strings.TrimSpace(req.Title); title != "" {
		d.Title = title
	}

	tags := metadata.MergeTags([][]string{req.Tags, d.Vibe, d.Objects, d.Scenes}, metadata.DefaultTagCap)
	fields := metadata.ContextFields(d)
	if community := strings.TrimSpace(req.Community); community != "" {
		fields["community"] = community
	}
	if len(req.ParentIDs) > 0 {
		fields["parentIds"] = strings.Join(req.ParentIDs, ", ")
	}

	updated, err := a.CDN.UpdateAsset(ctx, asset.PublicID, mediacdn.UpdateParams{Context: fields, Tags: tags})
	if err != nil {
		return nil, domain.ImageDescriptor{}, err
	}
	return updated, d, nil
}

type reingestRequest struct {
	Folder string `json:"folder"`
	Limit  int    `json:"limit"`
}

type reingestResult struct {
	PublicID string `json:"public_id"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
}

// Reingest re-runs enrichment over every stored asset in a folder. Fan-out is
// bounded by the configured concurrency cap with a per-call timeout, and one
// item failing never aborts its siblings.
func (a *App) Reingest(w http.ResponseWriter, r *http.Request) {
	var req reingestRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Limit <= 0 || req.Limit > 200 {
		req.Limit = 200
	}
	folder := strings.TrimSpace(req.Folder)
	if folder == "" {
		folder = a.Config.UploadFolder
	}

	assets, err := a.CDN.ListAssets(r.Context(), mediacdn.ListParams{Folder: folder, Limit: req.Limit})
	if err != nil {
		a.fail(w, r, err)
		return
	}

	results := make([]reingestResult, len(assets))
	eg := &errgroup.Group{}
	eg.SetLimit(a.Config.ReingestConcurrency)
	for i := range assets {
		i := i
		asset := assets[i]
		eg.Go(func() error {
			itemCtx, cancel := context.WithTimeout(r.Context(), a.Config.EnrichTimeout)
			defer cancel()

			title := metadata.Resolve(
				[]metadata.RawContainer{asset.Context, asset.Metadata},
				metadata.CandidateKeys("title"),
			)
			if _, _, err := a.enrichStoredAsset(itemCtx, &asset, enrichRequest{Title: title, Tags: asset.Tags}); err != nil {
				a.Logger.Warn().Err(err).Str("public_id", asset.PublicID).Msg("reingest: enrich failed")
				results[i] = reingestResult{PublicID: asset.PublicID, Status: "failed", Message: "enrich failed"}
				return nil
			}
			results[i] = reingestResult{PublicID: asset.PublicID, Status: "enriched"}
			return nil
		})
	}
	_ = eg.Wait()

	a.json(w, http.StatusOK, map[string]any{"items": results})
}
