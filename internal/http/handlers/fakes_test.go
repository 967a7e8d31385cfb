package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/pixremix/server/internal/domain"
	"github.com/pixremix/server/internal/infra"
	"github.com/pixremix/server/internal/providers/gemini"
	"github.com/pixremix/server/internal/providers/mediacdn"
	"github.com/pixremix/server/internal/remix"
)

type fakeStore struct {
	uploadAsset   *mediacdn.Asset
	uploadErr     error
	uploadParams  []mediacdn.UploadParams
	uploadedBytes []mediacdn.UploadData
	bytesAsset    *mediacdn.Asset
	bytesErr      error
	listAssets    []mediacdn.Asset
	listErr       error
	updated       *mediacdn.Asset
	updateErr     error
	updateParams  []mediacdn.UpdateParams
	fetchErr      map[string]error
	fetchCalls    int
}

var _ MediaStore = (*fakeStore)(nil)

func (f *fakeStore) Upload(_ context.Context, params mediacdn.UploadParams) (*mediacdn.Asset, error) {
	f.uploadParams = append(f.uploadParams, params)
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return f.uploadAsset, nil
}

func (f *fakeStore) UploadBytes(_ context.Context, upload mediacdn.UploadData) (*mediacdn.Asset, error) {
	f.uploadedBytes = append(f.uploadedBytes, upload)
	if f.bytesErr != nil {
		return nil, f.bytesErr
	}
	return f.bytesAsset, nil
}

func (f *fakeStore) ListAssets(_ context.Context, _ mediacdn.ListParams) ([]mediacdn.Asset, error) {
	return f.listAssets, f.listErr
}

func (f *fakeStore) UpdateAsset(_ context.Context, publicID string, params mediacdn.UpdateParams) (*mediacdn.Asset, error) {
	f.updateParams = append(f.updateParams, params)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updated != nil {
		return f.updated, nil
	}
	return &mediacdn.Asset{PublicID: publicID, SecureURL: "https://cdn.test/" + publicID, Tags: params.Tags}, nil
}

func (f *fakeStore) FetchImage(_ context.Context, imageURL string) ([]byte, string, error) {
	f.fetchCalls++
	if err := f.fetchErr[imageURL]; err != nil {
		return nil, "", err
	}
	return []byte("img-bytes"), "image/png", nil
}

type fakeDescriber struct {
	desc  *domain.ImageDescriptor
	err   error
	calls int
}

var _ Describer = (*fakeDescriber)(nil)

func (f *fakeDescriber) Describe(_ context.Context, _ []byte, _ string, _ gemini.Hints) (*domain.ImageDescriptor, error) {
	f.calls++
	return f.desc, f.err
}

type fakeGenerator struct {
	data  []byte
	mime  string
	err   error
	calls int
}

var _ ImageGenerator = (*fakeGenerator)(nil)

func (f *fakeGenerator) Generate(_ context.Context, _ string, _ []gemini.SourceImage) ([]byte, string, error) {
	f.calls++
	return f.data, f.mime, f.err
}

type fakePlanner struct {
	plan  *domain.RemixPlan
	err   error
	calls int
}

func (f *fakePlanner) GeneratePlan(_ context.Context, _ string) (*domain.RemixPlan, error) {
	f.calls++
	return f.plan, f.err
}

func testConfig() *infra.Config {
	return &infra.Config{
		AppEnv:              "test",
		UploadFolder:        "library",
		RemixFolder:         "remixes",
		ReingestConcurrency: 2,
		EnrichTimeout:       5 * time.Second,
	}
}

func testApp(store *fakeStore, vision *fakeDescriber, planner *fakePlanner, gen *fakeGenerator) *App {
	return NewApp(testConfig(), infra.NopLogger(), store, vision, remix.NewSynthesizer(planner), gen)
}

func testPlan() *domain.RemixPlan {
	return &domain.RemixPlan{
		Scene:       "A kite festival drifts over a harbor at dusk",
		Subject:     "a giant red kite",
		Setting:     "harbor boardwalk",
		Composition: "low angle",
		Medium:      "digital painting",
		Realism:     "stylized",
		Lighting:    "golden hour",
		Palette:     "warm oranges",
		MustInclude: []string{"red kite", "harbor", "boardwalk", "dusk sky"},
	}
}

func testDescriptor() *domain.ImageDescriptor {
	return &domain.ImageDescriptor{
		Title:   "Harbor Kites",
		Caption: "Kites over the harbor",
		AltText: "A photo of kites flying over a harbor",
		Subject: "kites",
		Setting: "harbor",
		Vibe:    []string{"breezy"},
		Objects: []string{"kite", "pier"},
		Scenes:  []string{"harbor"},
	}
}

func storedAsset(publicID string) *mediacdn.Asset {
	return &mediacdn.Asset{
		PublicID:  publicID,
		SecureURL: fmt.Sprintf("https://cdn.test/%s.png", publicID),
		Folder:    "library",
		Width:     1024,
		Height:    768,
		CreatedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}
