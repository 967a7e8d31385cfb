package mediacdn

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pixremix/server/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(Options{BaseURL: srv.URL, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, srv
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Options{APIKey: "k"}); err == nil {
		t.Fatal("expected error for missing base URL")
	}
	if _, err := NewClient(Options{BaseURL: "https://cdn.test"}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestUpload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/assets" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("Authorization = %q", got)
		}
		var params UploadParams
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if params.SourceURL != "https://example.com/src.png" || !params.Moderation {
			t.Fatalf("params = %+v", params)
		}
		_ = json.NewEncoder(w).Encode(Asset{PublicID: "library/new-1", SecureURL: "https://cdn.test/new-1.png"})
	}))

	asset, err := client.Upload(context.Background(), UploadParams{
		SourceURL:  "https://example.com/src.png",
		Folder:     "library",
		Moderation: true,
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if asset.PublicID != "library/new-1" {
		t.Fatalf("PublicID = %q", asset.PublicID)
	}
}

func TestUploadRequiresSourceURL(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))
	_, err := client.Upload(context.Background(), UploadParams{})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestUploadBytesEncodesBase64(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G'}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/assets/data" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["data"] != base64.StdEncoding.EncodeToString(payload) {
			t.Fatalf("data = %v", body["data"])
		}
		if body["mime"] != "image/png" {
			t.Fatalf("mime = %v", body["mime"])
		}
		_ = json.NewEncoder(w).Encode(Asset{PublicID: "remixes/r-1"})
	}))

	asset, err := client.UploadBytes(context.Background(), UploadData{Data: payload, MIME: "image/png", Folder: "remixes"})
	if err != nil {
		t.Fatalf("UploadBytes: %v", err)
	}
	if asset.PublicID != "remixes/r-1" {
		t.Fatalf("PublicID = %q", asset.PublicID)
	}
}

func TestListAssetsQuery(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("limit") != "5" || q.Get("skip") != "10" || q.Get("folder") != "library" {
			t.Fatalf("query = %v", q)
		}
		if q.Get("sort") != "created_at:desc" {
			t.Fatalf("sort = %q", q.Get("sort"))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": []Asset{{PublicID: "a"}, {PublicID: "b"}}})
	}))

	assets, err := client.ListAssets(context.Background(), ListParams{Folder: "library", Skip: 10, Limit: 5})
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(assets) != 2 || assets[0].PublicID != "a" {
		t.Fatalf("assets = %+v", assets)
	}
}

func TestUpdateAssetNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	_, err := client.UpdateAsset(context.Background(), "library/missing", UpdateParams{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateAssetEscapesPublicID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Fatalf("method = %q", r.Method)
		}
		if want := "/v1/assets/library%2Fkites-1"; r.URL.EscapedPath() != want {
			t.Fatalf("path = %q, want %q", r.URL.EscapedPath(), want)
		}
		_ = json.NewEncoder(w).Encode(Asset{PublicID: "library/kites-1"})
	}))
	if _, err := client.UpdateAsset(context.Background(), "library/kites-1", UpdateParams{Tags: []string{"kite"}}); err != nil {
		t.Fatalf("UpdateAsset: %v", err)
	}
}

func TestErrorStatusWrapsProviderFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
	}))
	_, err := client.ListAssets(context.Background(), ListParams{})
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("err = %v, want ErrProviderFailure", err)
	}
	if strings.Contains(err.Error(), "internal") {
		t.Fatalf("provider detail leaked into error: %v", err)
	}
}

func TestFetchImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/webp")
		_, _ = w.Write([]byte("webp-bytes"))
	}))
	defer srv.Close()

	client, _ := newTestClient(t, http.NotFoundHandler())
	data, mime, err := client.FetchImage(context.Background(), srv.URL+"/img")
	if err != nil {
		t.Fatalf("FetchImage: %v", err)
	}
	if string(data) != "webp-bytes" || mime != "image/webp" {
		t.Fatalf("data = %q mime = %q", data, mime)
	}
}

func TestFetchImageSniffsMIME(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	client, _ := newTestClient(t, http.NotFoundHandler())
	_, mime, err := client.FetchImage(context.Background(), srv.URL+"/photo.png")
	if err != nil {
		t.Fatalf("FetchImage: %v", err)
	}
	if mime != "image/png" {
		t.Fatalf("mime = %q, want image/png", mime)
	}
}

func TestFetchImageErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, http.NotFoundHandler())
	_, _, err := client.FetchImage(context.Background(), srv.URL+"/img")
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("err = %v, want ErrProviderFailure", err)
	}
}

func TestRejectedFor(t *testing.T) {
	asset := &Asset{Moderation: []ModerationResult{
		{Kind: "explicit_content", Status: "approved"},
		{Kind: "hate_symbols", Status: "rejected"},
	}}
	if !asset.RejectedFor("explicit_content", "hate_symbols") {
		t.Fatal("expected rejection for hate_symbols")
	}
	if asset.RejectedFor("explicit_content") {
		t.Fatal("approved verdict must not reject")
	}
}

func TestBestURLPrefersSecure(t *testing.T) {
	asset := &Asset{URL: "http://cdn.test/a.png", SecureURL: "https://cdn.test/a.png"}
	if got := asset.BestURL(); got != "https://cdn.test/a.png" {
		t.Fatalf("BestURL = %q", got)
	}
	asset.SecureURL = ""
	if got := asset.BestURL(); got != "http://cdn.test/a.png" {
		t.Fatalf("BestURL = %q", got)
	}
}
