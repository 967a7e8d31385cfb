package mediacdn

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pixremix/server/internal/domain"
	"github.com/pixremix/server/internal/infra"
)

const (
	defaultTimeout  = 30 * time.Second
	maxImageBytes   = 24 << 20
	defaultPageSize = 20
)

// Options configures the media CDN client.
type Options struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client talks to the media CDN REST API: remote-fetch uploads with optional
// moderation, asset listing, and metadata writes. All failures are wrapped in
// domain.ErrProviderFailure; the raw provider detail is logged, never
// returned to callers verbatim.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *infra.Logger
}

func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("mediacdn: base URL is required")
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("mediacdn: api key is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	logger := opts.Logger
	if logger == nil {
		l := infra.NopLogger()
		logger = &l
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(opts.APIKey),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Upload asks the provider to fetch and store the image at params.SourceURL.
func (c *Client) Upload(ctx context.Context, params UploadParams) (*Asset, error) {
	if strings.TrimSpace(params.SourceURL) == "" {
		return nil, fmt.Errorf("%w: source url is required", domain.ErrInvalidInput)
	}
	var asset Asset
	if err := c.do(ctx, http.MethodPost, "/v1/assets", params, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// UploadBytes stores raw image bytes, base64-encoded in the request body.
func (c *Client) UploadBytes(ctx context.Context, upload UploadData) (*Asset, error) {
	if len(upload.Data) == 0 {
		return nil, fmt.Errorf("%w: image data is required", domain.ErrInvalidInput)
	}
	body := map[string]any{
		"data":      base64.StdEncoding.EncodeToString(upload.Data),
		"mime":      upload.MIME,
		"folder":    upload.Folder,
		"public_id": upload.PublicID,
		"tags":      upload.Tags,
		"context":   upload.Context,
	}
	var asset Asset
	if err := c.do(ctx, http.MethodPost, "/v1/assets/data", body, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// ListAssets pages through stored assets, newest first.
func (c *Client) ListAssets(ctx context.Context, params ListParams) ([]Asset, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("sort", "created_at:desc")
	if params.Skip > 0 {
		q.Set("skip", strconv.Itoa(params.Skip))
	}
	if folder := strings.TrimSpace(params.Folder); folder != "" {
		q.Set("folder", folder)
	}
	var out struct {
		Items []Asset `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/assets?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// UpdateAsset writes context fields and the replacement tag set back onto a
// stored asset.
func (c *Client) UpdateAsset(ctx context.Context, publicID string, params UpdateParams) (*Asset, error) {
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return nil, fmt.Errorf("%w: public id is required", domain.ErrInvalidInput)
	}
	var asset Asset
	path := "/v1/assets/" + url.PathEscape(publicID)
	if err := c.do(ctx, http.MethodPatch, path, params, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// FetchImage downloads image bytes from a delivery URL, bounded at
// maxImageBytes, returning the bytes and the reported content type.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: build image fetch: %v", domain.ErrProviderFailure, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", imageURL).Msg("mediacdn: image fetch failed")
		return nil, "", fmt.Errorf("%w: image fetch", domain.ErrProviderFailure)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		c.logger.Warn().Int("status", resp.StatusCode).Str("url", imageURL).Msg("mediacdn: image fetch returned error status")
		return nil, "", fmt.Errorf("%w: image fetch status %d", domain.ErrProviderFailure, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: read image body", domain.ErrProviderFailure)
	}
	if len(data) > maxImageBytes {
		return nil, "", fmt.Errorf("%w: image exceeds %d bytes", domain.ErrInvalidInput, maxImageBytes)
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" || strings.HasPrefix(mime, "application/octet-stream") {
		mime = sniffImageMIME(imageURL)
	}
	return data, mime, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("%w: encode request: %v", domain.ErrProviderFailure, err)
		}
		reader = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrProviderFailure, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("mediacdn: request failed")
		return fmt.Errorf("%w: media cdn unreachable", domain.ErrProviderFailure)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("method", method).
			Str("path", path).
			Str("detail", string(detail)).
			Msg("mediacdn: error response")
		return fmt.Errorf("%w: media cdn status %d", domain.ErrProviderFailure, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrProviderFailure, err)
	}
	return nil
}

func sniffImageMIME(imageURL string) string {
	lower := strings.ToLower(imageURL)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
