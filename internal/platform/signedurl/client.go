package signedurl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
)

var (
	// ErrRequestFailed indicates the API could not be reached.
	ErrRequestFailed = errors.New("signed url request failed")

	// ErrInvalidResponse indicates the API answered with a body that is not
	// a {"url": ...} document.
	ErrInvalidResponse = errors.New("invalid signed url response")
)

// maxErrorBody caps how much of a failed response is kept in APIError.
const maxErrorBody = 4 << 10

// APIError is returned when the API answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("signed url api returned status %d: %s", e.StatusCode, e.Body)
}

type uploadRequest struct {
	FileKey     string `json:"fileKey"`
	ContentType string `json:"contentType"`
}

type urlResponse struct {
	URL string `json:"url"`
}

// Client talks to the signed-URL API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the API configured in cfg.
func NewClient(cfg config.AvatarConfig, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(cfg.SignedURLAPI)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid signed url api %q", cfg.SignedURLAPI)
	}

	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = cfg.RequestTimeout()

	return NewClientWithHTTP(cfg.SignedURLAPI, httpClient, logger), nil
}

// NewClientWithHTTP creates a client with a caller supplied http.Client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = cleanhttp.DefaultClient()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "signed_url_client")),
	}
}

// UploadURL requests a presigned URL the browser can PUT the avatar to.
// contentType must be a type/subtype MIME type.
func (c *Client) UploadURL(ctx context.Context, fileKey, contentType string) (string, error) {
	if fileKey == "" {
		return "", domain.NewValidationError("file_key", "cannot be empty", domain.ErrEmptyFileKey)
	}
	if !domain.IsMimeType(contentType) {
		return "", domain.NewValidationError("content_type", "must be type/subtype", domain.ErrInvalidMimeType)
	}

	endpoint, err := url.JoinPath(c.baseURL, "uploads")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	body, err := json.Marshal(uploadRequest{FileKey: fileKey, ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to encode upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(ctx, req, fileKey)
}

// DownloadURL requests a presigned URL the browser can GET the avatar from.
func (c *Client) DownloadURL(ctx context.Context, fileKey string) (string, error) {
	if fileKey == "" {
		return "", domain.NewValidationError("file_key", "cannot be empty", domain.ErrEmptyFileKey)
	}

	endpoint, err := url.JoinPath(c.baseURL, "uploads", url.PathEscape(fileKey))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	return c.do(ctx, req, fileKey)
}

func (c *Client) do(ctx context.Context, req *http.Request, fileKey string) (string, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("signed url request failed",
			slog.String("method", req.Method),
			slog.String("file_key", fileKey),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	log.Debug("signed url response",
		slog.String("method", req.Method),
		slog.String("file_key", fileKey),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out urlResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("%w: missing url", ErrInvalidResponse)
	}

	return out.URL, nil
}
