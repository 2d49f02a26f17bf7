package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"tour-booking-platform/internal/auth"
)

// Config represents backend API client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the backend REST API. It owns base-URL resolution,
// bearer-token injection, JSON (de)serialization and typed error
// raising; it never retries and never refreshes tokens on its own.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a backend API client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Options tweak a single request.
type Options struct {
	// BaseURL overrides the client base URL when non-nil. An empty
	// override means the path is used as-is (same-origin endpoints).
	BaseURL *string
	// SkipAuth suppresses the Authorization header even when a token
	// is present.
	SkipAuth bool
	// Multipart, when set, is sent instead of a JSON body.
	Multipart *MultipartPayload
}

// MultipartPayload is a raw multipart body with its content type.
type MultipartPayload struct {
	ContentType string
	Body        io.Reader
}

// Response is the decoded outcome of a request: the HTTP status and
// the raw payload bytes.
type Response struct {
	Status  int
	Payload []byte
}

// Do performs one request. The body, if non-nil, is JSON-encoded
// unless a multipart payload is supplied in opts. Non-2xx statuses
// come back as *Error carrying the status and the exact server
// payload; transport failures come back wrapped with no payload.
func (c *Client) Do(ctx context.Context, ac *auth.Context, method, path string, body any, opts *Options) (*Response, error) {
	if opts == nil {
		opts = &Options{}
	}

	url := c.resolveURL(path, opts)

	var reqBody io.Reader
	contentType := ""
	switch {
	case opts.Multipart != nil:
		reqBody = opts.Multipart.Body
		contentType = opts.Multipart.ContentType
	case body != nil:
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if ac.Authenticated() && !opts.SkipAuth {
		req.Header.Set("Authorization", "Bearer "+ac.SessionToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Status: resp.StatusCode, Payload: payload}
	}

	return &Response{Status: resp.StatusCode, Payload: payload}, nil
}

// DoJSON performs a request and decodes the response payload into out.
func (c *Client) DoJSON(ctx context.Context, ac *auth.Context, method, path string, body, out any, opts *Options) error {
	resp, err := c.Do(ctx, ac, method, path, body, opts)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Payload, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

func (c *Client) resolveURL(path string, opts *Options) string {
	base := c.baseURL
	if opts.BaseURL != nil {
		base = strings.TrimRight(*opts.BaseURL, "/")
	}
	if base == "" {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// NewMultipart builds a single-file multipart payload for upload
// endpoints.
func NewMultipart(fieldName, fileName string, file io.Reader) (*MultipartPayload, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(fieldName, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to copy file contents: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return &MultipartPayload{ContentType: writer.FormDataContentType(), Body: &buf}, nil
}
