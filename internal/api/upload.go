package api

import (
	"context"
	"io"
	"net/http"

	"tour-booking-platform/internal/auth"
)

// UploadResponse carries the public URL of an uploaded media file.
type UploadResponse struct {
	URLs []string `json:"urls"`
}

// UploadMedia sends one file to the backend media endpoint as
// multipart form data and returns the stored URLs.
func (c *Client) UploadMedia(ctx context.Context, ac *auth.Context, fileName string, file io.Reader) (*UploadResponse, error) {
	payload, err := NewMultipart("files", fileName, file)
	if err != nil {
		return nil, err
	}

	var resp UploadResponse
	err = c.DoJSON(ctx, ac, http.MethodPost, "/media", nil, &resp, &Options{Multipart: payload})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
