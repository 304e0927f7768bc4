// Package storage puts tournament archives in object storage.
package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key       string `json:"key"`
	Location  string `json:"location"`
	ETag      string `json:"etag,omitempty"`
	SizeBytes int64  `json:"sizeBytes"`
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader, size int64) (*UploadResult, error)

	GetPublicURL(key string) string
}
