// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package media accepts image uploads used as book covers.
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/constants"
	"github.com/taibuivan/folio/internal/platform/sec"
	"github.com/taibuivan/folio/internal/platform/storage"
	"github.com/taibuivan/folio/pkg/uuid"
)

// FieldFile is the multipart field carrying the upload.
const FieldFile = "file"

// KeyPrefix is where covers are stored in the bucket.
const KeyPrefix = "covers/"

// sniffLength is how many leading bytes content detection looks at.
const sniffLength = 512

// extensions maps each accepted sniffed type to its file extension.
var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Upload is the stored object as returned to the client.
type Upload struct {
	URL string `json:"url"`
}

// Service validates uploads and writes them to object storage.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewService constructs a new media [Service].
func NewService(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{storage: storage, logger: logger}
}

/*
Upload stores an image of size bytes read from body.

Description: The type is sniffed from the content, never taken from the
client. Only PNG, JPEG, WebP and GIF up to [constants.MaxUploadBytes] pass.
The object key is covers/{uuid}{ext}.
*/
func (service *Service) Upload(context context.Context, claims *sec.AuthClaims, body io.Reader, size int64) (*Upload, error) {
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	if size <= 0 {
		return nil, apperr.FieldInvalid(FieldFile, "File is empty")
	}
	if size > constants.MaxUploadBytes {
		return nil, apperr.FieldInvalid(FieldFile, fmt.Sprintf("File must be at most %d MiB", constants.MaxUploadBytes>>20))
	}

	head := make([]byte, sniffLength)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("media: failed to read upload: %w", err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	ext, allowed := extensions[contentType]
	if !allowed {
		return nil, apperr.FieldInvalid(FieldFile, "Only PNG, JPEG, WebP and GIF images are accepted")
	}

	key := KeyPrefix + uuid.New() + ext
	if err := service.storage.Put(context, key, contentType, io.MultiReader(bytes.NewReader(head), body), size); err != nil {
		return nil, err
	}

	service.logger.Info("media_uploaded",
		slog.String("key", key),
		slog.String("content_type", contentType),
		slog.Int64("size", size),
		slog.String("user_id", claims.UserID),
	)

	return &Upload{URL: service.storage.URL(key)}, nil
}
