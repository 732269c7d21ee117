// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/constants"
	"github.com/taibuivan/folio/internal/platform/middleware"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 64 << 10

// Handler implements POST /api/uploads.
type Handler struct {
	service *Service
}

// NewHandler constructs a new media [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for uploads.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)
	router.Post("/", handler.upload)
	return router
}

/*
POST /api/uploads (multipart/form-data, field "file").

Response:
  - 201: {"url": "..."}
  - 400: Missing file, unsupported type or too large
*/
func (handler *Handler) upload(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes+multipartOverhead)

	file, header, err := request.FormFile(FieldFile)
	if err != nil {
		respond.Error(writer, request, apperr.FieldInvalid(FieldFile, "A file of at most 5 MiB is required"))
		return
	}
	defer file.Close()

	upload, err := handler.service.Upload(request.Context(), requestutil.Claims(request), file, header.Size)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, upload)
}
