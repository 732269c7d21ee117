// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/platform/middleware"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listTags)
	router.With(middleware.RequireAuth).Post("/", handler.findOrCreate)
}

func (handler *Handler) listTags(writer http.ResponseWriter, request *http.Request) {
	tags, err := handler.service.ListTags(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tags)
}

// findOrCreate answers 201 when the tag was created and 200 when it already existed.
func (handler *Handler) findOrCreate(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, created, err := handler.service.FindOrCreate(request.Context(), requestutil.Claims(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if created {
		respond.Created(writer, tag)
		return
	}
	respond.OK(writer, tag)
}
