// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/platform/middleware"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
)

// Handler implements the /api/chapters endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new chapter [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for the chapter resource.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/", handler.create)
		protected.Put("/{id}", handler.update)
		protected.Delete("/{id}", handler.delete)
	})

	return router
}

/*
GET /api/chapters?bookId=.

Response:
  - 200: []Chapter in position order
  - 400: Missing or malformed bookId
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	chapters, err := handler.service.ListChapters(request.Context(), request.URL.Query().Get("bookId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapters)
}

// GET /api/chapters/{id}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", "Chapter")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapter, err := handler.service.GetChapter(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapter)
}

/*
POST /api/chapters.

Response:
  - 201: Chapter
  - 404: Book not found
  - 409: Slug could not be claimed inside the book
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapter, err := handler.service.CreateChapter(request.Context(), requestutil.Claims(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, chapter)
}

// PUT /api/chapters/{id}.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", "Chapter")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapter, err := handler.service.UpdateChapter(request.Context(), requestutil.Claims(request), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapter)
}

// DELETE /api/chapters/{id}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", "Chapter")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteChapter(request.Context(), requestutil.Claims(request), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
