// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/platform/middleware"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the /api/pages endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new page [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for the page resource.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.Get("/{id}/export", handler.export)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/", handler.create)
		protected.Put("/{id}", handler.update)
		protected.Delete("/{id}", handler.delete)
	})

	return router
}

/*
GET /api/pages?bookId=&chapterId=.

Response:
  - 200: []Page ordered by container and position
  - 400: Missing or malformed bookId
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	pages, err := handler.service.ListPages(request.Context(), Filter{
		BookID:    query.Get("bookId"),
		ChapterID: query.Get("chapterId"),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pages)
}

/*
GET /api/pages/{id}.

Response:
  - 200: Page with tags, author, book and chapter
  - 404: Page not found
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", "Page")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.GetPage(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, page)
}

// GET /api/pages/{id}/export. Answers text/markdown.
func (handler *Handler) export(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", "Page")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	markdown, err := handler.service.ExportMarkdown(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Markdown(writer, markdown)
}

/*
POST /api/pages.

Response:
  - 201: Page
  - 400: Validation failure, or a chapter outside the book
  - 404: Book not found
  - 409: Slug could not be claimed inside the book
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.CreatePage(request.Context(), requestutil.Claims(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, page)
}

/*
PUT /api/pages/{id}.

Response:
  - 200: Page
  - 403: Caller is not allowed to update this page
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", "Page")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.UpdatePage(request.Context(), requestutil.Claims(request), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, page)
}

// DELETE /api/pages/{id}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", "Page")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeletePage(request.Context(), requestutil.Claims(request), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
