// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/platform/middleware"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
	"github.com/taibuivan/folio/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the /api/books endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new book [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for the book resource.
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
GET /api/books.

Request:
  - includeUnpublished: bool (honoured for authenticated callers only)
  - page, limit: pagination

Response:
  - 200: []Book ordered by position
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	books, total, err := handler.service.ListBooks(request.Context(),
		requestutil.Claims(request),
		requestutil.QueryBool(request, "includeUnpublished"),
		params.Limit, params.Offset(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, books, params.Meta(total))
}

/*
GET /api/books/{id}.

Response:
  - 200: Detail (book, author, chapters with pages, direct pages)
  - 404: Book not found
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", "Book")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.GetBook(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

/*
POST /api/books.

Response:
  - 201: Book
  - 400: Validation failure
  - 409: Slug could not be claimed
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.CreateBook(request.Context(), requestutil.Claims(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, book)
}

/*
PUT /api/books/{id}.

Response:
  - 200: Book
  - 403: Caller is not allowed to update this book
  - 404: Book not found
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", "Book")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.UpdateBook(request.Context(), requestutil.Claims(request), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

// DELETE /api/books/{id}. Answers 204 on success.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", "Book")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteBook(request.Context(), requestutil.Claims(request), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
