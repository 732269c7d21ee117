// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/platform/middleware"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
	"github.com/taibuivan/folio/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the /api/articles endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new article [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for the article resource.
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
GET /api/articles?page=&limit=.

Response:
  - 200: []Article (published only) with pagination meta
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	articles, total, err := handler.service.ListArticles(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, articles, params.Meta(total))
}

// GET /api/articles/{id}. Unpublished articles answer 404.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", "Article")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	article, err := handler.service.GetArticle(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, article)
}

/*
POST /api/articles.

Response:
  - 201: Article
  - 400: Missing title, content or category
  - 409: Slug could not be claimed
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	article, err := handler.service.CreateArticle(request.Context(), requestutil.Claims(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, article)
}

// PUT /api/articles/{id}.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", "Article")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	article, err := handler.service.UpdateArticle(request.Context(), requestutil.Claims(request), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, article)
}

// DELETE /api/articles/{id}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", "Article")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteArticle(request.Context(), requestutil.Claims(request), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
