// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/platform/middleware"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
	"github.com/taibuivan/folio/pkg/pagination"
)

// Handler serves the actor's own activity history.
type Handler struct {
	repo Repository
}

// NewHandler constructs a new activity [Handler].
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// Routes returns a [chi.Router] for GET /api/activity.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)
	router.Get("/", handler.list)
	return router
}

/*
GET /api/activity.

Request:
  - page, limit: pagination

Response:
  - 200: []Entry, newest first
  - 401: Not authenticated
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	entries, total, err := handler.repo.ListByActor(request.Context(), actorID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, params.Meta(total))
}
