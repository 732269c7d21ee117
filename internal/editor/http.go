// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package editor

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/platform/middleware"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the /api/drafts endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new editor [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for draft sessions. Every route is authenticated.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/", handler.open)
	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.capture)
	router.Post("/{id}/commit", handler.commit)
	router.Delete("/{id}", handler.release)

	return router
}

// CaptureInput is the payload of PUT /api/drafts/{id}.
type CaptureInput struct {
	Content json.RawMessage `json:"content"`
}

// CommitResult tells the client which entity received the document.
type CommitResult struct {
	TargetType TargetType `json:"targetType"`
	TargetID   string     `json:"targetId"`
}

/*
POST /api/drafts.

Response:
  - 201: Draft (new session seeded from stored content)
  - 200: Draft (the caller's session already open on this target)
  - 403: Caller may not edit the target
  - 404: Target not found
*/
func (handler *Handler) open(writer http.ResponseWriter, request *http.Request) {
	var input OpenInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	draft, created, err := handler.service.Open(request.Context(), requestutil.Claims(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if created {
		respond.Created(writer, draft)
		return
	}
	respond.OK(writer, draft)
}

// GET /api/drafts/{id}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.resume(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session.Draft())
}

// PUT /api/drafts/{id}. The body carries the full document, never a delta.
func (handler *Handler) capture(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.resume(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CaptureInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	draft, err := session.Capture(request.Context(), input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, draft)
}

/*
POST /api/drafts/{id}/commit.

Response:
  - 200: CommitResult
  - 400: The target rejected the document
  - 403: Caller may no longer edit the target
  - 404: Session not found or already released
*/
func (handler *Handler) commit(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.resume(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := session.Commit(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	draft := session.Draft()
	respond.OK(writer, CommitResult{TargetType: draft.TargetType, TargetID: draft.TargetID})
}

// DELETE /api/drafts/{id}. A second release answers 404.
func (handler *Handler) release(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.resume(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := session.Release(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) resume(request *http.Request) (*Session, error) {
	id, err := requestutil.ID(request, "id", "Draft")
	if err != nil {
		return nil, err
	}
	return handler.service.Resume(request.Context(), requestutil.Claims(request), id)
}
