// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/platform/middleware"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the account endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Mount registers the account routes directly on router, since they live at
// the API root (/api/register, /api/login, /api/me).
func (handler *Handler) Mount(router chi.Router) {
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.With(middleware.RequireAuth).Get("/me", handler.me)
}

/*
POST /api/register.

Request:
  - Body: RegisterInput (email, password, name)

Response:
  - 201: User
  - 400: Validation failure or duplicate email
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input RegisterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
POST /api/login.

Response:
  - 200: LoginResult
  - 401: Bad credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input LoginInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// GET /api/me.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Me(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
