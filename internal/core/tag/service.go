// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/sec"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/slug"
	"github.com/taibuivan/folio/pkg/uuid"
)

// Service exposes tag use cases.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Input is the payload of POST /api/tags.
type Input struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (service *Service) ListTags(context context.Context) ([]*Tag, error) {
	return service.repo.List(context)
}

// FindOrCreate returns the tag named input.Name, creating it first if needed.
func (service *Service) FindOrCreate(context context.Context, claims *sec.AuthClaims, input Input) (*Tag, bool, error) {
	if claims == nil {
		return nil, false, apperr.Unauthorized("Authentication required")
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Color == "" {
		input.Color = DefaultColor
	}

	validator := &validate.Validator{}
	validator.Text(FieldName, input.Name, MaxNameLength).
		Color(FieldColor, input.Color)
	if err := validator.Err(); err != nil {
		return nil, false, err
	}

	tag := &Tag{
		ID:    uuid.New(),
		Name:  input.Name,
		Slug:  slug.FromOr(input.Name, "tag"),
		Color: input.Color,
	}

	created, err := service.repo.FindOrCreate(context, tag)
	if err != nil {
		return nil, false, err
	}

	if created {
		service.logger.Info("tag_created", slog.String("tag_id", tag.ID), slog.String("name", tag.Name))
	}
	return tag, created, nil
}
