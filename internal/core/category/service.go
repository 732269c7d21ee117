// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

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

// Service exposes category use cases.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Input is the payload of POST /api/categories.
type Input struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (service *Service) ListCategories(context context.Context) ([]*Category, error) {
	return service.repo.List(context)
}

// FindOrCreate returns the category named input.Name, creating it if needed.
// An existing category keeps its description.
func (service *Service) FindOrCreate(context context.Context, claims *sec.AuthClaims, input Input) (*Category, bool, error) {
	if claims == nil {
		return nil, false, apperr.Unauthorized("Authentication required")
	}

	input.Name = strings.TrimSpace(input.Name)
	validator := &validate.Validator{}
	validator.Text(FieldName, input.Name, MaxNameLength)
	if err := validator.Err(); err != nil {
		return nil, false, err
	}

	category := &Category{
		ID:          uuid.New(),
		Name:        input.Name,
		Slug:        slug.FromOr(input.Name, "category"),
		Description: input.Description,
	}

	created, err := service.repo.FindOrCreate(context, category)
	if err != nil {
		return nil, false, err
	}

	if created {
		service.logger.Info("category_created", slog.String("category_id", category.ID), slog.String("name", category.Name))
	}
	return category, created, nil
}
