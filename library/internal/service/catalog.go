package service

import (
	"context"
	"strings"

	"github.com/Astemirdum/school-library/library/internal/errs"
	"github.com/Astemirdum/school-library/library/internal/model"
	"github.com/Astemirdum/school-library/pkg/paging"
)

func (s *Service) AddCatalog(ctx context.Context, req model.AddCatalogRequest) (model.CatalogItem, error) {
	req = trimCatalog(req)
	if err := s.validate(req); err != nil {
		return model.CatalogItem{}, err
	}
	return s.repo.CreateCatalog(ctx, model.CatalogItem{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		Publisher:       req.Publisher,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.TotalCopies,
	})
}

func (s *Service) GetCatalog(ctx context.Context, id int64) (model.CatalogItem, error) {
	if id <= 0 {
		return model.CatalogItem{}, errs.Invalid("catalogId must be positive, got %d", id)
	}
	return s.repo.GetCatalog(ctx, id)
}

func (s *Service) ListCatalogs(ctx context.Context, page, size int) (model.ListCatalogs, error) {
	w := paging.Normalize(page, size)
	items, total, err := s.repo.ListCatalogs(ctx, w)
	if err != nil {
		return model.ListCatalogs{}, err
	}
	return model.ListCatalogs{
		Items:      items,
		Pagination: w.Summarize(total),
	}, nil
}

// EditCatalog replaces the item metadata. The available count is reset to
// the new total, as the catalog admin flow always did.
func (s *Service) EditCatalog(ctx context.Context, id int64, req model.EditCatalogRequest) (model.CatalogItem, error) {
	if id <= 0 {
		return model.CatalogItem{}, errs.Invalid("catalogId must be positive, got %d", id)
	}
	req = trimCatalog(req)
	if err := s.validate(req); err != nil {
		return model.CatalogItem{}, err
	}
	return s.repo.UpdateCatalog(ctx, id, req)
}

func (s *Service) DeleteCatalog(ctx context.Context, id int64) error {
	if id <= 0 {
		return errs.Invalid("catalogId must be positive, got %d", id)
	}
	return s.repo.DeleteCatalog(ctx, id)
}

func trimCatalog(req model.AddCatalogRequest) model.AddCatalogRequest {
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	req.ISBN = strings.TrimSpace(req.ISBN)
	req.Publisher = strings.TrimSpace(req.Publisher)
	return req
}
