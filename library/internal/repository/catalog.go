package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/Astemirdum/school-library/library/internal/errs"
	"github.com/Astemirdum/school-library/library/internal/model"
	"github.com/Astemirdum/school-library/pkg/paging"
)

// Guard selects the condition an available-copies adjustment must satisfy.
type Guard uint8

const (
	// GuardAvailable applies the delta only to an active item and only when
	// the result stays within [0, total_copies]. Used to take a copy.
	GuardAvailable Guard = iota + 1
	// GuardCapacity applies the delta to any item, deleted or not, clamping
	// the result to [0, total_copies]. Used to give a copy back.
	GuardCapacity
)

var catalogColumns = []string{
	"id", "title", "author", "isbn", "publisher",
	"total_copies", "available_copies", "is_deleted", "created_at", "updated_at",
}

var catalogActive = sq.Eq{"is_deleted": false}

func (r *repository) CreateCatalog(ctx context.Context, item model.CatalogItem) (model.CatalogItem, error) {
	b := qb.Insert(catalogTableName).
		Columns("title", "author", "isbn", "publisher", "total_copies", "available_copies").
		Values(item.Title, item.Author, item.ISBN, item.Publisher, item.TotalCopies, item.AvailableCopies).
		Suffix("returning *")

	var created model.CatalogItem
	if err := r.get(ctx, &created, b); err != nil {
		return model.CatalogItem{}, errors.Wrap(err, "create catalog")
	}
	return created, nil
}

func (r *repository) GetCatalog(ctx context.Context, id int64) (model.CatalogItem, error) {
	b := qb.Select(catalogColumns...).
		From(catalogTableName).
		Where(sq.Eq{"id": id}).
		Where(catalogActive).
		Limit(1)

	var item model.CatalogItem
	if err := r.get(ctx, &item, b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.CatalogItem{}, errs.ErrCatalogItemNotFound.Withf("catalog not found with id: %d", id)
		}
		return model.CatalogItem{}, errors.Wrap(err, "get catalog")
	}
	return item, nil
}

func (r *repository) ListCatalogs(ctx context.Context, w paging.Window) ([]model.CatalogItem, int, error) {
	total, err := r.count(ctx, qb.Select("count(*)").From(catalogTableName).Where(catalogActive))
	if err != nil {
		return nil, 0, errors.Wrap(err, "count catalogs")
	}

	b := window(qb.Select(catalogColumns...).
		From(catalogTableName).
		Where(catalogActive).
		OrderBy("id"), w)

	items := make([]model.CatalogItem, 0, w.Limit())
	if err := r.selectAll(ctx, &items, b); err != nil {
		return nil, 0, errors.Wrap(err, "list catalogs")
	}
	return items, total, nil
}

// UpdateCatalog replaces the metadata and resets available copies to the
// new total, regardless of copies currently on loan.
func (r *repository) UpdateCatalog(ctx context.Context, id int64, req model.EditCatalogRequest) (model.CatalogItem, error) {
	b := qb.Update(catalogTableName).
		Set("title", req.Title).
		Set("author", req.Author).
		Set("isbn", req.ISBN).
		Set("publisher", req.Publisher).
		Set("total_copies", req.TotalCopies).
		Set("available_copies", req.TotalCopies).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Where(catalogActive).
		Suffix("returning *")

	var item model.CatalogItem
	if err := r.get(ctx, &item, b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.CatalogItem{}, errs.ErrCatalogItemNotFound.Withf("catalog not found with id: %d", id)
		}
		return model.CatalogItem{}, errors.Wrap(err, "update catalog")
	}
	return item, nil
}

func (r *repository) DeleteCatalog(ctx context.Context, id int64) error {
	n, err := r.exec(ctx, qb.Update(catalogTableName).
		Set("is_deleted", true).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Where(catalogActive))
	if err != nil {
		return errors.Wrap(err, "delete catalog")
	}
	if n == 0 {
		return errs.ErrCatalogItemNotFound.Withf("catalog not found with id: %d", id)
	}
	return nil
}

// AdjustAvailable changes available copies in a single conditional UPDATE.
// It reports false when no row satisfied the guard; nothing is changed then.
func (r *repository) AdjustAvailable(ctx context.Context, id int64, delta int, guard Guard) (bool, error) {
	b := qb.Update(catalogTableName).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id})

	switch guard {
	case GuardAvailable:
		b = b.Set("available_copies", sq.Expr("available_copies + ?", delta)).
			Where(catalogActive).
			Where(sq.Expr("available_copies + ? >= 0", delta)).
			Where(sq.Expr("available_copies + ? <= total_copies", delta))
	case GuardCapacity:
		b = b.Set("available_copies", sq.Expr("greatest(least(available_copies + ?, total_copies), 0)", delta))
	default:
		return false, errors.Errorf("unknown guard %d", guard)
	}

	n, err := r.exec(ctx, b)
	if err != nil {
		return false, errors.Wrap(err, "adjust available copies")
	}
	return n == 1, nil
}
