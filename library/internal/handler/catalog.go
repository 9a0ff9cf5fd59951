package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/school-library/library/internal/model"
)

// ListCatalogs godoc
// @Summary List catalog items
// @Tags catalogs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(10)
// @Success 200 {object} model.Response{data=[]model.CatalogItem}
// @Failure 400 {object} model.ErrorResponse
// @Router /api/v1/catalogs [get]
func (h *Handler) ListCatalogs(c echo.Context) error {
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}
	list, err := h.librarySvc.ListCatalogs(c.Request().Context(), page, size)
	if err != nil {
		return h.httpError(err)
	}
	return respondPage(c, "catalogs fetched", list.Items, list.Pagination)
}

// AddCatalog godoc
// @Summary Add a catalog item
// @Tags catalogs
// @Accept json
// @Produce json
// @Param request body model.AddCatalogRequest true "catalog item"
// @Success 201 {object} model.Response{data=model.CatalogItem}
// @Failure 400 {object} model.ErrorResponse
// @Router /api/v1/catalogs [post]
func (h *Handler) AddCatalog(c echo.Context) error {
	var req model.AddCatalogRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	item, err := h.librarySvc.AddCatalog(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return respond(c, http.StatusCreated, "catalog created", item)
}

// GetCatalog godoc
// @Summary Get a catalog item
// @Tags catalogs
// @Produce json
// @Param catalogId path int true "catalog id"
// @Success 200 {object} model.Response{data=model.CatalogItem}
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/catalogs/{catalogId} [get]
func (h *Handler) GetCatalog(c echo.Context) error {
	id, err := pathID(c, "catalogId")
	if err != nil {
		return err
	}
	item, err := h.librarySvc.GetCatalog(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return respond(c, http.StatusOK, "catalog fetched", item)
}

// EditCatalog godoc
// @Summary Edit a catalog item
// @Description Replaces the item metadata. availableQty is reset to the new totalQty.
// @Tags catalogs
// @Accept json
// @Produce json
// @Param catalogId path int true "catalog id"
// @Param request body model.EditCatalogRequest true "catalog item"
// @Success 200 {object} model.Response{data=model.CatalogItem}
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/catalogs/{catalogId} [put]
func (h *Handler) EditCatalog(c echo.Context) error {
	id, err := pathID(c, "catalogId")
	if err != nil {
		return err
	}
	var req model.EditCatalogRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	item, err := h.librarySvc.EditCatalog(c.Request().Context(), id, req)
	if err != nil {
		return h.httpError(err)
	}
	return respond(c, http.StatusOK, "catalog updated", item)
}

// DeleteCatalog godoc
// @Summary Delete a catalog item
// @Tags catalogs
// @Param catalogId path int true "catalog id"
// @Success 200 {object} model.Response
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/catalogs/{catalogId} [delete]
func (h *Handler) DeleteCatalog(c echo.Context) error {
	id, err := pathID(c, "catalogId")
	if err != nil {
		return err
	}
	if err := h.librarySvc.DeleteCatalog(c.Request().Context(), id); err != nil {
		return h.httpError(err)
	}
	return respond(c, http.StatusOK, "catalog deleted", nil)
}

// ListItemLoans godoc
// @Summary List rents of a catalog item
// @Tags catalogs
// @Produce json
// @Param catalogId path int true "catalog id"
// @Param open query bool false "only open rents"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(10)
// @Success 200 {object} model.Response{data=[]model.LoanView}
// @Router /api/v1/catalogs/{catalogId}/rents [get]
func (h *Handler) ListItemLoans(c echo.Context) error {
	id, err := pathID(c, "catalogId")
	if err != nil {
		return err
	}
	open, err := openParam(c)
	if err != nil {
		return err
	}
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}
	list, err := h.librarySvc.ListItemLoans(c.Request().Context(), id, open, page, size)
	if err != nil {
		return h.httpError(err)
	}
	return respondPage(c, "rents fetched", list.Items, list.Pagination)
}
