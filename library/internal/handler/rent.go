package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/school-library/library/internal/model"
)

// RentBook godoc
// @Summary Rent a copy of a catalog item
// @Tags rents
// @Accept json
// @Produce json
// @Param request body model.RentRequest true "rent"
// @Success 201 {object} model.Response{data=model.Loan}
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse "no available copies"
// @Router /api/v1/rents [post]
func (h *Handler) RentBook(c echo.Context) error {
	var req model.RentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	loan, err := h.librarySvc.RentBook(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return respond(c, http.StatusCreated, "book rented", loan)
}

// ReturnBook godoc
// @Summary Return a rented copy
// @Tags rents
// @Produce json
// @Param rentId path int true "rent id"
// @Success 200 {object} model.Response{data=model.Loan}
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse "already returned"
// @Router /api/v1/rents/{rentId}/return [put]
func (h *Handler) ReturnBook(c echo.Context) error {
	id, err := pathID(c, "rentId")
	if err != nil {
		return err
	}
	loan, err := h.librarySvc.ReturnBook(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return respond(c, http.StatusOK, "book returned", loan)
}

// @Summary Get a rent
// @Tags rents
// @Produce json
// @Param rentId path int true "rent id"
// @Success 200 {object} model.Response{data=model.LoanView}
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/rents/{rentId} [get]
func (h *Handler) GetLoan(c echo.Context) error {
	id, err := pathID(c, "rentId")
	if err != nil {
		return err
	}
	loan, err := h.librarySvc.GetLoan(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return respond(c, http.StatusOK, "rent fetched", loan)
}

// @Summary List rents
// @Tags rents
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(10)
// @Success 200 {object} model.Response{data=[]model.LoanView}
// @Router /api/v1/rents [get]
func (h *Handler) ListLoans(c echo.Context) error {
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}
	list, err := h.librarySvc.ListLoans(c.Request().Context(), page, size)
	if err != nil {
		return h.httpError(err)
	}
	return respondPage(c, "rents fetched", list.Items, list.Pagination)
}
