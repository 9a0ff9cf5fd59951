package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/school-library/library/internal/model"
)

// RegisterMember godoc
// @Summary Register a member
// @Tags members
// @Accept json
// @Produce json
// @Param request body model.RegisterMemberRequest true "member"
// @Success 201 {object} model.Response{data=model.Member}
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/members [post]
func (h *Handler) RegisterMember(c echo.Context) error {
	var req model.RegisterMemberRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	m, err := h.librarySvc.RegisterMember(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return respond(c, http.StatusCreated, "member registered", m)
}

// @Summary List members
// @Tags members
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(10)
// @Success 200 {object} model.Response{data=[]model.Member}
// @Router /api/v1/members [get]
func (h *Handler) ListMembers(c echo.Context) error {
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}
	list, err := h.librarySvc.ListMembers(c.Request().Context(), page, size)
	if err != nil {
		return h.httpError(err)
	}
	return respondPage(c, "members fetched", list.Items, list.Pagination)
}

// @Summary Get a member
// @Tags members
// @Produce json
// @Param memberId path int true "member id"
// @Success 200 {object} model.Response{data=model.Member}
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/members/{memberId} [get]
func (h *Handler) GetMember(c echo.Context) error {
	id, err := pathID(c, "memberId")
	if err != nil {
		return err
	}
	m, err := h.librarySvc.GetMember(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return respond(c, http.StatusOK, "member fetched", m)
}

// @Summary Edit a member
// @Tags members
// @Accept json
// @Produce json
// @Param memberId path int true "member id"
// @Param request body model.EditMemberRequest true "member"
// @Success 200 {object} model.Response{data=model.Member}
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/members/{memberId} [put]
func (h *Handler) EditMember(c echo.Context) error {
	id, err := pathID(c, "memberId")
	if err != nil {
		return err
	}
	var req model.EditMemberRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	m, err := h.librarySvc.EditMember(c.Request().Context(), id, req)
	if err != nil {
		return h.httpError(err)
	}
	return respond(c, http.StatusOK, "member updated", m)
}

// @Summary Delete a member
// @Tags members
// @Param memberId path int true "member id"
// @Success 200 {object} model.Response
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/members/{memberId} [delete]
func (h *Handler) DeleteMember(c echo.Context) error {
	id, err := pathID(c, "memberId")
	if err != nil {
		return err
	}
	if err := h.librarySvc.DeleteMember(c.Request().Context(), id); err != nil {
		return h.httpError(err)
	}
	return respond(c, http.StatusOK, "member deleted", nil)
}

// @Summary List rents of a member
// @Tags members
// @Produce json
// @Param memberId path int true "member id"
// @Param open query bool false "only open rents"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(10)
// @Success 200 {object} model.Response{data=[]model.LoanView}
// @Router /api/v1/members/{memberId}/rents [get]
func (h *Handler) ListMemberLoans(c echo.Context) error {
	id, err := pathID(c, "memberId")
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
	list, err := h.librarySvc.ListMemberLoans(c.Request().Context(), id, open, page, size)
	if err != nil {
		return h.httpError(err)
	}
	return respondPage(c, "rents fetched", list.Items, list.Pagination)
}
