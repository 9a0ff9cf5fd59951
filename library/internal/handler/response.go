package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Astemirdum/school-library/library/internal/errs"
	"github.com/Astemirdum/school-library/library/internal/model"
	"github.com/Astemirdum/school-library/pkg/paging"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

func respond(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, model.Response{
		Status:  statusSuccess,
		Code:    code,
		Message: message,
		Data:    data,
	})
}

func respondPage(c echo.Context, message string, data any, p paging.Summary) error {
	return c.JSON(http.StatusOK, model.Response{
		Status:     statusSuccess,
		Code:       http.StatusOK,
		Message:    message,
		Data:       data,
		Pagination: &p,
	})
}

func newHTTPError(code int, reason, message string) *echo.HTTPError {
	return echo.NewHTTPError(code, model.ErrorResponse{
		Status:  statusError,
		Code:    code,
		Reason:  reason,
		Message: message,
	})
}

func badRequest(message string) *echo.HTTPError {
	return newHTTPError(http.StatusBadRequest, errs.ReasonInvalidInput, message)
}

// httpError maps a service error onto the status its kind implies.
// Anything that is not a domain error is reported as 500.
func (h *Handler) httpError(err error) *echo.HTTPError {
	e, ok := errs.As(err)
	if !ok {
		h.log.Error("internal", zap.Error(err))
		return newHTTPError(http.StatusInternalServerError, "", err.Error())
	}
	code := http.StatusInternalServerError
	switch e.Kind {
	case errs.KindNotFound:
		code = http.StatusNotFound
	case errs.KindConflict:
		code = http.StatusConflict
	case errs.KindInvalidInput:
		code = http.StatusBadRequest
	}
	return newHTTPError(code, e.Reason, e.Message)
}
