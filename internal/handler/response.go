package handler

import (
	"errors"
	"net/http"

	"github.com/gigflow/gigflow-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// respondError maps the service failure taxonomy onto status codes.
// The bid endpoints flatten Forbidden to 400 so responses do not reveal
// ownership of entities the caller probed; pass flattenForbidden for
// those.
func respondError(c echo.Context, err error, flattenForbidden bool) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", err.Error()))
	case errors.Is(err, service.ErrForbidden):
		if flattenForbidden {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", err.Error()))
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrInvalidState):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	default:
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "something went wrong"))
	}
}
