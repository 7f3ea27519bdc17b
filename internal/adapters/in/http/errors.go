package http

import (
	"errors"
	"net/http"

	"parcelhub/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusOf maps the error taxonomy to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(ctx echo.Context, err error) error {
	code := statusOf(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		s.logger.WithError(err).WithField("path", ctx.Path()).Error("request failed")
		message = "Internal server error"
	}
	return ctx.JSON(code, Error{Code: code, Message: message})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
