package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"cargo/internal/adapters/in/auth"
	"cargo/internal/core/domain/model/order"
	"cargo/internal/pkg/errs"
)

const orderUnavailableMessage = "order not available for this action"

type messageResponse struct {
	Message string `json:"message"`
}

type validationResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

// ErrorHandler maps handler errors to status codes. Anything it does not
// recognise is logged and reported as a bare 500.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := classify(err)
		if code == http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method, "path", c.Path(), "error", err)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, body)
		}
		if writeErr != nil {
			logger.ErrorContext(c.Request().Context(), "write error response", "error", writeErr)
		}
	}
}

func classify(err error) (int, any) {
	var reqErr *RequestValidationError
	if errors.As(err, &reqErr) {
		return http.StatusBadRequest, validationResponse{Error: "validation failed", Fields: reqErr.Fields}
	}

	switch {
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, messageResponse{Message: "unauthorized"}
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, validationResponse{Error: "validation failed", Fields: validationFields(err)}
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, messageResponse{Message: "forbidden"}
	case errors.Is(err, order.ErrInvalidTransition), errors.Is(err, order.ErrOrderUnavailable):
		return http.StatusNotFound, messageResponse{Message: orderUnavailableMessage}
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, messageResponse{Message: "not found"}
	case errors.Is(err, errs.ErrConflict):
		var conflict *errs.ConflictError
		if errors.As(err, &conflict) {
			return http.StatusBadRequest, messageResponse{Message: conflict.Reason}
		}
		return http.StatusBadRequest, messageResponse{Message: "conflict"}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok {
			return httpErr.Code, messageResponse{Message: msg}
		}
		return httpErr.Code, messageResponse{Message: http.StatusText(httpErr.Code)}
	}

	return http.StatusInternalServerError, messageResponse{Message: "internal server error"}
}

// validationFields lists the parameter names of every validation error in
// the tree of err, in order.
func validationFields(err error) []string {
	var fields []string
	var walk func(err error)
	walk = func(err error) {
		switch e := err.(type) {
		case *errs.ValueIsRequiredError:
			fields = append(fields, e.ParamName)
		case *errs.ValueIsInvalidError:
			fields = append(fields, e.ParamName)
		case *errs.ValueIsOutOfRangeError:
			fields = append(fields, e.ParamName)
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(e.Unwrap())
		}
	}
	walk(err)
	return fields
}
