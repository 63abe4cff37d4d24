package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/flowfairy/pkg/fcs"
)

// Error types reported in the "type" field of error bodies.
const (
	errTypeInvalidRequest = "invalid_request_error"
	errTypeNotFound       = "not_found_error"
	errTypeFormat         = "format_error"
	errTypeValidation     = "validation_error"
	errTypeTooLarge       = "payload_too_large_error"
	errTypeRateLimited    = "rate_limit_error"
	errTypeServer         = "server_error"
)

var ErrInvalidRequest = errors.New("invalid_request")

type invalidRequestError struct {
	msg string
}

func (e invalidRequestError) Error() string {
	return e.msg
}

func (e invalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func newInvalidRequest(msg string) error {
	return invalidRequestError{msg: msg}
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, errTypeInvalidRequest, msg, "")
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, errTypeNotFound, msg, "")
}

func writeError(c *echo.Context, status int, errType, msg, keyword string) error {
	return c.JSON(status, map[string]any{
		"error": ErrorBody{
			Type:    errType,
			Message: msg,
			Keyword: keyword,
		},
	})
}

// writeDecodeError maps a decode failure to a status by its error class.
func writeDecodeError(c *echo.Context, err error) error {
	var keyword string
	var kerr *fcs.KeywordError
	if errors.As(err, &kerr) {
		keyword = kerr.Keyword
	}
	switch fcs.Class(err) {
	case fcs.ErrFormat:
		return writeError(c, http.StatusUnprocessableEntity, errTypeFormat, err.Error(), keyword)
	case fcs.ErrValidation:
		return writeError(c, http.StatusUnprocessableEntity, errTypeValidation, err.Error(), keyword)
	case fcs.ErrIO:
		// A body that ends early is a client problem.
		return writeError(c, http.StatusUnprocessableEntity, errTypeFormat, err.Error(), keyword)
	default:
		return writeError(c, http.StatusInternalServerError, errTypeServer, err.Error(), "")
	}
}
