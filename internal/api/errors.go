package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	errInvalidQuery     = "invalid_query"
	errStoreNotFound    = "store_not_found"
	errNotFound         = "not_found"
	errMethodNotAllowed = "method_not_allowed"
	errInternal         = "internal_server_error"
)

type errorResponse struct {
	Error string `json:"error"`
}

func jsonError(c echo.Context, status int, code string) error {
	return c.JSON(status, errorResponse{Error: code})
}

// httpErrorHandler renders every unhandled error as a JSON error code.
// Details of internal failures are logged, never returned.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	code := errInternal

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound:
			status, code = http.StatusNotFound, errNotFound
		case http.StatusMethodNotAllowed:
			status, code = http.StatusMethodNotAllowed, errMethodNotAllowed
		case http.StatusBadRequest:
			status, code = http.StatusBadRequest, errInvalidQuery
		}
	}

	if status == http.StatusInternalServerError {
		c.Logger().Errorf("Request %s %s failed: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = jsonError(c, status, code)
	}
	if writeErr != nil {
		c.Logger().Error(writeErr)
	}
}
