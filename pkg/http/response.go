package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIResponse wraps every body the API writes. Data holds the payload on
// success and the list of errors otherwise.
type APIResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationError is one rejected request field.
type ValidationError struct {
	Code    string                 `json:"code,omitempty"`
	Field   string                 `json:"field,omitempty"`
	Message string                 `json:"message,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

const internalMessage = "Something went wrong"

func envelope(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, APIResponse{Status: status, Message: http.StatusText(status), Data: data})
}

// DataResponse writes data with an explicit status.
func DataResponse(c echo.Context, status int, data interface{}) error {
	return envelope(c, status, data)
}

func SuccessResponse(c echo.Context, data interface{}) error {
	return envelope(c, http.StatusOK, data)
}

func BadRequestResponse(c echo.Context, errs []ValidationError) error {
	return envelope(c, http.StatusBadRequest, errs)
}

// AppErrorResponse writes err as a one element error list. Anything that is
// not an *AppError is reported as ERR_INTERNAL without its message.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewAppError("ERR_INTERNAL", "", internalMessage, http.StatusInternalServerError).WithError(err)
	}
	return envelope(c, appErr.Status, []*AppError{appErr})
}
