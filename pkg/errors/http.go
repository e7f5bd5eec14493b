package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ToHTTPStatus converts an error code into an HTTP status.
func ToHTTPStatus(code string) int {
	httpStatus, _ := GetCodeMapping(code)
	return httpStatus
}

// ToHTTPError converts err into an echo HTTP error. Internal causes are hidden
// unless exposeInternal is set.
func ToHTTPError(err error, exposeInternal bool) *echo.HTTPError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if As(err, &appErr) {
		httpStatus := ToHTTPStatus(appErr.Code())
		if httpStatus >= http.StatusInternalServerError && exposeInternal {
			return echo.NewHTTPError(httpStatus, appErr.Error())
		}
		return echo.NewHTTPError(httpStatus, appErr.Message())
	}

	var coded Error
	if As(err, &coded) {
		httpStatus := ToHTTPStatus(coded.Code())
		if httpStatus >= http.StatusInternalServerError && !exposeInternal {
			return echo.NewHTTPError(httpStatus, "Something went wrong")
		}
		return echo.NewHTTPError(httpStatus, coded.Error())
	}

	var echoErr *echo.HTTPError
	if As(err, &echoErr) {
		return echoErr
	}

	if exposeInternal {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong")
}
