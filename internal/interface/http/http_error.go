package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/ai-flowgen/internal/domain/auth"
	"github.com/yanqian/ai-flowgen/internal/domain/flowgen"
	apperrors "github.com/yanqian/ai-flowgen/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

var codeStatus = map[string]int{
	flowgen.CodeInvalidRequest:       http.StatusBadRequest,
	auth.CodeUnauthenticated:         http.StatusUnauthorized,
	flowgen.CodeProviderError:        http.StatusBadGateway,
	flowgen.CodeProviderTimeout:      http.StatusGatewayTimeout,
	flowgen.CodeTruncated:            http.StatusInternalServerError,
	flowgen.CodeParseError:           http.StatusInternalServerError,
	flowgen.CodeValidationError:      http.StatusBadRequest,
	flowgen.CodeStorageMisconfigured: http.StatusInternalServerError,
}

// fromAppError maps a domain error onto its HTTP status.
func fromAppError(err error) *HTTPError {
	if appErr, ok := apperrors.As(err); ok {
		status, ok := codeStatus[appErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		return NewHTTPError(status, appErr.Code, appErr.Message, err)
	}
	return asHTTPError(err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// appMessage returns the client-facing message without wrapped causes.
func appMessage(err error) string {
	if appErr, ok := apperrors.As(err); ok {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
