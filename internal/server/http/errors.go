package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/dsalog/internal/common"
)

// Error codes carried in the code field of every error body.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUserExists         = "USER_EXISTS"
	CodeLogExists          = "LOG_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNotFound           = "NOT_FOUND"
	CodeNotImplemented     = "NOT_IMPLEMENTED"
	CodeInternal           = "INTERNAL_ERROR"
)

const (
	msgUnauthorized    = "Unauthorized"
	msgInvalidBody     = "Invalid request body"
	msgInternal        = "Internal server error"
	msgLogExists       = "Problem already exists in your log"
	msgLogNotFound     = "Log not found"
	msgNoLogs          = "No logs found"
	msgUploadsDisabled = "Photo uploads are not configured"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var unauthorizedBody = errorBody{Code: CodeUnauthorized, Message: msgUnauthorized}

// errorResponse maps a service error to its status and body. Anything not
// recognised is reported as a generic internal error.
func errorResponse(err error) (int, errorBody) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, errorBody{Code: CodeValidation, Message: ve.Message}
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusBadRequest, errorBody{Code: CodeUserExists, Message: "User already exists"}
	case errors.Is(err, common.ErrorInvalidCredentials):
		return http.StatusBadRequest, errorBody{Code: CodeInvalidCredentials, Message: "Invalid credentials"}
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrorInvalidToken):
		return http.StatusUnauthorized, unauthorizedBody
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, errorBody{Code: CodeNotFound, Message: "Not found"}
	case errors.Is(err, common.ErrorNotConfigured):
		return http.StatusNotImplemented, errorBody{Code: CodeNotImplemented, Message: msgUploadsDisabled}
	default:
		return http.StatusInternalServerError, errorBody{Code: CodeInternal, Message: msgInternal}
	}
}

func abortWithError(c *gin.Context, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, body)
}

// abortWithLogError is abortWithError with the wording of the log routes.
func abortWithLogError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Code: CodeLogExists, Message: msgLogExists})
	case errors.Is(err, common.ErrorNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, errorBody{Code: CodeNotFound, Message: notFound})
	default:
		abortWithError(c, err)
	}
}

func abortInvalidBody(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Code: CodeValidation, Message: msgInvalidBody})
}
