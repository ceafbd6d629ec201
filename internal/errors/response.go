package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failure response.
type ErrorResponse struct {
	Error   string `json:"error"`          // code, see codes.go
	Kind    Kind   `json:"kind,omitempty"` // taxonomy, see kind.go
	Message string `json:"message"`
}

func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Kind:    kindForStatus(statusCode),
		Message: message,
	})
}

// Respond writes err as a failure response. Domain errors keep their kind and
// code; anything else goes through ParseError and is reported as internal
// unless the parser recognises it.
func Respond(c *gin.Context, err error, context string) {
	if appErr, ok := As(err); ok {
		c.JSON(HTTPStatus(appErr.Kind), ErrorResponse{
			Error:   appErr.Code,
			Kind:    appErr.Kind,
			Message: appErr.Message,
		})
		return
	}
	info := ParseError(err, context)
	c.JSON(HTTPStatus(info.Kind), ErrorResponse{
		Error:   info.Code,
		Kind:    info.Kind,
		Message: info.Message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Not authorized, please log in"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Not authorized to access this resource"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Server error, please try again later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusBadRequest:
		return KindInvalidInput
	case http.StatusConflict:
		return KindInvalidState
	case http.StatusUnauthorized:
		return KindUnauthenticated
	default:
		return KindInternal
	}
}
