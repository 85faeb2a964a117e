package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON body of every error page.
type ErrorResponse struct {
	Error   string `json:"error"`   // code from codes.go
	Message string `json:"message"` // shown to the customer
}

var statusByCode = map[string]int{
	AuthUnauthorized:       http.StatusUnauthorized,
	AuthInvalidCredentials: http.StatusUnauthorized,
	AuthzForbidden:         http.StatusForbidden,
	AuthzOwnerOnly:         http.StatusForbidden,
	ResourceNotFound:       http.StatusNotFound,
	ProductNotFound:        http.StatusNotFound,
	OrderNotFound:          http.StatusNotFound,
	CartItemNotFound:       http.StatusNotFound,
	ResourceConflict:       http.StatusConflict,
	ResourceAlreadyExists:  http.StatusConflict,
	AuthEmailAlreadyExists: http.StatusConflict,
	ValidationRequired:     http.StatusBadRequest,
	CatalogNotEmpty:        http.StatusBadRequest,
	InternalExternalAPI:    http.StatusServiceUnavailable,
}

// StatusFor returns the HTTP status used for code. Unknown codes are 500.
func StatusFor(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// RespondWithParsedError classifies err with ParseError and answers with the
// matching status.
func RespondWithParsedError(c *gin.Context, err error, context string) {
	info := ParseError(err, context)
	RespondWithError(c, StatusFor(info.Code), info.Code, info.Message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Something went wrong. Please try again shortly."
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}
