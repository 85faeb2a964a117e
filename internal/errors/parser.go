package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps storage errors to a code and a message safe to show users.
// context names the operation, e.g. "create customer" or "order".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong.",
		}
	}

	errStrLower := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// Postgres 23505 and SQLite "UNIQUE constraint failed"
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "A referenced record no longer exists.",
		}
	}

	if strings.Contains(errStrLower, "not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing.",
		}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A backing service is unavailable. Please try again shortly.",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email is already registered.",
		}
	}

	if strings.Contains(errLower, "cart") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Your cart changed while we were updating it. Please try again.",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists.",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "product"):
		return "Product not found."
	case strings.Contains(contextLower, "order"):
		return "Order not found."
	case strings.Contains(contextLower, "cart"):
		return "Cart item not found."
	case strings.Contains(contextLower, "customer"):
		return "Customer not found."
	}
	return "The requested record was not found."
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "checkout"):
		return "We could not complete your order. Nothing was charged; please try again."
	case strings.Contains(contextLower, "create"), strings.Contains(contextLower, "register"):
		return "We could not save your data. Please try again shortly."
	case strings.Contains(contextLower, "update"):
		return "We could not update your data. Please try again shortly."
	case strings.Contains(contextLower, "delete"), strings.Contains(contextLower, "remove"):
		return "We could not remove the item. Please try again shortly."
	}
	return "Something went wrong. Please try again shortly."
}
