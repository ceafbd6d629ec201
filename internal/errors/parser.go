package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is the client-facing classification of an unexpected error.
type ErrorInfo struct {
	Kind    Kind
	Code    string
	Message string
}

// ParseError classifies errors that did not originate as domain errors:
// storage driver failures and network failures. Driver detail stays in the
// logs and never reaches the client.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Kind: KindInternal, Code: InternalServerError, Message: "Server error"}
	}

	errStrLower := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Kind: KindNotFound, Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	// postgres 23505 and sqlite UNIQUE failures
	if strings.Contains(errStrLower, "duplicate key") ||
		strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{Kind: KindInvalidState, Code: ResourceConflict, Message: "Referenced data does not exist or is still in use"}
	}

	if strings.Contains(errStrLower, "not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return ErrorInfo{Kind: KindInvalidInput, Code: ValidationRequired, Message: "A required field is missing"}
	}

	if strings.Contains(errStrLower, "check constraint") {
		return ErrorInfo{Kind: KindInvalidInput, Code: ValidationInvalidInput, Message: "Invalid input"}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{Kind: KindInternal, Code: InternalExternalAPI, Message: "A dependent service is unavailable, please try again later"}
	}

	return ErrorInfo{Kind: KindInternal, Code: InternalServerError, Message: defaultErrorMessage(context)}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "subscriber"):
		return ErrorInfo{Kind: KindInvalidInput, Code: SubscriberExists, Message: "Email is already subscribed"}
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Kind: KindInvalidState, Code: AuthEmailAlreadyExists, Message: "User already exists"}
	case strings.Contains(errLower, "sku"):
		return ErrorInfo{Kind: KindInvalidState, Code: ProductSKUExists, Message: "A product with this SKU already exists"}
	default:
		return ErrorInfo{Kind: KindInvalidState, Code: ResourceAlreadyExists, Message: "Resource already exists"}
	}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)
	for _, entity := range []string{"product", "cart", "checkout", "order", "user"} {
		if strings.Contains(contextLower, entity) {
			return strings.ToUpper(entity[:1]) + entity[1:] + " not found"
		}
	}
	return "Resource not found"
}

func defaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "create"):
		return "Failed to create, please try again later"
	case strings.Contains(contextLower, "update"):
		return "Failed to update, please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete, please try again later"
	}
	return "Server error, please try again later"
}
