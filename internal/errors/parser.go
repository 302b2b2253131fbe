package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is the parsed form of a low-level error.
type ErrorInfo struct {
	Code    string
	Message string
}

// IsDuplicateKey reports whether err is a unique-constraint violation.
// Matches both the postgres wording and the sqlite wording used in tests.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique failed")
}

// ParseError converts a database or downstream error into a code + message
// safe to surface to clients. context hints at the operation ("create order",
// "update product") so not-found messages stay specific.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	if IsDuplicateKey(err) {
		return parseDuplicateKey(errStr)
	}

	if strings.Contains(errStr, "foreign key constraint") {
		if strings.Contains(errStr, "still referenced") {
			return ErrorInfo{Code: ResourceConflict, Message: "Linked records exist, cannot delete"}
		}
		return ErrorInfo{Code: ResourceNotFound, Message: "Referenced record does not exist"}
	}

	if strings.Contains(errStr, "violates not-null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{Code: InternalExternalAPI, Message: "Upstream service unavailable. Please try again later"}
	}

	return ErrorInfo{Code: InternalServerError, Message: "Something went wrong. Please try again later"}
}

func parseDuplicateKey(errStr string) ErrorInfo {
	switch {
	case strings.Contains(errStr, "email"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Email is already registered"}
	case strings.Contains(errStr, "phone"):
		return ErrorInfo{Code: AuthPhoneAlreadyExists, Message: "Phone number is already registered"}
	case strings.Contains(errStr, "payment_id"):
		return ErrorInfo{Code: OrderDuplicate, Message: "An order already exists for this payment"}
	case strings.Contains(errStr, "order_token"):
		return ErrorInfo{Code: OrderDuplicate, Message: "This checkout was already submitted"}
	case strings.Contains(errStr, "slug"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Slug is already in use"}
	case strings.Contains(errStr, "code"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Code is already in use"}
	default:
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Record already exists"}
	}
}

func notFoundMessage(context string) string {
	ctx := strings.ToLower(context)
	switch {
	case strings.Contains(ctx, "product"):
		return "Product not found"
	case strings.Contains(ctx, "order"):
		return "Order not found"
	case strings.Contains(ctx, "category"):
		return "Category not found"
	case strings.Contains(ctx, "banner"):
		return "Banner not found"
	case strings.Contains(ctx, "blog"):
		return "Blog post not found"
	case strings.Contains(ctx, "discount"):
		return "Discount not found"
	case strings.Contains(ctx, "plan"), strings.Contains(ctx, "subscription"):
		return "Savings plan not found"
	case strings.Contains(ctx, "user"), strings.Contains(ctx, "customer"):
		return "User not found"
	default:
		return "Requested record not found"
	}
}
