package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Kind classifies an AppError; the HTTP layer maps it to a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindBadRequest
	KindValidation
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBadRequest:
		return "bad_request"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// AppError is a failure the client is allowed to see.
type AppError struct {
	Kind    Kind
	Code    string
	Message string
	Field   string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another AppError by kind and code so wrapped copies still
// compare equal to the sentinels below.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

func newError(kind Kind, code, message, field string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message, Field: field}
}

func NotFound(code, message, field string) *AppError {
	return newError(KindNotFound, code, message, field)
}

func Conflict(code, message, field string) *AppError {
	return newError(KindConflict, code, message, field)
}

func BadRequest(code, message, field string) *AppError {
	return newError(KindBadRequest, code, message, field)
}

func Validation(code, message, field string) *AppError {
	return newError(KindValidation, code, message, field)
}

func Unauthorized(code, message string) *AppError {
	return newError(KindUnauthorized, code, message, "")
}

// AsAppError unwraps err into an *AppError.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// ==================== Sentinel errors ====================

var (
	ErrSellerNotFound    = NotFound("SELLER_NOT_FOUND", "Seller not found", "seller_id")
	ErrProductNotFound   = NotFound("PRODUCT_NOT_FOUND", "Product not found", "product_id")
	ErrCategoryNotFound  = NotFound("CATEGORY_NOT_FOUND", "Category not found", "category_id")
	ErrParentNotFound    = NotFound("PARENT_CATEGORY_NOT_FOUND", "Parent category not found", "parent_id")
	ErrNoParent          = NotFound("NO_PARENT", "Category has no parent", "parent_id")
	ErrInventoryNotFound = NotFound("INVENTORY_NOT_FOUND", "Inventory not found", "product_id")
	ErrUserNotFound      = NotFound("USER_NOT_FOUND", "User not found", "user_id")
	ErrReviewNotFound    = NotFound("REVIEW_NOT_FOUND", "Review not found", "review_id")
	ErrProfileNotFound   = NotFound("PROFILE_NOT_FOUND", "Seller profile not found", "seller_id")

	ErrEmailTaken          = Conflict("EMAIL_ALREADY_REGISTERED", "Email already registered", "email")
	ErrUsernameTaken       = Conflict("USERNAME_ALREADY_REGISTERED", "Username already registered", "username")
	ErrProductNameTaken    = Conflict("PRODUCT_NAME_TAKEN", "Seller already has a product with this name", "name")
	ErrCategoryNameTaken   = Conflict("CATEGORY_NAME_TAKEN", "Category name already exists", "name")
	ErrInventoryExists     = Conflict("INVENTORY_EXISTS", "Inventory already exists for this product", "product_id")
	ErrCategoryAssigned    = Conflict("CATEGORY_ALREADY_ASSIGNED", "Category already assigned to product", "category_id")
	ErrProfileExists       = Conflict("PROFILE_EXISTS", "Seller profile already exists", "seller_id")
	ErrAlreadyFollowing    = Conflict("ALREADY_FOLLOWING", "Already following this seller", "target_id")
	ErrCategoryNotAssigned = BadRequest("CATEGORY_NOT_ASSIGNED", "Category not assigned to product", "category_id")
	ErrSelfFollow          = BadRequest("SELF_FOLLOW", "A seller cannot follow itself", "target_id")
	ErrNotFollowing        = BadRequest("NOT_FOLLOWING", "Not following this seller", "target_id")
	ErrCategoryCycle       = BadRequest("CATEGORY_CYCLE", "A category cannot be its own ancestor", "parent_id")

	ErrPasswordTooLong = Validation("PASSWORD_TOO_LONG", "Password must be at most 72 bytes", "password")

	ErrInvalidCredentials = Unauthorized("INVALID_CREDENTIALS", "Incorrect email or password")
)

// translate maps store errors to the taxonomy. A duplicate key that slipped
// past the explicit check (a concurrent insert) becomes onDuplicate.
func translate(err error, onDuplicate *AppError) error {
	switch {
	case err == nil:
		return nil
	case onDuplicate != nil && errors.Is(err, gorm.ErrDuplicatedKey):
		return onDuplicate
	default:
		if _, ok := AsAppError(err); ok {
			return err
		}
		return fmt.Errorf("store: %w", err)
	}
}
