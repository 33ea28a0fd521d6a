package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"marketplace_api/internal/api/dto"
	"marketplace_api/internal/model"
	"marketplace_api/internal/service"
)

const (
	codeValidation = "VALIDATION_ERROR"
	codeInternal   = "INTERNAL_ERROR"
)

// ==================== Error mapping ====================

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict, service.KindBadRequest:
		return http.StatusBadRequest
	case service.KindValidation:
		return http.StatusUnprocessableEntity
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as an ErrorResponse. Anything that is not an
// AppError is recorded on the context for the access log and answered
// with a generic 500.
func respondError(c *gin.Context, err error) {
	appErr, ok := service.AsAppError(err)
	if !ok || appErr.Kind == service.KindInternal {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
			Detail:    "Internal server error",
			ErrorCode: codeInternal,
		})
		return
	}

	if appErr.Kind == service.KindUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(statusFor(appErr.Kind), dto.ErrorResponse{
		Detail:    appErr.Message,
		ErrorCode: appErr.Code,
		Field:     appErr.Field,
	})
}

// ==================== Binding ====================

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.ValidationErrorResponse{
			Detail:    "Invalid path parameter",
			ErrorCode: codeValidation,
			Errors: []dto.FieldError{{
				Field:   name,
				Message: "must be a positive integer",
				Type:    "int_parsing",
			}},
		})
		return 0, false
	}
	return id, true
}

func respondBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.ValidationErrorResponse{
		Detail:    "Request validation failed",
		ErrorCode: codeValidation,
		Errors:    FormatBindError(err),
	})
}

// FormatBindError turns a binding failure into one entry per offending field.
func FormatBindError(err error) []dto.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return FormatValidationErrors(verrs)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []dto.FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("must be of type %s", typeErr.Type.String()),
			Type:    "type_error",
		}}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return []dto.FieldError{{Field: "body", Message: "invalid JSON body", Type: "json_invalid"}}
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return []dto.FieldError{{Field: "query", Message: fmt.Sprintf("invalid value %q", numErr.Num), Type: "type_error"}}
	}

	return []dto.FieldError{{Field: "body", Message: err.Error(), Type: "value_error"}}
}

// FormatValidationErrors renders validator failures with json field names.
func FormatValidationErrors(errs validator.ValidationErrors) []dto.FieldError {
	out := make([]dto.FieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, dto.FieldError{
			Field:   fieldPath(e),
			Message: validationMessage(e),
			Type:    e.Tag(),
		})
	}
	return out
}

// fieldPath drops the root struct and embedded names: "ProductListQuery.PageQuery.limit" -> "limit".
func fieldPath(e validator.FieldError) string {
	parts := strings.Split(e.Namespace(), ".")
	if len(parts) <= 1 {
		return e.Field()
	}
	kept := parts[:0]
	for _, p := range parts[1:] {
		if p == "PageQuery" {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, ".")
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "url":
		return "value is not a valid URL"
	case "min", "max":
		bound := "at least"
		if e.Tag() == "max" {
			bound = "at most"
		}
		switch e.Kind() {
		case reflect.String:
			return fmt.Sprintf("must have %s %s characters", bound, e.Param())
		case reflect.Slice, reflect.Map:
			return fmt.Sprintf("must have %s %s items", bound, e.Param())
		}
		if e.Tag() == "max" {
			return fmt.Sprintf("must be less than or equal to %s", e.Param())
		}
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "product_status":
		return "must be one of " + strings.Join(model.ProductStatuses, ", ")
	case "notblank":
		return "must not be blank"
	case "password_bytes":
		return fmt.Sprintf("must be at most %d bytes", dto.MaxPasswordBytes)
	default:
		return fmt.Sprintf("failed on the %s rule", e.Tag())
	}
}

// ==================== Success ====================

func respondCreated(c *gin.Context, body interface{}) {
	c.JSON(http.StatusCreated, body)
}

func respondOK(c *gin.Context, body interface{}) {
	c.JSON(http.StatusOK, body)
}

func respondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
