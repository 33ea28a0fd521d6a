package dto

// ==================== Pagination ====================

// PageQuery is the skip/limit window shared by list endpoints.
type PageQuery struct {
	Skip  int `form:"skip,default=0" binding:"min=0"`
	Limit int `form:"limit,default=100" binding:"min=1,max=1000"`
}

// Page is the pagination envelope.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Pages int   `json:"pages"`
}

// NewPage builds the envelope for one window of a result set.
// page is 1-based and derived from skip; pages is 0 when total is 0.
func NewPage[T any](items []T, total int64, skip, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items: items,
		Total: total,
		Page:  PageNumber(skip, limit),
		Size:  limit,
		Pages: PageCount(total, limit),
	}
}

func PageNumber(skip, limit int) int {
	if limit <= 0 {
		return 1
	}
	return skip/limit + 1
}

// PageCount is ceil(total/limit).
func PageCount(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	l := int64(limit)
	return int((total + l - 1) / l)
}

// ==================== Errors ====================

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code,omitempty"`
	Field     string `json:"field,omitempty"`
}

// FieldError is one violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ValidationErrorResponse lists every violated constraint of a request.
type ValidationErrorResponse struct {
	Detail    string       `json:"detail"`
	ErrorCode string       `json:"error_code"`
	Errors    []FieldError `json:"errors"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
