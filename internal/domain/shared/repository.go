package shared

// Page is an offset-paginated slice of results plus the size of the whole collection
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// NewPage creates a page. A nil limit is reported as 0 (no limit) and a nil offset as 0.
func NewPage[T any](items []T, total int64, limit, offset *int) Page[T] {
	p := Page[T]{
		Items: items,
		Total: total,
	}
	if p.Items == nil {
		p.Items = make([]T, 0)
	}
	if limit != nil {
		p.Limit = *limit
	}
	if offset != nil {
		p.Offset = *offset
	}
	return p
}

// ValidateWindow rejects negative pagination parameters
func ValidateWindow(limit, offset *int) error {
	if limit != nil && *limit < 0 {
		return NewValidationError("INVALID_LIMIT", "limit cannot be negative")
	}
	if offset != nil && *offset < 0 {
		return NewValidationError("INVALID_OFFSET", "offset cannot be negative")
	}
	return nil
}
