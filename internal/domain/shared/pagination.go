package shared

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Paginated is one page of a list together with the size of the whole list
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a page. A page size of zero yields zero total pages.
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// Remaining reports how many items of the whole list are still missing after collected were read
func (p Paginated[T]) Remaining(collected int) int64 {
	if rest := p.Total - int64(collected); rest > 0 {
		return rest
	}
	return 0
}

// ResponseShape identifies which wire shape a PagedOrArrayResponse was decoded from
type ResponseShape string

const (
	ResponseShapeArray ResponseShape = "ARRAY"
	ResponseShapePaged ResponseShape = "PAGED"
)

// PagedOrArrayResponse is a list payload from a collaborator service that may
// arrive as a bare JSON array, as a paginated object ({"items": [...], "total": n}),
// or wrapped in a response envelope ({"data": ...}). Decoding picks the shape
// from the first JSON token; callers read the list through Unwrap.
type PagedOrArrayResponse[T any] struct {
	Shape    ResponseShape
	Items    []T
	Total    int64
	Page     int
	PageSize int
}

type pagedEnvelope[T any] struct {
	Items    *[]T            `json:"items"`
	Data     json.RawMessage `json:"data"`
	Total    *int64          `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Meta     *pageMeta       `json:"meta"`
}

type pageMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// UnmarshalJSON implements json.Unmarshaler
func (r *PagedOrArrayResponse[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = PagedOrArrayResponse[T]{Shape: ResponseShapeArray}
		return nil
	}

	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("decode array response: %w", err)
		}
		*r = PagedOrArrayResponse[T]{
			Shape: ResponseShapeArray,
			Items: items,
			Total: int64(len(items)),
		}
		return nil
	case '{':
		var env pagedEnvelope[T]
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return fmt.Errorf("decode paged response: %w", err)
		}
		if env.Items != nil {
			total := int64(len(*env.Items))
			if env.Total != nil {
				total = *env.Total
			}
			*r = PagedOrArrayResponse[T]{
				Shape:    ResponseShapePaged,
				Items:    *env.Items,
				Total:    total,
				Page:     env.Page,
				PageSize: env.PageSize,
			}
			return nil
		}
		if len(env.Data) > 0 {
			var inner PagedOrArrayResponse[T]
			if err := json.Unmarshal(env.Data, &inner); err != nil {
				return err
			}
			if env.Meta != nil && inner.Shape == ResponseShapeArray {
				inner.Shape = ResponseShapePaged
				inner.Total = env.Meta.Total
				inner.Page = env.Meta.Page
				inner.PageSize = env.Meta.PageSize
			}
			*r = inner
			return nil
		}
		return fmt.Errorf("response object has neither items nor data")
	default:
		return fmt.Errorf("unexpected response token %q", trimmed[0])
	}
}

// Paginated returns the decoded list as a page. A bare array is a single page holding everything.
func (r PagedOrArrayResponse[T]) Paginated() Paginated[T] {
	items := r.Unwrap()
	if r.Shape != ResponseShapePaged {
		return NewPaginated(items, int64(len(items)), 1, len(items))
	}
	return NewPaginated(items, r.Total, r.Page, r.PageSize)
}

// Unwrap returns the list regardless of the wire shape; never nil
func (r PagedOrArrayResponse[T]) Unwrap() []T {
	if r.Items == nil {
		return []T{}
	}
	return r.Items
}
