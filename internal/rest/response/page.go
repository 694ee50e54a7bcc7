package response

import "github.com/systemink/api/domain"

type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

func NewPageMeta(m domain.PageMeta) PageMeta {
	return PageMeta{
		Total:      m.Total,
		Page:       m.Page,
		Limit:      m.Limit,
		TotalPages: m.TotalPages,
	}
}

// Paged is the envelope for every offset-paginated listing.
type Paged[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

func NewPaged[T any](data []T, m domain.PageMeta) Paged[T] {
	if data == nil {
		data = []T{}
	}
	return Paged[T]{Data: data, Meta: NewPageMeta(m)}
}
