package domain

// Pagination bounds shared by the repositories and the meta maths, so
// the meta a caller sees always matches the query that produced it.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageMeta describes one page of an offset-paginated listing.
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

// VerifyPage clamps page and limit into their allowed ranges.
func VerifyPage(page, limit *int64) {
	if *page < 1 {
		*page = DefaultPage
	}
	if *limit < 1 {
		*limit = DefaultLimit
	}
	if *limit > MaxLimit {
		*limit = MaxLimit
	}
}

// NewPageMeta derives the metadata for a listing filtered to total rows.
// Inputs are clamped the same way the repositories clamp them.
func NewPageMeta(total, page, limit int64) PageMeta {
	VerifyPage(&page, &limit)
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	return PageMeta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
