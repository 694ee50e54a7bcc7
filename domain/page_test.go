package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageMeta(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		page     int64
		limit    int64
		expected PageMeta
	}{
		{
			name:     "exact pages",
			total:    100, page: 2, limit: 20,
			expected: PageMeta{Total: 100, Page: 2, Limit: 20, TotalPages: 5},
		},
		{
			name:     "partial last page",
			total:    101, page: 1, limit: 20,
			expected: PageMeta{Total: 101, Page: 1, Limit: 20, TotalPages: 6},
		},
		{
			name:     "zero limit falls back to default",
			total:    45, page: 1, limit: 0,
			expected: PageMeta{Total: 45, Page: 1, Limit: DefaultLimit, TotalPages: 3},
		},
		{
			name:     "oversized limit clamped to max",
			total:    250, page: 1, limit: 500,
			expected: PageMeta{Total: 250, Page: 1, Limit: MaxLimit, TotalPages: 3},
		},
		{
			name:     "negative page falls back to first",
			total:    10, page: -3, limit: 20,
			expected: PageMeta{Total: 10, Page: DefaultPage, Limit: 20, TotalPages: 1},
		},
		{
			name:     "empty listing",
			total:    0, page: 1, limit: 20,
			expected: PageMeta{Total: 0, Page: 1, Limit: 20, TotalPages: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewPageMeta(tt.total, tt.page, tt.limit))
		})
	}
}

func TestVerifyPage(t *testing.T) {
	page, limit := int64(0), int64(-5)
	VerifyPage(&page, &limit)
	assert.Equal(t, int64(DefaultPage), page)
	assert.Equal(t, int64(DefaultLimit), limit)

	page, limit = 3, 1000
	VerifyPage(&page, &limit)
	assert.Equal(t, int64(3), page)
	assert.Equal(t, int64(MaxLimit), limit)
}
