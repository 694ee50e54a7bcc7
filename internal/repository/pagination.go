package repository

import "github.com/systemink/api/domain"

// PageVerify clamps page and limit into their allowed ranges.
func PageVerify(page, limit *int64) {
	domain.VerifyPage(page, limit)
}

// Offset converts a 1-based page into a row offset.
func Offset(page, limit int64) int {
	return int((page - 1) * limit)
}
