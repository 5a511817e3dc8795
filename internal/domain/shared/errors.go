package shared

import (
	"errors"
	"math"
)

var (
	// caller errors
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// repository errors
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrStoreUnavailable = errors.New("store unavailable")

	// optional integrations (object storage, ai) not configured
	ErrFeatureDisabled = errors.New("feature not configured")
)

// Page normalises 1-based pagination input. pageSize falls back to
// defaultSize and is capped at maxSize. page is capped so that the offset
// (page-1)*pageSize stays within an int32.
func Page(page, pageSize, defaultSize, maxSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}
	if last := math.MaxInt32 / pageSize; page > last {
		page = last
	}
	return page, pageSize
}

// Pages returns the number of pages needed for total items.
func Pages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
