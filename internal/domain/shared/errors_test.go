package shared

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage(t *testing.T) {
	tests := []struct {
		name             string
		page, size, max  int
		wantPage, wantSz int
	}{
		{"defaults", 0, 0, 100, 1, 20},
		{"negative", -3, -1, 100, 1, 20},
		{"size capped", 2, 500, 100, 2, 100},
		{"huge page", math.MaxInt, 10, 100, math.MaxInt32 / 10, 10},
		{"huge page and size", math.MaxInt, math.MaxInt32, math.MaxInt32, 1, math.MaxInt32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := Page(tt.page, tt.size, 20, tt.max)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantSz, size)
			assert.GreaterOrEqual(t, (page-1)*size, 0)
		})
	}
}

func TestPages(t *testing.T) {
	assert.Equal(t, 0, Pages(0, 10))
	assert.Equal(t, 1, Pages(10, 10))
	assert.Equal(t, 2, Pages(11, 10))
	assert.Equal(t, 0, Pages(5, 0))
}
