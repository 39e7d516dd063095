package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPage(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{name: "defaults", page: 0, limit: 0, wantPage: 1, wantLimit: 10},
		{name: "negative page", page: -3, limit: 5, wantPage: 1, wantLimit: 5},
		{name: "limit capped", page: 2, limit: 500, wantPage: 2, wantLimit: 100},
		{name: "huge page", page: 1 << 62, limit: 100, wantPage: math.MaxInt32/100 + 1, wantLimit: 100},
		{name: "max int page", page: math.MaxInt, limit: 1, wantPage: math.MaxInt32 + 1, wantLimit: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := ClampPage(tt.page, tt.limit, 10, 100)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
			assert.LessOrEqual(t, (page-1)*limit, math.MaxInt32)
		})
	}
}

func TestNewMeta(t *testing.T) {
	assert.Equal(t, Meta{Page: 1, Limit: 10, Total: 0, TotalPages: 0}, NewMeta(1, 10, 0))
	assert.Equal(t, Meta{Page: 2, Limit: 10, Total: 21, TotalPages: 3}, NewMeta(2, 10, 21))
}
