package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewParams(t *testing.T) {
	tests := []struct {
		name       string
		page       string
		limit      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults on garbage", "x", "y", 1, DefaultLimit, 0},
		{"second page", "2", "10", 2, 10, 10},
		{"limit clamped", "1", "1000", 1, MaxLimit, 0},
		{"negative page", "-3", "5", 1, 5, 0},
		{"huge page clamped", "9223372036854775807", "100", MaxPage, 100, (MaxPage - 1) * 100},
		{"page beyond int range", "99999999999999999999999", "10", MaxPage, 10, (MaxPage - 1) * 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParams(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestGetMeta(t *testing.T) {
	meta := GetMeta(&Params{Page: 2, Limit: 10, Offset: 10}, 25)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	last := GetMeta(&Params{Page: 3, Limit: 10, Offset: 20}, 25)
	assert.False(t, last.HasNext)
}
