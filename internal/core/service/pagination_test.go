package service

import (
	"math"
	"testing"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name                string
		page, limit         int
		wantPage, wantLimit int
	}{
		{"defaults", 0, 0, 1, defaultPageLimit},
		{"negative page", -4, 10, 1, 10},
		{"limit clamped", 2, 500, 2, maxPageLimit},
		{"huge page", math.MaxInt, 100, maxPage, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := normalizePage(tt.page, tt.limit)
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Fatalf("normalizePage(%d, %d) = (%d, %d), want (%d, %d)",
					tt.page, tt.limit, page, limit, tt.wantPage, tt.wantLimit)
			}
			if offset := (page - 1) * limit; offset < 0 || offset > math.MaxInt32 {
				t.Fatalf("offset %d out of range", offset)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	if totalPages(0, 20) != 0 || totalPages(1, 20) != 1 || totalPages(41, 20) != 3 {
		t.Fatalf("unexpected total pages")
	}
}
