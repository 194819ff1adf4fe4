package service

import (
	"math"
	"strings"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	// maxPage keeps (page-1)*limit inside an int32 offset for every store.
	maxPage = math.MaxInt32/maxPageLimit + 1
)

// normalizePage clamps 1-based page/limit query parameters.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
