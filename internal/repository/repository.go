package repository

import "errors"

var ErrNotFound = errors.New("not found")

// limitOffset converts 1-based page / page_size into SQL LIMIT/OFFSET values.
func limitOffset(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return pageSize, (page - 1) * pageSize
}
