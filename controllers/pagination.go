package controllers

import (
	"errors"
	"net/http"
	"strconv"
)

// Pagination is the envelope every list endpoint returns alongside items.
type Pagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

var errInvalidPagination = errors.New("Page and limit must be positive integers")

// parsePageLimit reads page and limit query parameters, defaulting to 1
// and 10. Values below 1 are rejected.
func parsePageLimit(r *http.Request) (page, limit int, err error) {
	page, limit = 1, 10
	if v := r.URL.Query().Get("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, errInvalidPagination
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, errInvalidPagination
		}
	}
	if page < 1 || limit < 1 {
		return 0, 0, errInvalidPagination
	}
	return page, limit, nil
}

func newPagination(total int64, page, limit int) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
