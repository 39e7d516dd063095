package model

import "math"

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *Meta     `json:"meta,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewMeta(page int, limit int, total int) Meta {
	totalPages := 0
	if total > 0 && limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// ClampPage normalises pagination input the same way for every list. The
// page is capped so that (page-1)*limit fits a Postgres integer offset.
func ClampPage(page int, limit int, defaultLimit int, maxLimit int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if page < 1 {
		page = 1
	}
	if maxPage := math.MaxInt32/limit + 1; page > maxPage {
		page = maxPage
	}

	return page, limit
}
