package api

import (
	"msgarchive/models"
)

// Response is the envelope every HTTP endpoint responds with.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Pagination describes the page window of a listing. Total reflects the
// count after filters and before pagination.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// PaginatedMessages is the payload of the message listing endpoint.
type PaginatedMessages struct {
	Data       []*models.ArchivedMessage `json:"data"`
	Pagination Pagination                `json:"pagination"`
}

// NewPagination computes page metadata for a filtered total.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
