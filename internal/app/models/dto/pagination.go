package dto

import "math"

// PageResponse is the pagination envelope used by all list endpoints.
// Pages are 1-based.
type PageResponse struct {
	Content       interface{} `json:"content"`
	TotalElements int64       `json:"totalElements"`
	TotalPages    int         `json:"totalPages"`
	Page          int         `json:"page"`
	Size          int         `json:"size"`
}

// NewPageResponse assembles a page envelope. An empty result set still
// reports one page.
func NewPageResponse(content interface{}, totalElements int64, page, size int) *PageResponse {
	totalPages := 1
	if totalElements > 0 && size > 0 {
		totalPages = int(math.Ceil(float64(totalElements) / float64(size)))
	}
	return &PageResponse{
		Content:       content,
		TotalElements: totalElements,
		TotalPages:    totalPages,
		Page:          page,
		Size:          size,
	}
}
