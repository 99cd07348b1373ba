package dto

// APIResponse is the standard success envelope for API endpoints
type APIResponse struct {
	Data  interface{}  `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// SuccessResponse represents a standard success response with a message
type SuccessResponse struct {
	Message string `json:"message"`
}

// PaginationInfo describes the page position of a list response
type PaginationInfo struct {
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// PagedResponse wraps a list payload with its pagination info
type PagedResponse struct {
	Items      interface{}    `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}
