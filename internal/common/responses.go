package common

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// Page is the inner list envelope. Handlers wrap it as {"data": page}.
type Page[T any] struct {
	Data        []T `json:"data"`
	Total       int `json:"total"`
	PerPage     int `json:"perPage"`
	CurrentPage int `json:"currentPage"`
	LastPage    int `json:"lastPage"`
}

// NewPage builds a page envelope; a nil slice is rendered as [].
func NewPage[T any](items []T, total int, params ListParams) Page[T] {
	if items == nil {
		items = []T{}
	}
	lastPage := 1
	if params.PerPage > 0 && total > 0 {
		lastPage = (total + params.PerPage - 1) / params.PerPage
	}
	return Page[T]{
		Data:        items,
		Total:       total,
		PerPage:     params.PerPage,
		CurrentPage: params.Page,
		LastPage:    lastPage,
	}
}

// DataEnvelope wraps a payload as {"data": payload}.
func DataEnvelope(payload any) map[string]any {
	return map[string]any{"data": payload}
}
