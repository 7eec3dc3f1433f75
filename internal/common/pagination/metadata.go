package pagination

// Metadata describes the page returned to the client.
type Metadata struct {
	Total      int64 `json:"total"`      // Total number of items across all pages
	Page       int   `json:"page"`       // Current page number (1-based)
	Limit      int   `json:"limit"`      // Items per page
	TotalPages int   `json:"totalPages"` // At least 1
}
