package scans

// PaginatedResult represents one page of a user's scan history
type PaginatedResult struct {
	Data       []*Record `json:"data"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	Total      int64     `json:"total"`
	TotalPages int       `json:"pages"`
}
