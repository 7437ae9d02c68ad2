package services

import "creator-dashboard/models"

// Paginate returns the 1-indexed page of rows. Pages outside the sequence
// come back empty rather than clamped.
func Paginate(rows []*models.Row, pageSize, page int) []*models.Row {
	if pageSize < 1 || page < 1 || page > TotalPages(len(rows), pageSize) {
		return []*models.Row{}
	}
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return []*models.Row{}
	}
	end := min(start+pageSize, len(rows))
	return rows[start:end:end]
}

// TotalPages is ceil(n / pageSize), zero for an empty sequence.
func TotalPages(n, pageSize int) int {
	if n <= 0 || pageSize < 1 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}
