package pagination

import (
	"fmt"
	"math"
)

// TotalPages returns the number of pages needed for total items.
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// Offset converts a 1-based page into a row offset.
func Offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

// Showing renders the "1-20 of 57" label used by list responses.
func Showing(page, limit int, total int64) string {
	if total == 0 {
		return "0-0 of 0"
	}
	start := int64(Offset(page, limit)) + 1
	end := start + int64(limit) - 1
	if end > total {
		end = total
	}
	if start > total {
		return fmt.Sprintf("0-0 of %d", total)
	}
	return fmt.Sprintf("%d-%d of %d", start, end, total)
}
