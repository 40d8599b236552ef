package content

import "github.com/jinkyeom/sciencestop/internal/models"

// pageWindow is how many page numbers a listing offers at once.
const pageWindow = 5

// Page is one slice of a document listing.
type Page struct {
	Items      []models.Document `json:"posts"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	Window     []int             `json:"pages"`
}

// Paginate cuts docs into pages of size and returns page (1-based, clamped).
// Window holds up to five page numbers centred on the current page; it is
// empty when there is a single page.
func Paginate(docs []models.Document, page, size int) Page {
	if size <= 0 {
		size = len(docs)
		if size == 0 {
			size = 1
		}
	}
	total := len(docs)
	totalPages := (total + size - 1) / size
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := min(start+size, total)
	items := []models.Document{}
	if start < total {
		items = append(items, docs[start:end]...)
	}

	return Page{
		Items:      items,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
		Window:     window(page, totalPages),
	}
}

func window(page, totalPages int) []int {
	if totalPages <= 1 {
		return []int{}
	}
	start := max(1, page-pageWindow/2)
	end := start + pageWindow - 1
	if end > totalPages {
		end = totalPages
		start = max(1, end-pageWindow+1)
	}
	out := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		out = append(out, p)
	}
	return out
}
