// Package pagination computes page windows and the metadata returned with
// paginated listings.
package pagination

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultPerPage is used when no page size is configured.
const DefaultPerPage = 15

// Paginator slices an ordered collection into fixed size pages.
type Paginator struct {
	PerPage int
}

// New returns a Paginator for perPage items per page. Non-positive values
// fall back to DefaultPerPage.
func New(perPage int) Paginator {
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	return Paginator{PerPage: perPage}
}

// ParsePage reads a requested page number. Anything that is not a positive
// integer means the first page.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}

	return page
}

// Window is one page of a collection of Total items.
type Window struct {
	Offset      int
	Limit       int
	CurrentPage int
	PerPage     int
	Total       int
	LastPage    int
}

// Window computes the window for page over total items. A page past the
// last one gets Offset == Total, so it selects nothing however large page
// is.
func (p Paginator) Window(page, total int) Window {
	if page < 1 {
		page = 1
	}
	if total < 0 {
		total = 0
	}

	lastPage := (total + p.PerPage - 1) / p.PerPage
	if lastPage < 1 {
		lastPage = 1
	}

	offset := total
	if page <= lastPage {
		offset = (page - 1) * p.PerPage
	}

	return Window{
		Offset:      offset,
		Limit:       p.PerPage,
		CurrentPage: page,
		PerPage:     p.PerPage,
		Total:       total,
		LastPage:    lastPage,
	}
}

// Bounds returns the 1-based inclusive indices of the count items actually
// present on the page. ok is false for an empty page.
func (w Window) Bounds(count int) (from, to int, ok bool) {
	if count <= 0 {
		return 0, 0, false
	}

	from = w.Offset + 1

	return from, from + count - 1, true
}

// OutOfRange reports whether the page lies past the last page, or the
// collection is empty.
func (w Window) OutOfRange() bool {
	return w.CurrentPage > w.LastPage || w.Offset >= w.Total
}

// HasPrev reports whether a previous page link should be emitted.
func (w Window) HasPrev() bool {
	return w.CurrentPage > 1
}

// HasNext reports whether a next page link should be emitted.
func (w Window) HasNext() bool {
	return w.CurrentPage < w.LastPage
}

// PageURL returns path with the page query parameter set.
func PageURL(path string, page int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))

	return path + "?" + q.Encode()
}
