package views

import (
	"sort"
	"strings"

	"github.com/tourabio/library-service/internal/domain"
)

// Books derives the annotated book view.
func (e *Engine) Books(books []domain.Book, filters domain.BookFilters) []domain.BookWithAvailability {
	filtered := make([]domain.Book, 0, len(books))
	for _, b := range books {
		if !matchBook(b, filters) {
			continue
		}
		filtered = append(filtered, b)
	}

	e.sortBooks(filtered, filters)

	view := make([]domain.BookWithAvailability, len(filtered))
	for i, b := range filtered {
		view[i] = domain.BookWithAvailability{
			Book:               b,
			IsAvailable:        b.IsAvailable(),
			AvailabilityStatus: b.Availability(),
		}
	}
	return view
}

func matchBook(b domain.Book, f domain.BookFilters) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(b.Title), q) &&
			!strings.Contains(strings.ToLower(b.Author), q) {
			return false
		}
	}
	if f.Author != "" {
		if !strings.Contains(strings.ToLower(b.Author), strings.ToLower(f.Author)) {
			return false
		}
	}
	switch f.Availability {
	case domain.FilterAvailable:
		if !b.IsAvailable() {
			return false
		}
	case domain.FilterUnavailable:
		if b.IsAvailable() {
			return false
		}
	}
	return true
}

func (e *Engine) sortBooks(books []domain.Book, f domain.BookFilters) {
	if f.SortBy == "" {
		return
	}

	cmp := func(a, b domain.Book) int {
		switch f.SortBy {
		case "author":
			return e.compareText(a.Author, b.Author)
		case "availability":
			return a.AvailableCopies - b.AvailableCopies
		default: // "title"
			return e.compareText(a.Title, b.Title)
		}
	}

	sort.SliceStable(books, func(i, j int) bool {
		c := cmp(books[i], books[j])
		if f.SortOrder == domain.SortDesc {
			return c > 0
		}
		return c < 0
	})
}
