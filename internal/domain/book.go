package domain

// AvailabilityStatus classifies how many copies of a book remain loanable.
type AvailabilityStatus string

const (
	// AvailabilityAvailable means more than 20% of copies remain.
	AvailabilityAvailable AvailabilityStatus = "available"

	// AvailabilityLimited means at most 20% of copies remain.
	AvailabilityLimited AvailabilityStatus = "limited"

	// AvailabilityUnavailable means no copies remain.
	AvailabilityUnavailable AvailabilityStatus = "unavailable"
)

// Book matches the backend BookTO transfer shape.
//
// The wire format carries no stable identifier: list responses omit "id",
// so two books sharing title and author are indistinguishable on the wire.
// Consumers that need identity address books through collection handles
// (see internal/collection), never by field equality.
type Book struct {
	ID              int64  `json:"id,omitempty"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	TotalCopies     int    `json:"totalCopies"`
	AvailableCopies int    `json:"availableCopies"`
}

// IsAvailable reports whether at least one copy can be loaned.
func (b Book) IsAvailable() bool {
	return b.AvailableCopies > 0
}

// Availability classifies the book's remaining stock.
//
// Classification:
//   - 0 copies available: unavailable
//   - available <= 0.2 * total: limited
//   - otherwise: available
func (b Book) Availability() AvailabilityStatus {
	switch {
	case b.AvailableCopies == 0:
		return AvailabilityUnavailable
	case float64(b.AvailableCopies) <= 0.2*float64(b.TotalCopies):
		return AvailabilityLimited
	default:
		return AvailabilityAvailable
	}
}
