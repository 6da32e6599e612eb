package domain

// SortOrder selects sort direction. Ascending is the default.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// AvailabilityFilter narrows books by stock state.
type AvailabilityFilter string

const (
	FilterAll         AvailabilityFilter = "all"
	FilterAvailable   AvailabilityFilter = "available"
	FilterUnavailable AvailabilityFilter = "unavailable"
)

// BookFilters is the filter/sort specification for book views.
//
// Filters are pure configuration: value objects replaced wholesale on every
// update, never mutated in place. Zero-value fields are no-ops.
type BookFilters struct {
	// Query is a case-insensitive substring match against title and author.
	Query string

	// Author narrows to books whose author contains this substring.
	Author string

	// Availability narrows by stock state. Empty or FilterAll keeps everything.
	Availability AvailabilityFilter

	// SortBy is one of "title", "author", "availability". Empty preserves
	// the order the backend returned.
	SortBy string

	// SortOrder defaults to ascending.
	SortOrder SortOrder
}

// LoanFilters is the filter/sort specification for loan views.
type LoanFilters struct {
	// MemberID narrows to loans held by one member. Zero is a no-op.
	MemberID int64

	// BookID narrows to loans of one book. Zero is a no-op.
	BookID int64

	// Status narrows to loans in one state. Empty is a no-op.
	Status LoanStatus

	// OverdueOnly keeps only loans that are ACTIVE and past due.
	OverdueOnly bool

	// SortBy is one of "loanDate", "dueDate", "status".
	SortBy string

	SortOrder SortOrder
}

// MemberFilters is the filter/sort specification for member views.
type MemberFilters struct {
	// Query is a case-insensitive substring match against name and email.
	Query string

	// Name narrows to members whose name contains this substring.
	Name string

	// Email narrows to members whose email contains this substring.
	Email string

	// SortBy is one of "name", "email".
	SortBy string

	SortOrder SortOrder
}
