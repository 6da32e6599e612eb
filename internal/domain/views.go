package domain

// BookWithAvailability is a book annotated with computed stock fields.
type BookWithAvailability struct {
	Book
	IsAvailable        bool               `json:"isAvailable"`
	AvailabilityStatus AvailabilityStatus `json:"availabilityStatus"`
}

// LoanWithDetails is a loan annotated with computed due-date fields.
//
// DaysUntilDue is the ceiling of (dueDate - now) in days and goes negative
// once a loan is overdue.
type LoanWithDetails struct {
	Loan
	IsOverdue    bool `json:"isOverdue"`
	DaysUntilDue int  `json:"daysUntilDue"`
}

// MemberWithStats is a member annotated with loan statistics.
//
// The counters are nil when the loan collection has not been loaded:
// an unloaded cross-reference must not read as "no loans".
type MemberWithStats struct {
	Member
	ActiveLoans  *int `json:"activeLoans,omitempty"`
	OverdueLoans *int `json:"overdueLoans,omitempty"`
	TotalLoans   *int `json:"totalLoans,omitempty"`
}

// DashboardStats aggregates the three collections for the admin overview.
type DashboardStats struct {
	TotalBooks     int `json:"totalBooks"`
	TotalMembers   int `json:"totalMembers"`
	ActiveLoans    int `json:"activeLoans"`
	OverdueLoans   int `json:"overdueLoans"`
	AvailableBooks int `json:"availableBooks"`
}
