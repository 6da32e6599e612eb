package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourabio/library-service/internal/domain"
)

// Fixed derivation instant for deterministic tests.
var now = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

var (
	dune     = domain.Book{ID: 3, Title: "Dune", Author: "Frank Herbert", TotalCopies: 10, AvailableCopies: 2}
	john     = domain.Member{ID: 1, Name: "John Doe", Email: "john.doe@example.com"}
	alice    = domain.Member{ID: 2, Name: "Alice Smith", Email: "alice@example.com"}
)

func sampleLoans() []domain.Loan {
	return []domain.Loan{
		{ID: 1, Book: dune, Member: john, LoanDate: "2026-08-01", DueDate: "2026-08-15", Status: domain.LoanActive},
		{ID: 2, Book: dune, Member: alice, LoanDate: "2026-08-20", DueDate: "2026-09-10", Status: domain.LoanActive},
		{ID: 3, Book: dune, Member: john, LoanDate: "2026-07-01", DueDate: "2026-07-15", ReturnDate: "2026-07-10", Status: domain.LoanReturned},
	}
}

func TestLoans_OverdueClassification(t *testing.T) {
	view := testEngine().Loans(sampleLoans(), domain.LoanFilters{}, now)
	require.Len(t, view, 3)

	// Active, due 2026-08-15, two weeks ago: overdue, negative days.
	assert.True(t, view[0].IsOverdue)
	assert.Negative(t, view[0].DaysUntilDue)

	// Active, due 2026-09-10: not overdue yet.
	assert.False(t, view[1].IsOverdue)
	assert.Equal(t, 12, view[1].DaysUntilDue)

	// Returned loans are never overdue, however old the due date.
	assert.False(t, view[2].IsOverdue)
}

func TestLoans_DaysUntilDueIsCeiling(t *testing.T) {
	loans := []domain.Loan{
		{ID: 1, Book: dune, Member: john, LoanDate: "2026-08-28", DueDate: "2026-08-30", Status: domain.LoanActive},
	}
	view := testEngine().Loans(loans, domain.LoanFilters{}, now)

	// Due at 2026-08-30T00:00, now 2026-08-29T12:00: 0.5 days away, ceils to 1.
	require.Len(t, view, 1)
	assert.Equal(t, 1, view[0].DaysUntilDue)
}

func TestLoans_MalformedDueDateDegradesGracefully(t *testing.T) {
	loans := []domain.Loan{
		{ID: 1, Book: dune, Member: john, LoanDate: "2026-08-01", DueDate: "not-a-date", Status: domain.LoanActive},
	}

	view := testEngine().Loans(loans, domain.LoanFilters{}, now)

	require.Len(t, view, 1, "a malformed date must not drop the loan from the view")
	assert.False(t, view[0].IsOverdue, "unparseable due date reports not overdue")
	assert.Zero(t, view[0].DaysUntilDue)
}

func TestLoans_StatusFilter(t *testing.T) {
	view := testEngine().Loans(sampleLoans(), domain.LoanFilters{Status: domain.LoanReturned}, now)
	require.Len(t, view, 1)
	assert.Equal(t, int64(3), view[0].ID)
}

func TestLoans_OverdueOnlyFilter(t *testing.T) {
	view := testEngine().Loans(sampleLoans(), domain.LoanFilters{OverdueOnly: true}, now)
	require.Len(t, view, 1)
	assert.Equal(t, int64(1), view[0].ID)
}

func TestLoans_MemberAndBookFilters(t *testing.T) {
	byMember := testEngine().Loans(sampleLoans(), domain.LoanFilters{MemberID: 2}, now)
	require.Len(t, byMember, 1)
	assert.Equal(t, int64(2), byMember[0].ID)

	byBook := testEngine().Loans(sampleLoans(), domain.LoanFilters{BookID: dune.ID}, now)
	assert.Len(t, byBook, 3)
}

func TestLoans_SortByDueDateChronological(t *testing.T) {
	view := testEngine().Loans(sampleLoans(), domain.LoanFilters{SortBy: "dueDate"}, now)

	dues := []string{view[0].DueDate, view[1].DueDate, view[2].DueDate}
	assert.Equal(t, []string{"2026-07-15", "2026-08-15", "2026-09-10"}, dues)
}

func TestLoans_SortByLoanDateDescending(t *testing.T) {
	view := testEngine().Loans(sampleLoans(), domain.LoanFilters{SortBy: "loanDate", SortOrder: domain.SortDesc}, now)

	ids := []int64{view[0].ID, view[1].ID, view[2].ID}
	assert.Equal(t, []int64{2, 1, 3}, ids)
}

func TestLoans_MalformedDatesSortFirst(t *testing.T) {
	loans := append(sampleLoans(), domain.Loan{
		ID: 4, Book: dune, Member: john, LoanDate: "garbage", DueDate: "2026-10-01", Status: domain.LoanActive,
	})
	view := testEngine().Loans(loans, domain.LoanFilters{SortBy: "loanDate"}, now)

	require.Len(t, view, 4)
	assert.Equal(t, int64(4), view[0].ID)
}

func TestOverdue_Projection(t *testing.T) {
	overdue := testEngine().Overdue(sampleLoans(), now)
	require.Len(t, overdue, 1)
	assert.Equal(t, int64(1), overdue[0].ID)
}

func TestDashboard_Aggregates(t *testing.T) {
	books := sampleBooks()
	members := []domain.Member{john, alice}
	stats := testEngine().Dashboard(books, members, sampleLoans(), now)

	assert.Equal(t, domain.DashboardStats{
		TotalBooks:     3,
		TotalMembers:   2,
		ActiveLoans:    2,
		OverdueLoans:   1,
		AvailableBooks: 2,
	}, stats)
}
