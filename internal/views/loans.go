package views

import (
	"math"
	"sort"
	"time"

	"github.com/tourabio/library-service/internal/domain"
)

// Loans derives the annotated loan view at the given instant.
//
// now is an explicit input so the derivation stays a pure function; callers
// pass time.Now() in production and a fixed instant in tests.
func (e *Engine) Loans(loans []domain.Loan, filters domain.LoanFilters, now time.Time) []domain.LoanWithDetails {
	filtered := make([]domain.Loan, 0, len(loans))
	for _, l := range loans {
		if !e.matchLoan(l, filters, now) {
			continue
		}
		filtered = append(filtered, l)
	}

	e.sortLoans(filtered, filters)

	view := make([]domain.LoanWithDetails, len(filtered))
	for i, l := range filtered {
		view[i] = domain.LoanWithDetails{
			Loan:         l,
			IsOverdue:    e.isOverdue(l, now),
			DaysUntilDue: e.daysUntilDue(l, now),
		}
	}
	return view
}

// Overdue projects the loans that are active and past due, in baseline order.
func (e *Engine) Overdue(loans []domain.Loan, now time.Time) []domain.Loan {
	overdue := make([]domain.Loan, 0)
	for _, l := range loans {
		if e.isOverdue(l, now) {
			overdue = append(overdue, l)
		}
	}
	return overdue
}

func (e *Engine) matchLoan(l domain.Loan, f domain.LoanFilters, now time.Time) bool {
	if f.MemberID != 0 && l.Member.ID != f.MemberID {
		return false
	}
	if f.BookID != 0 && l.Book.ID != f.BookID {
		return false
	}
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if f.OverdueOnly && !e.isOverdue(l, now) {
		return false
	}
	return true
}

// isOverdue reports whether the loan is active and past its due date.
// A malformed due date never fails the derivation: the loan reports as not
// overdue and a warning is logged.
func (e *Engine) isOverdue(l domain.Loan, now time.Time) bool {
	if l.Status != domain.LoanActive {
		return false
	}
	due, err := domain.ParseDate(l.DueDate)
	if err != nil {
		e.logger.Warn("excluding loan from overdue computation", "loan_id", l.ID, "error", err)
		return false
	}
	return now.After(due)
}

// daysUntilDue is the ceiling of (dueDate - now) in days; negative once the
// loan is overdue, 0 when the due date cannot be parsed.
func (e *Engine) daysUntilDue(l domain.Loan, now time.Time) int {
	due, err := domain.ParseDate(l.DueDate)
	if err != nil {
		return 0
	}
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

func (e *Engine) sortLoans(loans []domain.Loan, f domain.LoanFilters) {
	if f.SortBy == "" {
		return
	}

	cmp := func(a, b domain.Loan) int {
		switch f.SortBy {
		case "dueDate":
			return compareDates(a.DueDate, b.DueDate)
		case "status":
			return e.compareText(string(a.Status), string(b.Status))
		default: // "loanDate"
			return compareDates(a.LoanDate, b.LoanDate)
		}
	}

	sort.SliceStable(loans, func(i, j int) bool {
		c := cmp(loans[i], loans[j])
		if f.SortOrder == domain.SortDesc {
			return c > 0
		}
		return c < 0
	})
}

// compareDates orders wire dates chronologically. Malformed dates sort
// before everything else so they stay visible at the top of the list.
func compareDates(a, b string) int {
	ta, errA := domain.ParseDate(a)
	tb, errB := domain.ParseDate(b)
	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	return ta.Compare(tb)
}
