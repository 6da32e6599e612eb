package views

import (
	"time"

	"github.com/tourabio/library-service/internal/domain"
)

// Dashboard aggregates the three raw collections into the admin overview.
func (e *Engine) Dashboard(books []domain.Book, members []domain.Member, loans []domain.Loan, now time.Time) domain.DashboardStats {
	stats := domain.DashboardStats{
		TotalBooks:   len(books),
		TotalMembers: len(members),
	}
	for _, b := range books {
		if b.IsAvailable() {
			stats.AvailableBooks++
		}
	}
	for _, l := range loans {
		if l.Status == domain.LoanActive {
			stats.ActiveLoans++
		}
		if e.isOverdue(l, now) {
			stats.OverdueLoans++
		}
	}
	return stats
}
