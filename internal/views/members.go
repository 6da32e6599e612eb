package views

import (
	"sort"
	"strings"
	"time"

	"github.com/tourabio/library-service/internal/domain"
)

// LoanSource is the read-only slice of the loan store the member derivation
// cross-references. Passed explicitly; the engine never reaches into a store.
type LoanSource struct {
	// Loans is the raw loan collection.
	Loans []domain.Loan

	// Loaded distinguishes "no loans" from "never fetched". When false the
	// statistics fields stay absent rather than reading as zero.
	Loaded bool
}

// Members derives the annotated member view.
//
// Statistics are computed by cross-referencing the loan collection. An
// unloaded loan source yields members with absent (nil) counters.
func (e *Engine) Members(members []domain.Member, filters domain.MemberFilters, loans LoanSource, now time.Time) []domain.MemberWithStats {
	filtered := make([]domain.Member, 0, len(members))
	for _, m := range members {
		if !matchMember(m, filters) {
			continue
		}
		filtered = append(filtered, m)
	}

	e.sortMembers(filtered, filters)

	view := make([]domain.MemberWithStats, len(filtered))
	for i, m := range filtered {
		view[i] = e.annotateMember(m, loans, now)
	}
	return view
}

func matchMember(m domain.Member, f domain.MemberFilters) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(m.Name), q) &&
			!strings.Contains(strings.ToLower(m.Email), q) {
			return false
		}
	}
	if f.Name != "" {
		if !strings.Contains(strings.ToLower(m.Name), strings.ToLower(f.Name)) {
			return false
		}
	}
	if f.Email != "" {
		if !strings.Contains(strings.ToLower(m.Email), strings.ToLower(f.Email)) {
			return false
		}
	}
	return true
}

func (e *Engine) annotateMember(m domain.Member, loans LoanSource, now time.Time) domain.MemberWithStats {
	stats := domain.MemberWithStats{Member: m}
	if !loans.Loaded {
		return stats
	}

	var active, overdue, total int
	for _, l := range loans.Loans {
		if l.Member.ID != m.ID {
			continue
		}
		total++
		if l.Status == domain.LoanActive {
			active++
		}
		if e.isOverdue(l, now) {
			overdue++
		}
	}
	stats.ActiveLoans = &active
	stats.OverdueLoans = &overdue
	stats.TotalLoans = &total
	return stats
}

func (e *Engine) sortMembers(members []domain.Member, f domain.MemberFilters) {
	if f.SortBy == "" {
		return
	}

	cmp := func(a, b domain.Member) int {
		if f.SortBy == "email" {
			return e.compareText(a.Email, b.Email)
		}
		return e.compareText(a.Name, b.Name)
	}

	sort.SliceStable(members, func(i, j int) bool {
		c := cmp(members[i], members[j])
		if f.SortOrder == domain.SortDesc {
			return c > 0
		}
		return c < 0
	})
}
