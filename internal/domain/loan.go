package domain

import (
	"fmt"
	"time"
)

// LoanStatus mirrors the backend LoanStatus enum.
type LoanStatus string

const (
	LoanActive   LoanStatus = "ACTIVE"
	LoanReturned LoanStatus = "RETURNED"
	LoanOverdue  LoanStatus = "OVERDUE"
)

// DateLayout is the wire format for loan dates (ISO calendar date).
const DateLayout = "2006-01-02"

// Loan matches the backend LoanTO transfer shape.
//
// Dates stay in their wire form (ISO date strings). Parsing happens at
// derivation time so that a single malformed date degrades one computed
// field instead of failing the whole fetch.
//
// INVARIANT: ReturnDate non-empty implies Status != ACTIVE.
type Loan struct {
	ID         int64      `json:"id,omitempty"`
	Book       Book       `json:"book"`
	Member     Member     `json:"member"`
	LoanDate   string     `json:"loanDate"`
	DueDate    string     `json:"dueDate"`
	ReturnDate string     `json:"returnDate,omitempty"`
	Status     LoanStatus `json:"status"`
}

// LoanRequest matches the backend LoanRequestTO used to check out a book.
type LoanRequest struct {
	BookID   int64 `json:"bookId"`
	MemberID int64 `json:"memberId"`
}

// ParseDate parses a wire-format loan date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid loan date %q: %w", s, err)
	}
	return t, nil
}
