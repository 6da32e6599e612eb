// Package testutil provides test doubles shared across packages: an
// in-memory fake of the library backend served over httptest.
package testutil

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/tourabio/library-service/internal/api"
	"github.com/tourabio/library-service/internal/domain"
)

// Backend is an in-memory library backend.
//
// Mutate the exported fields (under Lock if the test is concurrent) to shape
// responses; set FailStatus to make every endpoint fail with that HTTP
// status. Requests counts round trips for retry assertions.
type Backend struct {
	mu sync.Mutex

	Books   []domain.Book
	Members []domain.Member
	Loans   []domain.Loan

	// FailStatus, when non-zero, makes every endpoint respond with it.
	FailStatus int

	// Requests counts HTTP round trips.
	Requests int

	nextBookID   int64
	nextMemberID int64
	nextLoanID   int64

	srv *httptest.Server
}

// NewBackend starts a fake backend; it shuts down with the test.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{nextBookID: 1, nextMemberID: 1, nextLoanID: 1}
	b.srv = httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(b.srv.Close)
	return b
}

// URL returns the backend's base URL.
func (b *Backend) URL() string {
	return b.srv.URL
}

// Client returns an api.Client pointed at this backend with logging discarded.
func (b *Backend) Client() *api.Client {
	return api.New(b.srv.URL, api.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

// AddMember registers a member and returns it with an assigned id.
func (b *Backend) AddMember(name, email string) domain.Member {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := domain.Member{ID: b.nextMemberID, Name: name, Email: email}
	b.nextMemberID++
	b.Members = append(b.Members, m)
	return m
}

// AddBook registers a book and returns it with an assigned id.
func (b *Backend) AddBook(title, author string, total, available int) domain.Book {
	b.mu.Lock()
	defer b.mu.Unlock()
	bk := domain.Book{ID: b.nextBookID, Title: title, Author: author, TotalCopies: total, AvailableCopies: available}
	b.nextBookID++
	b.Books = append(b.Books, bk)
	return bk
}

// AddLoan registers a loan and returns it with an assigned id.
func (b *Backend) AddLoan(book domain.Book, member domain.Member, loanDate, dueDate string, status domain.LoanStatus) domain.Loan {
	b.mu.Lock()
	defer b.mu.Unlock()
	l := domain.Loan{ID: b.nextLoanID, Book: book, Member: member, LoanDate: loanDate, DueDate: dueDate, Status: status}
	b.nextLoanID++
	b.Loans = append(b.Loans, l)
	return l
}

func (b *Backend) handle(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Requests++

	if b.FailStatus != 0 {
		w.WriteHeader(b.FailStatus)
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case path == "/members/authenticate":
		b.authenticate(w, r)
	case path == "/books" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, b.Books)
	case path == "/books/available" && r.Method == http.MethodGet:
		available := []domain.Book{}
		for _, bk := range b.Books {
			if bk.AvailableCopies > 0 {
				available = append(available, bk)
			}
		}
		writeJSON(w, http.StatusOK, available)
	case path == "/books" && r.Method == http.MethodPost:
		var bk domain.Book
		json.NewDecoder(r.Body).Decode(&bk)
		bk.ID = b.nextBookID
		b.nextBookID++
		b.Books = append(b.Books, bk)
		writeJSON(w, http.StatusCreated, bk)
	case strings.HasPrefix(path, "/books/"):
		b.bookByID(w, r, strings.TrimPrefix(path, "/books/"))
	case path == "/members" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, b.Members)
	case path == "/members" && r.Method == http.MethodPost:
		var m domain.Member
		json.NewDecoder(r.Body).Decode(&m)
		m.ID = b.nextMemberID
		b.nextMemberID++
		b.Members = append(b.Members, m)
		writeJSON(w, http.StatusCreated, m)
	case strings.HasPrefix(path, "/members/"):
		b.memberByID(w, r, strings.TrimPrefix(path, "/members/"))
	case path == "/loans" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, b.Loans)
	case path == "/loans" && r.Method == http.MethodPost:
		b.createLoan(w, r)
	case path == "/loans/overdue":
		overdue := []domain.Loan{}
		for _, l := range b.Loans {
			if l.Status == domain.LoanOverdue {
				overdue = append(overdue, l)
			}
		}
		writeJSON(w, http.StatusOK, overdue)
	case strings.HasPrefix(path, "/loans/member/"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(path, "/loans/member/"), 10, 64)
		matched := []domain.Loan{}
		for _, l := range b.Loans {
			if l.Member.ID == id {
				matched = append(matched, l)
			}
		}
		writeJSON(w, http.StatusOK, matched)
	case strings.HasPrefix(path, "/loans/book/"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(path, "/loans/book/"), 10, 64)
		matched := []domain.Loan{}
		for _, l := range b.Loans {
			if l.Book.ID == id {
				matched = append(matched, l)
			}
		}
		writeJSON(w, http.StatusOK, matched)
	case strings.HasPrefix(path, "/loans/") && strings.HasSuffix(path, "/return"):
		b.returnLoan(w, strings.TrimSuffix(strings.TrimPrefix(path, "/loans/"), "/return"))
	case strings.HasPrefix(path, "/loans/"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(path, "/loans/"), 10, 64)
		for _, l := range b.Loans {
			if l.ID == id {
				writeJSON(w, http.StatusOK, l)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (b *Backend) authenticate(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	email := r.URL.Query().Get("email")
	for _, m := range b.Members {
		if m.Name == name && m.Email == email {
			writeJSON(w, http.StatusOK, m)
			return
		}
	}
	w.WriteHeader(http.StatusUnauthorized)
}

func (b *Backend) bookByID(w http.ResponseWriter, r *http.Request, rawID string) {
	id, _ := strconv.ParseInt(rawID, 10, 64)
	for i, bk := range b.Books {
		if bk.ID != id {
			continue
		}
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, bk)
		case http.MethodPut:
			var updated domain.Book
			json.NewDecoder(r.Body).Decode(&updated)
			updated.ID = id
			b.Books[i] = updated
			writeJSON(w, http.StatusOK, updated)
		case http.MethodDelete:
			b.Books = append(b.Books[:i], b.Books[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
		}
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (b *Backend) memberByID(w http.ResponseWriter, r *http.Request, rawID string) {
	id, _ := strconv.ParseInt(rawID, 10, 64)
	for i, m := range b.Members {
		if m.ID != id {
			continue
		}
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, m)
		case http.MethodPut:
			var updated domain.Member
			json.NewDecoder(r.Body).Decode(&updated)
			updated.ID = id
			b.Members[i] = updated
			writeJSON(w, http.StatusOK, updated)
		case http.MethodDelete:
			b.Members = append(b.Members[:i], b.Members[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
		}
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (b *Backend) createLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.LoanRequest
	json.NewDecoder(r.Body).Decode(&req)

	var book *domain.Book
	for i := range b.Books {
		if b.Books[i].ID == req.BookID {
			book = &b.Books[i]
		}
	}
	var member *domain.Member
	for i := range b.Members {
		if b.Members[i].ID == req.MemberID {
			member = &b.Members[i]
		}
	}
	if book == nil || member == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if book.AvailableCopies == 0 {
		w.WriteHeader(http.StatusConflict)
		return
	}
	book.AvailableCopies--

	l := domain.Loan{
		ID:       b.nextLoanID,
		Book:     *book,
		Member:   *member,
		LoanDate: "2026-08-01",
		DueDate:  "2026-08-15",
		Status:   domain.LoanActive,
	}
	b.nextLoanID++
	b.Loans = append(b.Loans, l)
	writeJSON(w, http.StatusCreated, l)
}

func (b *Backend) returnLoan(w http.ResponseWriter, rawID string) {
	id, _ := strconv.ParseInt(rawID, 10, 64)
	for i := range b.Loans {
		if b.Loans[i].ID != id {
			continue
		}
		b.Loans[i].Status = domain.LoanReturned
		b.Loans[i].ReturnDate = "2026-08-10"
		writeJSON(w, http.StatusOK, b.Loans[i])
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
