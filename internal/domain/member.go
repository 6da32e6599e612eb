package domain

// Member matches the backend MemberTO transfer shape.
// Identity key is ID. A fresh fetch replaces a member by value, never patches.
type Member struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
