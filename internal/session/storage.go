package session

import "sync"

// Scope selects which storage receives commits.
type Scope string

const (
	// ScopeDurable writes commits to storage that survives process restarts.
	ScopeDurable Scope = "durable"

	// ScopeSession writes commits to storage that lives only as long as
	// the process.
	ScopeSession Scope = "session"
)

// Storage persists one serialized AuthState document.
//
// Implementations: SQLiteStorage (durable) and MemoryStorage (session scope).
type Storage interface {
	// Store replaces the persisted document.
	Store(data []byte) error

	// Load returns the persisted document. ok is false when nothing is
	// stored; that is not an error.
	Load() (data []byte, ok bool, err error)

	// Clear removes the persisted document. Clearing empty storage is a no-op.
	Clear() error
}

// MemoryStorage keeps the document in process memory. It backs the session
// scope: state written here is gone when the process exits, which is the
// closest equivalent of browser sessionStorage for a CLI client.
type MemoryStorage struct {
	mu   sync.Mutex
	data []byte
	set  bool
}

// NewMemoryStorage creates empty in-process storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store replaces the held document.
func (m *MemoryStorage) Store(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.set = true
	return nil
}

// Load returns the held document, if any.
func (m *MemoryStorage) Load() ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return nil, false, nil
	}
	return append([]byte(nil), m.data...), true, nil
}

// Clear drops the held document.
func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	m.set = false
	return nil
}
