package store

import (
	"sync"
	"time"

	"github.com/efreitasn/minibroker/internal/domain"
	"github.com/efreitasn/minibroker/internal/ledger"
)

// AccountRecord wraps a ledger.Account with its service-level identity.
// The ledger itself is single-owner and unsynchronized; Mu serializes
// every call against it, mutating or not, so concurrent HTTP handlers
// never observe a half-applied order.
type AccountRecord struct {
	AccountID string
	CreatedAt time.Time
	Mu        sync.Mutex
	Ledger    *ledger.Account
}

// AccountStore is a thread-safe in-memory store for accounts,
// keyed by account_id.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*AccountRecord
}

// NewAccountStore creates an empty AccountStore.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[string]*AccountRecord),
	}
}

// Create adds an account to the store. It returns
// domain.ErrAccountExists if an account with the same ID already exists.
func (s *AccountStore) Create(rec *AccountRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[rec.AccountID]; exists {
		return domain.ErrAccountExists
	}
	s.accounts[rec.AccountID] = rec
	return nil
}

// Get retrieves an account by ID. It returns
// domain.ErrAccountNotFound if the account does not exist.
func (s *AccountStore) Get(id string) (*AccountRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return rec, nil
}

// Len returns the number of stored accounts.
func (s *AccountStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.accounts)
}
