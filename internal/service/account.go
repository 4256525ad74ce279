package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/efreitasn/minibroker/internal/domain"
	"github.com/efreitasn/minibroker/internal/ledger"
	"github.com/efreitasn/minibroker/internal/metrics"
	"github.com/efreitasn/minibroker/internal/store"
)

// OpenAccountRequest represents the input for opening an account.
type OpenAccountRequest struct {
	InitialCash float64
}

// AccountService handles account creation and read-only account queries.
type AccountService struct {
	store *store.AccountStore
}

// NewAccountService creates a new AccountService.
func NewAccountService(store *store.AccountStore) *AccountService {
	return &AccountService{store: store}
}

// Open validates the request and creates an account with the given
// opening cash balance and an assigned account ID.
func (s *AccountService) Open(req OpenAccountRequest) (*store.AccountRecord, error) {
	if req.InitialCash < 0 {
		return nil, &domain.ValidationError{
			Message: "initial_cash must be >= 0",
		}
	}
	cashCents, err := domain.DollarsToCents(req.InitialCash)
	if err != nil {
		return nil, &domain.ValidationError{
			Message: "initial_cash must have at most 2 decimal places",
		}
	}

	rec := &store.AccountRecord{
		AccountID: uuid.New().String(),
		CreatedAt: time.Now(),
		Ledger:    ledger.New(cashCents),
	}
	if err := s.store.Create(rec); err != nil {
		return nil, err
	}

	metrics.AccountsOpened.Inc()
	return rec, nil
}

// Balance returns the account's current cash balance in cents.
func (s *AccountService) Balance(accountID string) (int64, error) {
	rec, err := s.store.Get(accountID)
	if err != nil {
		return 0, err
	}

	rec.Mu.Lock()
	defer rec.Mu.Unlock()
	return rec.Ledger.CashBalanceCents(), nil
}

// Positions returns a snapshot of the account's portfolio, ordered by
// symbol.
func (s *AccountService) Positions(accountID string) ([]ledger.Position, error) {
	rec, err := s.store.Get(accountID)
	if err != nil {
		return nil, err
	}

	rec.Mu.Lock()
	defer rec.Mu.Unlock()
	return rec.Ledger.Positions(), nil
}

// Transactions returns one page of the account's executed-order log in
// processing order, along with the total number of logged transactions.
// Pagination is 1-based.
func (s *AccountService) Transactions(accountID string, page, limit int) ([]domain.Order, int, error) {
	if page < 1 {
		return nil, 0, &domain.ValidationError{
			Message: "page must be >= 1",
		}
	}
	if limit < 1 || limit > 200 {
		return nil, 0, &domain.ValidationError{
			Message: "limit must be between 1 and 200",
		}
	}

	rec, err := s.store.Get(accountID)
	if err != nil {
		return nil, 0, err
	}

	rec.Mu.Lock()
	all := rec.Ledger.Transactions()
	rec.Mu.Unlock()

	total := len(all)
	start := (page - 1) * limit
	if start >= total {
		return []domain.Order{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}
