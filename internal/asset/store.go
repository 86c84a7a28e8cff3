package asset

import (
	"fmt"
	"sync"
)

// MemStore is an in-memory account store with batch semantics: mutations made
// inside InBatch become visible only when the batched function returns nil.
// It backs tests and local embedding; a production node supplies its own
// Runtime over its state database.
type MemStore struct {
	mu       sync.Mutex
	accounts map[string]Account
}

// NewMemStore creates an empty store.
func NewMemStore() *MemStore {
	return &MemStore{accounts: make(map[string]Account)}
}

// Put seeds an account, outside any batch.
func (s *MemStore) Put(account Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[string(account.Address)] = account
}

// Account reads an account's committed state.
func (s *MemStore) Account(address []byte) (Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[string(address)]
	return a, ok
}

// InBatch runs fn against an overlay of the committed state and commits the
// overlay iff fn returns nil. Either every mutation lands or none does.
func (s *MemStore) InBatch(fn func(StateBatch) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := &memBatch{store: s, dirty: make(map[string]Account)}
	if err := fn(batch); err != nil {
		return err
	}
	for key, account := range batch.dirty {
		s.accounts[key] = account
	}
	return nil
}

type memBatch struct {
	store *MemStore
	dirty map[string]Account
}

func (b *memBatch) GetAccount(address []byte) (Account, error) {
	if a, ok := b.dirty[string(address)]; ok {
		return a, nil
	}
	if a, ok := b.store.accounts[string(address)]; ok {
		return a, nil
	}
	// Unknown addresses start at zero: an account exists once funds or a
	// transaction reference it during block processing.
	return Account{Address: append([]byte(nil), address...)}, nil
}

func (b *memBatch) SetAccount(account Account) error {
	b.dirty[string(account.Address)] = account
	return nil
}

func (b *memBatch) Debit(address []byte, amount uint64) error {
	account, err := b.GetAccount(address)
	if err != nil {
		return err
	}
	if account.Balance < amount {
		return fmt.Errorf("address %x balance %d, needs %d: %w", address, account.Balance, amount, ErrInsufficientFunds)
	}
	account.Balance -= amount
	return b.SetAccount(account)
}

func (b *memBatch) Credit(address []byte, amount uint64) error {
	account, err := b.GetAccount(address)
	if err != nil {
		return err
	}
	account.Balance += amount
	return b.SetAccount(account)
}
