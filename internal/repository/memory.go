package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/eaglebank/banque/internal/models"
)

// MemoryAccountRepository keeps accounts in process memory. Ids come from a
// monotonically increasing sequence and are never reused.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	nextID   int64
	accounts map[int64]models.Account
}

func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{nextID: 1, accounts: make(map[int64]models.Account)}
}

func (r *MemoryAccountRepository) FindAll(_ context.Context) ([]models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]models.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (r *MemoryAccountRepository) FindByID(_ context.Context, id int64) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return &a, nil
}

func (r *MemoryAccountRepository) Save(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if account.ID == 0 {
		account.ID = r.nextID
		r.nextID++
	} else if _, ok := r.accounts[account.ID]; !ok {
		return fmt.Errorf("failed to update account %d: %w", account.ID, ErrAccountNotFound)
	}
	r.accounts[account.ID] = *account
	return nil
}

func (r *MemoryAccountRepository) DeleteByID(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return false, nil
	}
	delete(r.accounts, id)
	return true, nil
}
