package repository

import (
	"context"
	"strconv"

	"github.com/eaglebank/banque/internal/models"
	sharedredis "github.com/eaglebank/banque/internal/redis"
)

const accountViewKeyPrefix = "account:view:"

// AccountReadRepository serves the read side. When a cache is configured it
// tries Redis first and falls back to the store, warming the cache on a cold
// read. Writers never fill the cache; they only invalidate it. List always
// goes to the store.
type AccountReadRepository struct {
	store AccountRepository
	cache *sharedredis.ViewCache[models.Account]
}

// NewAccountReadRepository accepts a nil cache, in which case every read
// goes straight to the store.
func NewAccountReadRepository(store AccountRepository, cache *sharedredis.ViewCache[models.Account]) *AccountReadRepository {
	return &AccountReadRepository{store: store, cache: cache}
}

func accountViewKey(id int64) string {
	return accountViewKeyPrefix + strconv.FormatInt(id, 10)
}

// GetByID returns ErrAccountNotFound when the store has no such account.
func (r *AccountReadRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	key := accountViewKey(id)
	if cached, ok := r.cache.Get(ctx, key); ok {
		return cached, nil
	}

	account, err := r.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.cache.SetIfAbsent(ctx, key, account) {
		r.confirmView(ctx, account)
	}
	return account, nil
}

// confirmView re-reads the store after a warm and drops the cached view if
// the row changed or vanished in between. A writer that raced the warm ran
// its invalidation before the view was stored, so the second read is what
// catches it.
func (r *AccountReadRepository) confirmView(ctx context.Context, cached *models.Account) {
	current, err := r.store.FindByID(ctx, cached.ID)
	if err == nil && sameAccount(current, cached) {
		return
	}
	r.InvalidateAccountView(ctx, cached.ID)
}

func sameAccount(a, b *models.Account) bool {
	return a.ID == b.ID &&
		a.Balance.Equal(b.Balance) &&
		a.CreationDate.Equal(b.CreationDate) &&
		a.Type == b.Type
}

func (r *AccountReadRepository) List(ctx context.Context) ([]models.Account, error) {
	return r.store.FindAll(ctx)
}

// InvalidateAccountView drops the cached view of an account. Called by the
// command service after every write.
func (r *AccountReadRepository) InvalidateAccountView(ctx context.Context, id int64) {
	r.cache.Delete(ctx, accountViewKey(id))
}
