package query

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/eaglebank/banque/internal/cqrs"
	"github.com/eaglebank/banque/internal/models"
	"github.com/eaglebank/banque/internal/repository"
)

func TestQueries(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryAccountRepository()
	require.NoError(t, store.Save(ctx, &models.Account{Balance: decimal.NewFromInt(10), Type: "A"}))
	require.NoError(t, store.Save(ctx, &models.Account{Balance: decimal.NewFromInt(20), Type: "B"}))

	svc := NewAccountQueryService(repository.NewAccountReadRepository(store, nil))

	all, err := svc.ListAccounts(ctx, cqrs.ListAccountsQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	a, err := svc.GetAccount(ctx, cqrs.GetAccountQuery{ID: 2})
	require.NoError(t, err)
	require.Equal(t, "B", a.Type)

	_, err = svc.GetAccount(ctx, cqrs.GetAccountQuery{ID: 999})
	require.ErrorIs(t, err, repository.ErrAccountNotFound)
}
