package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/eaglebank/banque/internal/command"
	"github.com/eaglebank/banque/internal/models"
	"github.com/eaglebank/banque/internal/query"
	"github.com/eaglebank/banque/internal/repository"
)

func newLiveRouter() *gin.Engine {
	store := repository.NewMemoryAccountRepository()
	reads := repository.NewAccountReadRepository(store, nil)
	return newAccountTestRouter(
		command.NewAccountCommandService(store, reads, nil),
		query.NewAccountQueryService(reads),
	)
}

func decodeAccount(t *testing.T, body []byte) models.Account {
	t.Helper()
	var a models.Account
	require.NoError(t, json.Unmarshal(body, &a))
	return a
}

func listIDs(t *testing.T, router *gin.Engine) []int64 {
	t.Helper()
	w := acctDoRequest(router, http.MethodGet, "/banque/comptes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.Account
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	ids := make([]int64, 0, len(all))
	for _, a := range all {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestAccountLifecycle(t *testing.T) {
	router := newLiveRouter()

	w := acctDoRequest(router, http.MethodPost, "/banque/comptes",
		map[string]any{"balance": 100.0, "creationDate": "2024-01-01", "type": "SAVINGS"})
	require.Equal(t, http.StatusOK, w.Code)
	created := decodeAccount(t, w.Body.Bytes())
	require.EqualValues(t, 1, created.ID)
	path := fmt.Sprintf("/banque/comptes/%d", created.ID)

	w = acctDoRequest(router, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeAccount(t, w.Body.Bytes())
	require.True(t, got.Balance.Equal(decimal.NewFromInt(100)))
	require.Equal(t, "2024-01-01", got.CreationDate.String())
	require.Equal(t, "SAVINGS", got.Type)

	w = acctDoRequest(router, http.MethodPut, path,
		map[string]any{"id": 77, "balance": 250.0, "creationDate": "2024-02-01", "type": "CHECKING"})
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, created.ID, decodeAccount(t, w.Body.Bytes()).ID)

	w = acctDoRequest(router, http.MethodGet, path, nil)
	got = decodeAccount(t, w.Body.Bytes())
	require.Equal(t, created.ID, got.ID)
	require.True(t, got.Balance.Equal(decimal.NewFromInt(250)))
	require.Equal(t, "2024-02-01", got.CreationDate.String())
	require.Equal(t, "CHECKING", got.Type)

	w = acctDoRequest(router, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Zero(t, w.Body.Len())

	w = acctDoRequest(router, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Zero(t, w.Body.Len())
	require.NotContains(t, listIDs(t, router), created.ID)
}

func TestListTracksCreatesAndDeletes(t *testing.T) {
	router := newLiveRouter()
	for i := 0; i < 4; i++ {
		w := acctDoRequest(router, http.MethodPost, "/banque/comptes", map[string]any{"balance": i, "type": "T"})
		require.Equal(t, http.StatusOK, w.Code)
	}
	acctDoRequest(router, http.MethodDelete, "/banque/comptes/2", nil)
	acctDoRequest(router, http.MethodDelete, "/banque/comptes/4", nil)

	require.ElementsMatch(t, []int64{1, 3}, listIDs(t, router))
}

func TestMissingAccounts(t *testing.T) {
	router := newLiveRouter()

	w := acctDoRequest(router, http.MethodGet, "/banque/comptes/999", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Zero(t, w.Body.Len())

	w = acctDoRequest(router, http.MethodPut, "/banque/comptes/999", map[string]any{"balance": 1, "type": "X"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Zero(t, w.Body.Len())
	require.Empty(t, listIDs(t, router))

	w = acctDoRequest(router, http.MethodDelete, "/banque/comptes/999", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, listIDs(t, router))
}

func TestCreateIgnoresClientID(t *testing.T) {
	router := newLiveRouter()
	w := acctDoRequest(router, http.MethodPost, "/banque/comptes", map[string]any{"id": 500, "balance": 1, "type": "X"})
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 1, decodeAccount(t, w.Body.Bytes()).ID)
}
