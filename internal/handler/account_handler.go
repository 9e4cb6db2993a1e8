package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"

	"github.com/eaglebank/banque/internal/cqrs"
	"github.com/eaglebank/banque/internal/middleware"
	"github.com/eaglebank/banque/internal/models"
	"github.com/eaglebank/banque/internal/repository"
)

// AccountCommander defines the write-side operations used by AccountHandler.
type AccountCommander interface {
	CreateAccount(context.Context, cqrs.CreateAccountCommand) (*models.Account, error)
	UpdateAccount(context.Context, cqrs.UpdateAccountCommand) (*models.Account, error)
	DeleteAccount(context.Context, cqrs.DeleteAccountCommand) error
}

// AccountQuerier defines the read-side operations used by AccountHandler.
type AccountQuerier interface {
	GetAccount(context.Context, cqrs.GetAccountQuery) (*models.Account, error)
	ListAccounts(context.Context, cqrs.ListAccountsQuery) ([]models.Account, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	commands       AccountCommander
	queries        AccountQuerier
	strictNotFound bool
}

type Option func(*AccountHandler)

// WithStrictNotFound makes Get and Update answer 404 for an unknown id
// instead of an empty 200.
func WithStrictNotFound(strict bool) Option {
	return func(h *AccountHandler) { h.strictNotFound = strict }
}

// AccountRequest is the body of create and update requests, in JSON or XML.
// A client-supplied id is accepted and ignored.
type AccountRequest struct {
	ID           int64           `json:"id,omitempty" xml:"id,omitempty"`
	Balance      decimal.Decimal `json:"balance" xml:"balance"`
	CreationDate models.Date     `json:"creationDate" xml:"creationDate"`
	Type         string          `json:"type" xml:"type"`
}

func NewAccountHandler(commands AccountCommander, queries AccountQuerier, opts ...Option) *AccountHandler {
	h := &AccountHandler{commands: commands, queries: queries}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes binds the five account endpoints under r.
func (h *AccountHandler) Routes(r gin.IRouter) {
	comptes := r.Group("/comptes")
	comptes.GET("", h.ListAccounts)
	comptes.POST("", h.CreateAccount)
	comptes.GET("/:id", h.GetAccount)
	comptes.PUT("/:id", h.UpdateAccount)
	comptes.DELETE("/:id", h.DeleteAccount)
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.queries.ListAccounts(c.Request.Context(), cqrs.ListAccountsQuery{})
	if err != nil {
		middleware.RespondInternalError(c, err)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	middleware.Respond(c, http.StatusOK, accounts, models.AccountList{Accounts: accounts})
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	account, err := h.queries.GetAccount(c.Request.Context(), cqrs.GetAccountQuery{ID: id})
	if err != nil {
		h.respondLookupError(c, err)
		return
	}

	middleware.Respond(c, http.StatusOK, account, nil)
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req AccountRequest
	if !bindAccount(c, &req) {
		return
	}

	account, err := h.commands.CreateAccount(c.Request.Context(), cqrs.CreateAccountCommand{
		Balance:      req.Balance,
		CreationDate: req.CreationDate,
		Type:         req.Type,
	})
	if err != nil {
		middleware.RespondInternalError(c, err)
		return
	}

	middleware.Respond(c, http.StatusOK, account, nil)
}

func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req AccountRequest
	if !bindAccount(c, &req) {
		return
	}

	account, err := h.commands.UpdateAccount(c.Request.Context(), cqrs.UpdateAccountCommand{
		ID:           id,
		Balance:      req.Balance,
		CreationDate: req.CreationDate,
		Type:         req.Type,
	})
	if err != nil {
		h.respondLookupError(c, err)
		return
	}

	middleware.Respond(c, http.StatusOK, account, nil)
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.commands.DeleteAccount(c.Request.Context(), cqrs.DeleteAccountCommand{ID: id}); err != nil {
		middleware.RespondInternalError(c, err)
		return
	}

	middleware.RespondEmpty(c, http.StatusOK)
}

// respondLookupError answers an absent account with an empty 200, or 404 in
// strict mode. Anything else is a 500.
func (h *AccountHandler) respondLookupError(c *gin.Context, err error) {
	if !errors.Is(err, repository.ErrAccountNotFound) {
		middleware.RespondInternalError(c, err)
		return
	}
	if h.strictNotFound {
		middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		return
	}
	middleware.RespondEmpty(c, http.StatusOK)
}

// parseID rejects non-numeric ids with 404: such a path names no resource.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		return 0, false
	}
	return id, true
}

func bindAccount(c *gin.Context, req *AccountRequest) bool {
	var b binding.Binding = binding.JSON
	switch c.ContentType() {
	case binding.MIMEXML, binding.MIMEXML2:
		b = binding.XML
	}
	if err := c.ShouldBindWith(req, b); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
