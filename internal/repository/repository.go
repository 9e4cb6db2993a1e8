package repository

import (
	"context"
	"errors"

	"github.com/eaglebank/banque/internal/models"
)

// ErrAccountNotFound is returned, possibly wrapped, when no account has the
// requested id.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository is the persistence abstraction every store implements.
//
// Save inserts when account.ID is zero, assigning the new id onto account,
// and overwrites the stored record otherwise. DeleteByID reports whether a
// record was removed; a missing id is not an error.
type AccountRepository interface {
	FindAll(ctx context.Context) ([]models.Account, error)
	FindByID(ctx context.Context, id int64) (*models.Account, error)
	Save(ctx context.Context, account *models.Account) error
	DeleteByID(ctx context.Context, id int64) (bool, error)
}
