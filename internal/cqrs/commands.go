package cqrs

import (
	"github.com/eaglebank/banque/internal/models"
	"github.com/shopspring/decimal"
)

type CreateAccountCommand struct {
	Balance      decimal.Decimal
	CreationDate models.Date
	Type         string
}

// UpdateAccountCommand carries the only three fields an update may change.
type UpdateAccountCommand struct {
	ID           int64
	Balance      decimal.Decimal
	CreationDate models.Date
	Type         string
}

type DeleteAccountCommand struct {
	ID int64
}
