package models

import (
	"encoding/xml"

	"github.com/shopspring/decimal"
)

func init() {
	// Balances travel as plain JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Account is the single persisted entity. ID is assigned by the store on
// create and never changes afterwards.
type Account struct {
	XMLName      xml.Name        `json:"-" xml:"compte" gorm:"-"`
	ID           int64           `json:"id" xml:"id" gorm:"primaryKey;autoIncrement"`
	Balance      decimal.Decimal `json:"balance" xml:"balance" gorm:"type:decimal(19,4);not null;default:0"`
	CreationDate Date            `json:"creationDate" xml:"creationDate" gorm:"column:creation_date"`
	Type         string          `json:"type" xml:"type" gorm:"size:64;not null;default:''"`
}

// TableName pins the table name so every store agrees on it.
func (Account) TableName() string { return "accounts" }
