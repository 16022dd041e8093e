package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeExpense = "expense"
	TransactionTypeIncome  = "income"
)

// CategorySnapshot is the denormalized category copy embedded in every
// transaction at write time. It is never patched by later category renames;
// historical records keep the name they were written with.
type CategorySnapshot struct {
	ID   string `gorm:"size:36" json:"id"`
	Name string `gorm:"size:64" json:"name"`
	Icon string `gorm:"size:16" json:"icon,omitempty"`
}

// Transaction is a single income or expense record posted against an account.
// A nil GroupID means a personal transaction.
type Transaction struct {
	ID              string    `gorm:"primaryKey;size:36"`
	Type            string    `gorm:"size:16;index;not null"`
	AmountCent      int64     `gorm:"not null"`
	Currency        string    `gorm:"size:8;not null;default:TWD"`
	TransactionDate time.Time `gorm:"index;not null"`
	Description     string    `gorm:"size:255"`
	UserID          string    `gorm:"size:36;index;not null"`
	PayerID         string    `gorm:"size:36;not null"`
	GroupID         *string   `gorm:"size:36;index"`
	AccountID       string    `gorm:"size:36;index;not null"`
	Category        CategorySnapshot `gorm:"embedded;embeddedPrefix:category_"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SignedCent is the transaction's effect on its account balance:
// income adds, expense subtracts.
func (t *Transaction) SignedCent() int64 {
	if t.Type == TransactionTypeIncome {
		return t.AmountCent
	}
	return -t.AmountCent
}

// AccountInfo is the lightweight account view joined into listings.
type AccountInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TransactionPublic struct {
	TransactionID   string           `json:"transaction_id"`
	Type            string           `json:"type"`
	Amount          string           `json:"amount"`
	Currency        string           `json:"currency"`
	TransactionDate time.Time        `json:"transaction_date"`
	Description     string           `json:"description,omitempty"`
	UserID          string           `json:"user_id"`
	PayerID         string           `json:"payer_id"`
	GroupID         *string          `json:"group_id"`
	Account         AccountInfo      `json:"account"`
	Category        CategorySnapshot `json:"category"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Public renders the API shape. accountName may be empty when the caller
// does not join account info.
func (t *Transaction) Public(accountName string) TransactionPublic {
	return TransactionPublic{
		TransactionID:   t.ID,
		Type:            t.Type,
		Amount:          decimal.New(t.AmountCent, -2).StringFixed(2),
		Currency:        t.Currency,
		TransactionDate: t.TransactionDate,
		Description:     t.Description,
		UserID:          t.UserID,
		PayerID:         t.PayerID,
		GroupID:         t.GroupID,
		Account:         AccountInfo{ID: t.AccountID, Name: accountName},
		Category:        t.Category,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}
