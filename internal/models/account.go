package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AccountTypeBank       = "bank"
	AccountTypeCreditCard = "credit_card"
	AccountTypeCash       = "cash"
	AccountTypeEWallet    = "e-wallet"
	AccountTypeInvestment = "investment"
	AccountTypeOther      = "other"
)

// Account is a funding account. Exactly one of UserID/GroupID is set
// (personal vs. shared). Amounts are stored in cents to avoid float error.
// BalanceCent is only ever mutated through atomic SQL increments so that
// concurrent transactions against the same account never lose an update.
type Account struct {
	ID                 string  `gorm:"primaryKey;size:36"`
	Name               string  `gorm:"size:64;not null"`
	Type               string  `gorm:"size:16;not null"`
	UserID             *string `gorm:"size:36;index"`
	GroupID            *string `gorm:"size:36;index"`
	InitialBalanceCent int64   `gorm:"not null"`
	BalanceCent        int64   `gorm:"not null"`
	IsArchived         bool    `gorm:"not null;default:false"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type AccountPublic struct {
	AccountID      string  `json:"account_id"`
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	UserID         *string `json:"user_id"`
	GroupID        *string `json:"group_id"`
	InitialBalance string  `json:"initial_balance"`
	Balance        string  `json:"balance"`
	IsArchived     bool    `json:"is_archived"`
}

func (a *Account) Public() AccountPublic {
	return AccountPublic{
		AccountID:      a.ID,
		Name:           a.Name,
		Type:           a.Type,
		UserID:         a.UserID,
		GroupID:        a.GroupID,
		InitialBalance: decimal.New(a.InitialBalanceCent, -2).StringFixed(2),
		Balance:        decimal.New(a.BalanceCent, -2).StringFixed(2),
		IsArchived:     a.IsArchived,
	}
}
