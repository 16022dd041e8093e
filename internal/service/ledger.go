package service

import (
	"time"

	"github.com/YenChengLai/constellation-backend/internal/models"
	"github.com/YenChengLai/constellation-backend/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// LedgerService creates, updates and deletes transactions and keeps every
// account balance equal to its initial balance plus the signed sum of the
// non-deleted transactions posted against it. The record write and the
// balance adjustment always run inside one store transaction, so a failure
// mid-sequence rolls back both.
type LedgerService struct {
	DB         *gorm.DB
	Categories *CategoryService
	Accounts   *AccountService
	Groups     *GroupService
}

func NewLedgerService(db *gorm.DB, categories *CategoryService, accounts *AccountService, groups *GroupService) *LedgerService {
	return &LedgerService{DB: db, Categories: categories, Accounts: accounts, Groups: groups}
}

type TransactionInput struct {
	Type            string
	Amount          decimal.Decimal
	Currency        string
	TransactionDate time.Time
	Description     string
	CategoryID      string
	AccountID       string
	GroupID         *string
	PayerID         string
}

// Create posts a new transaction and applies its effect to the funding
// account.
func (s *LedgerService) Create(actor *models.User, in TransactionInput) (*models.Transaction, error) {
	if in.Type != models.TransactionTypeExpense && in.Type != models.TransactionTypeIncome {
		return nil, BadRequest("Transaction type must be 'expense' or 'income'.")
	}
	amountCent, err := util.AmountToCent(in.Amount)
	if err != nil {
		return nil, BadRequest(err.Error())
	}

	snapshot, err := s.Categories.ResolveForWrite(in.CategoryID, actor.ID)
	if err != nil {
		return nil, err
	}

	account, err := s.Accounts.LoadForUser(actor, in.AccountID)
	if err != nil {
		return nil, err
	}
	if account.IsArchived {
		return nil, NotFound("Account not found.")
	}

	payerID, err := s.resolvePayer(actor, in.GroupID, in.PayerID)
	if err != nil {
		return nil, err
	}

	currency := in.Currency
	if currency == "" {
		currency = "TWD"
	}
	date := in.TransactionDate
	if date.IsZero() {
		date = time.Now().UTC()
	}

	transaction := models.Transaction{
		ID:              uuid.NewString(),
		Type:            in.Type,
		AmountCent:      amountCent,
		Currency:        currency,
		TransactionDate: date,
		Description:     in.Description,
		UserID:          actor.ID,
		PayerID:         payerID,
		GroupID:         in.GroupID,
		AccountID:       account.ID,
		Category:        snapshot,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}
		return s.Accounts.adjustBalance(tx, account.ID, transaction.SignedCent())
	})
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

type TransactionPatch struct {
	Type            *string
	Amount          *decimal.Decimal
	Currency        *string
	TransactionDate *time.Time
	Description     *string
	CategoryID      *string
	AccountID       *string
}

// Update patches the actor's transaction and reconciles balances by
// reversing the original effect on the original account and applying the new
// effect on the new account. That reverse-then-apply shape covers every
// combination of amount, type and account changes with one rule.
func (s *LedgerService) Update(actor *models.User, transactionID string, patch TransactionPatch) (*models.Transaction, error) {
	original, err := s.loadOwned(actor, transactionID)
	if err != nil {
		return nil, err
	}

	updated := *original
	changed := false

	if patch.Type != nil && *patch.Type != original.Type {
		if *patch.Type != models.TransactionTypeExpense && *patch.Type != models.TransactionTypeIncome {
			return nil, BadRequest("Transaction type must be 'expense' or 'income'.")
		}
		updated.Type = *patch.Type
		changed = true
	}
	if patch.Amount != nil {
		amountCent, err := util.AmountToCent(*patch.Amount)
		if err != nil {
			return nil, BadRequest(err.Error())
		}
		if amountCent != original.AmountCent {
			updated.AmountCent = amountCent
			changed = true
		}
	}
	if patch.Currency != nil && *patch.Currency != original.Currency {
		updated.Currency = *patch.Currency
		changed = true
	}
	if patch.TransactionDate != nil && !patch.TransactionDate.Equal(original.TransactionDate) {
		updated.TransactionDate = *patch.TransactionDate
		changed = true
	}
	if patch.Description != nil && *patch.Description != original.Description {
		updated.Description = *patch.Description
		changed = true
	}
	if patch.CategoryID != nil && *patch.CategoryID != original.Category.ID {
		snapshot, err := s.Categories.ResolveForWrite(*patch.CategoryID, actor.ID)
		if err != nil {
			return nil, err
		}
		updated.Category = snapshot
		changed = true
	}
	if patch.AccountID != nil && *patch.AccountID != original.AccountID {
		account, err := s.Accounts.LoadForUser(actor, *patch.AccountID)
		if err != nil {
			return nil, err
		}
		if account.IsArchived {
			return nil, NotFound("Account not found.")
		}
		updated.AccountID = account.ID
		changed = true
	}

	if !changed {
		return original, nil
	}
	updated.UpdatedAt = time.Now()

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&updated).Error; err != nil {
			return err
		}
		if err := s.Accounts.adjustBalance(tx, original.AccountID, -original.SignedCent()); err != nil {
			return err
		}
		return s.Accounts.adjustBalance(tx, updated.AccountID, updated.SignedCent())
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the actor's transaction and reverses its balance effect.
func (s *LedgerService) Delete(actor *models.User, transactionID string) error {
	transaction, err := s.loadOwned(actor, transactionID)
	if err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Accounts.adjustBalance(tx, transaction.AccountID, -transaction.SignedCent()); err != nil {
			return err
		}
		return tx.Delete(transaction).Error
	})
}

// List returns one UTC calendar month of transactions, newest first, scoped
// to either a group the actor belongs to or the actor's personal ledger,
// with lightweight account info joined in.
func (s *LedgerService) List(actor *models.User, year, month int, groupID *string) ([]models.TransactionPublic, error) {
	start, end, err := monthWindow(year, month)
	if err != nil {
		return nil, err
	}

	q := s.DB.Where("transaction_date >= ? AND transaction_date < ?", start, end)
	if groupID != nil {
		member, err := s.Groups.IsMember(actor.ID, *groupID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, Forbidden("You are not a member of this group.")
		}
		q = q.Where("group_id = ?", *groupID)
	} else {
		q = q.Where("user_id = ? AND group_id IS NULL", actor.ID)
	}

	var transactions []models.Transaction
	if err := q.Order("transaction_date DESC").Find(&transactions).Error; err != nil {
		return nil, err
	}

	names, err := s.accountNames(transactions)
	if err != nil {
		return nil, err
	}

	out := make([]models.TransactionPublic, 0, len(transactions))
	for i := range transactions {
		out = append(out, transactions[i].Public(names[transactions[i].AccountID]))
	}
	return out, nil
}

// MonthTotals are the income/expense sums of one calendar month.
type MonthTotals struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

// Summary aggregates the requested month and the immediately preceding one.
// The two windows are disjoint, so they are computed concurrently.
func (s *LedgerService) Summary(actor *models.User, year, month int, groupID *string) (current, previous MonthTotals, err error) {
	start, end, err := monthWindow(year, month)
	if err != nil {
		return MonthTotals{}, MonthTotals{}, err
	}
	prevStart := start.AddDate(0, -1, 0)

	if groupID != nil {
		member, merr := s.Groups.IsMember(actor.ID, *groupID)
		if merr != nil {
			return MonthTotals{}, MonthTotals{}, merr
		}
		if !member {
			return MonthTotals{}, MonthTotals{}, Forbidden("You are not a member of this group.")
		}
	}

	var g errgroup.Group
	g.Go(func() error {
		var err error
		current, err = s.windowTotals(actor, start, end, groupID)
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = s.windowTotals(actor, prevStart, start, groupID)
		return err
	})
	if err := g.Wait(); err != nil {
		return MonthTotals{}, MonthTotals{}, err
	}
	return current, previous, nil
}

func (s *LedgerService) windowTotals(actor *models.User, start, end time.Time, groupID *string) (MonthTotals, error) {
	q := s.DB.Model(&models.Transaction{}).
		Where("transaction_date >= ? AND transaction_date < ?", start, end)
	if groupID != nil {
		q = q.Where("group_id = ?", *groupID)
	} else {
		q = q.Where("user_id = ? AND group_id IS NULL", actor.ID)
	}

	var rows []struct {
		Type      string
		TotalCent int64
	}
	err := q.Select("type, COALESCE(SUM(amount_cent), 0) AS total_cent").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return MonthTotals{}, err
	}

	var incomeCent, expenseCent int64
	for _, row := range rows {
		switch row.Type {
		case models.TransactionTypeIncome:
			incomeCent = row.TotalCent
		case models.TransactionTypeExpense:
			expenseCent = row.TotalCent
		}
	}
	return MonthTotals{
		Income:  util.CentToAmount(incomeCent),
		Expense: util.CentToAmount(expenseCent),
	}, nil
}

// ListPersonal returns every personal transaction of the actor, newest
// first. Used by the export endpoints.
func (s *LedgerService) ListPersonal(actor *models.User) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.DB.Where("user_id = ? AND group_id IS NULL", actor.ID).
		Order("transaction_date DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

func (s *LedgerService) resolvePayer(actor *models.User, groupID *string, payerID string) (string, error) {
	if payerID == "" {
		payerID = actor.ID
	}
	if groupID != nil {
		member, err := s.Groups.IsMember(actor.ID, *groupID)
		if err != nil {
			return "", err
		}
		if !member {
			return "", Forbidden("You are not a member of this group.")
		}
		payerMember, err := s.Groups.IsMember(payerID, *groupID)
		if err != nil {
			return "", err
		}
		if !payerMember {
			return "", Forbidden("The payer must be a member of the group.")
		}
		return payerID, nil
	}
	if payerID != actor.ID {
		return "", Forbidden("The payer of a personal transaction must be yourself.")
	}
	return payerID, nil
}

func (s *LedgerService) loadOwned(actor *models.User, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := s.DB.Where("id = ? AND user_id = ?", transactionID, actor.ID).
		First(&transaction).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFound("Transaction not found.")
		}
		return nil, err
	}
	return &transaction, nil
}

func (s *LedgerService) accountNames(transactions []models.Transaction) (map[string]string, error) {
	ids := make([]string, 0, len(transactions))
	seen := make(map[string]bool, len(transactions))
	for i := range transactions {
		if !seen[transactions[i].AccountID] {
			seen[transactions[i].AccountID] = true
			ids = append(ids, transactions[i].AccountID)
		}
	}
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var accounts []models.Account
	if err := s.DB.Where("id IN ?", ids).Find(&accounts).Error; err != nil {
		return nil, err
	}
	for i := range accounts {
		names[accounts[i].ID] = accounts[i].Name
	}
	return names, nil
}

func monthWindow(year, month int) (time.Time, time.Time, error) {
	if year < 1970 || month < 1 || month > 12 {
		return time.Time{}, time.Time{}, BadRequest("Invalid year/month.")
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0), nil
}
