package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/YenChengLai/constellation-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ledgerFixture sets up a verified user with one category and one account.
type ledgerFixture struct {
	*fixture
	User     *models.User
	Category *models.Category
	Account  *models.Account
}

func newLedgerFixture(t *testing.T, initialBalance int64) *ledgerFixture {
	t.Helper()

	f := newFixture(t)
	user := f.newVerifiedUser(t, "a@x.com")

	category, err := f.Categories.Create(user, CategoryInput{Name: "Groceries", Type: models.CategoryTypeExpense})
	require.NoError(t, err)

	account, err := f.Accounts.Create(user, AccountInput{
		Name:           "Checking",
		Type:           models.AccountTypeBank,
		InitialBalance: decimal.NewFromInt(initialBalance),
	})
	require.NoError(t, err)

	return &ledgerFixture{fixture: f, User: user, Category: category, Account: account}
}

func (lf *ledgerFixture) balanceCent(t *testing.T, accountID string) int64 {
	t.Helper()

	var account models.Account
	require.NoError(t, lf.DB.First(&account, "id = ?", accountID).Error)
	return account.BalanceCent
}

func (lf *ledgerFixture) expense(t *testing.T, amount int64) *models.Transaction {
	t.Helper()

	tx, err := lf.Ledger.Create(lf.User, TransactionInput{
		Type:       models.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(amount),
		CategoryID: lf.Category.ID,
		AccountID:  lf.Account.ID,
	})
	require.NoError(t, err)
	return tx
}

func TestCreateUpdateDeleteReconcilesBalance(t *testing.T) {
	lf := newLedgerFixture(t, 100)

	// expense of 30: 100 -> 70
	tx := lf.expense(t, 30)
	assert.Equal(t, int64(7000), lf.balanceCent(t, lf.Account.ID))

	// raise the amount to 50: 100 - 50 = 50
	amount := decimal.NewFromInt(50)
	_, err := lf.Ledger.Update(lf.User, tx.ID, TransactionPatch{Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), lf.balanceCent(t, lf.Account.ID))

	// delete restores the initial balance
	require.NoError(t, lf.Ledger.Delete(lf.User, tx.ID))
	assert.Equal(t, int64(10000), lf.balanceCent(t, lf.Account.ID))
}

func TestIncomeAddsExpenseSubtracts(t *testing.T) {
	lf := newLedgerFixture(t, 0)

	income, err := lf.Categories.Create(lf.User, CategoryInput{Name: "Salary", Type: models.CategoryTypeIncome})
	require.NoError(t, err)

	_, err = lf.Ledger.Create(lf.User, TransactionInput{
		Type:       models.TransactionTypeIncome,
		Amount:     decimal.RequireFromString("1234.56"),
		CategoryID: income.ID,
		AccountID:  lf.Account.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(123456), lf.balanceCent(t, lf.Account.ID))

	lf.expense(t, 200)
	assert.Equal(t, int64(103456), lf.balanceCent(t, lf.Account.ID))
}

func TestUpdateTypeFlipsBalanceEffect(t *testing.T) {
	lf := newLedgerFixture(t, 100)
	tx := lf.expense(t, 30)

	// expense 30 -> income 30: reverse +30, apply +30
	income := models.TransactionTypeIncome
	_, err := lf.Ledger.Update(lf.User, tx.ID, TransactionPatch{Type: &income})
	require.NoError(t, err)
	assert.Equal(t, int64(13000), lf.balanceCent(t, lf.Account.ID))
}

func TestUpdateAccountMovesEffect(t *testing.T) {
	lf := newLedgerFixture(t, 100)
	other, err := lf.Accounts.Create(lf.User, AccountInput{
		Name: "Savings", Type: models.AccountTypeBank, InitialBalance: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	tx := lf.expense(t, 30)
	require.Equal(t, int64(7000), lf.balanceCent(t, lf.Account.ID))

	_, err = lf.Ledger.Update(lf.User, tx.ID, TransactionPatch{AccountID: &other.ID})
	require.NoError(t, err)

	// effect moved entirely: old account restored, new one debited
	assert.Equal(t, int64(10000), lf.balanceCent(t, lf.Account.ID))
	assert.Equal(t, int64(47000), lf.balanceCent(t, other.ID))
}

func TestUpdateCategoryReEmbedsSnapshot(t *testing.T) {
	lf := newLedgerFixture(t, 100)
	tx := lf.expense(t, 10)
	assert.Equal(t, lf.Category.ID, tx.Category.ID)

	other, err := lf.Categories.Create(lf.User, CategoryInput{Name: "Dining", Type: models.CategoryTypeExpense, Icon: "🍜"})
	require.NoError(t, err)

	updated, err := lf.Ledger.Update(lf.User, tx.ID, TransactionPatch{CategoryID: &other.ID})
	require.NoError(t, err)
	assert.Equal(t, other.ID, updated.Category.ID)
	assert.Equal(t, "Dining", updated.Category.Name)
	assert.Equal(t, "🍜", updated.Category.Icon)
	// a pure category swap leaves the balance untouched
	assert.Equal(t, int64(9000), lf.balanceCent(t, lf.Account.ID))
}

func TestSnapshotSurvivesCategoryRename(t *testing.T) {
	lf := newLedgerFixture(t, 100)
	tx := lf.expense(t, 10)

	name := "Food"
	_, err := lf.Categories.Update(lf.User, lf.Category.ID, CategoryPatch{Name: &name})
	require.NoError(t, err)

	var stored models.Transaction
	require.NoError(t, lf.DB.First(&stored, "id = ?", tx.ID).Error)
	assert.Equal(t, "Groceries", stored.Category.Name)
}

func TestNoOpUpdateShortCircuits(t *testing.T) {
	lf := newLedgerFixture(t, 100)
	tx := lf.expense(t, 30)

	updated, err := lf.Ledger.Update(lf.User, tx.ID, TransactionPatch{})
	require.NoError(t, err)
	assert.Equal(t, tx.AmountCent, updated.AmountCent)
	assert.WithinDuration(t, tx.UpdatedAt, updated.UpdatedAt, time.Second)
	assert.Equal(t, int64(7000), lf.balanceCent(t, lf.Account.ID))
}

func TestArchivedAccountRejectsTransactions(t *testing.T) {
	lf := newLedgerFixture(t, 100)

	empty, err := lf.Accounts.Create(lf.User, AccountInput{Name: "Old", Type: models.AccountTypeCash})
	require.NoError(t, err)
	require.NoError(t, lf.Accounts.Archive(lf.User, empty.ID))

	_, err = lf.Ledger.Create(lf.User, TransactionInput{
		Type:       models.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(5),
		CategoryID: lf.Category.ID,
		AccountID:  empty.ID,
	})
	requireStatus(t, err, http.StatusNotFound)
}

func TestPayerRules(t *testing.T) {
	lf := newLedgerFixture(t, 100)
	other := lf.newVerifiedUser(t, "b@x.com")

	// personal transaction: payer must be the actor
	_, err := lf.Ledger.Create(lf.User, TransactionInput{
		Type:       models.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(5),
		CategoryID: lf.Category.ID,
		AccountID:  lf.Account.ID,
		PayerID:    other.ID,
	})
	requireStatus(t, err, http.StatusForbidden)

	group, err := lf.Groups.Create(lf.User, "Family")
	require.NoError(t, err)
	shared, err := lf.Accounts.Create(lf.User, AccountInput{
		Name: "Shared", Type: models.AccountTypeBank, GroupID: &group.ID,
	})
	require.NoError(t, err)

	// group transaction: payer must be a member
	_, err = lf.Ledger.Create(lf.User, TransactionInput{
		Type:       models.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(5),
		CategoryID: lf.Category.ID,
		AccountID:  shared.ID,
		GroupID:    &group.ID,
		PayerID:    other.ID,
	})
	requireStatus(t, err, http.StatusForbidden)

	_, err = lf.Groups.AddMember(lf.User, group.ID, other.Email)
	require.NoError(t, err)

	tx, err := lf.Ledger.Create(lf.User, TransactionInput{
		Type:       models.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(5),
		CategoryID: lf.Category.ID,
		AccountID:  shared.ID,
		GroupID:    &group.ID,
		PayerID:    other.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, other.ID, tx.PayerID)
}

func TestAmountValidation(t *testing.T) {
	lf := newLedgerFixture(t, 100)

	_, err := lf.Ledger.Create(lf.User, TransactionInput{
		Type:       models.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(-5),
		CategoryID: lf.Category.ID,
		AccountID:  lf.Account.ID,
	})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = lf.Ledger.Create(lf.User, TransactionInput{
		Type:       models.TransactionTypeExpense,
		Amount:     decimal.RequireFromString("1.005"),
		CategoryID: lf.Category.ID,
		AccountID:  lf.Account.ID,
	})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestListMonthWindow(t *testing.T) {
	lf := newLedgerFixture(t, 1000)

	dates := []time.Time{
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		_, err := lf.Ledger.Create(lf.User, TransactionInput{
			Type:            models.TransactionTypeExpense,
			Amount:          decimal.NewFromInt(1),
			TransactionDate: d,
			CategoryID:      lf.Category.ID,
			AccountID:       lf.Account.ID,
		})
		require.NoError(t, err)
	}

	march, err := lf.Ledger.List(lf.User, 2026, 3, nil)
	require.NoError(t, err)
	require.Len(t, march, 2)
	// newest first, account info joined
	assert.True(t, march[0].TransactionDate.After(march[1].TransactionDate))
	assert.Equal(t, "Checking", march[0].Account.Name)
}

func TestListGroupScope(t *testing.T) {
	lf := newLedgerFixture(t, 1000)
	outsider := lf.newVerifiedUser(t, "b@x.com")

	group, err := lf.Groups.Create(lf.User, "Family")
	require.NoError(t, err)
	shared, err := lf.Accounts.Create(lf.User, AccountInput{
		Name: "Shared", Type: models.AccountTypeBank, GroupID: &group.ID,
	})
	require.NoError(t, err)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err = lf.Ledger.Create(lf.User, TransactionInput{
		Type:            models.TransactionTypeExpense,
		Amount:          decimal.NewFromInt(2),
		TransactionDate: date,
		CategoryID:      lf.Category.ID,
		AccountID:       shared.ID,
		GroupID:         &group.ID,
	})
	require.NoError(t, err)
	_, err = lf.Ledger.Create(lf.User, TransactionInput{
		Type:            models.TransactionTypeExpense,
		Amount:          decimal.NewFromInt(3),
		TransactionDate: date,
		CategoryID:      lf.Category.ID,
		AccountID:       lf.Account.ID,
	})
	require.NoError(t, err)

	groupList, err := lf.Ledger.List(lf.User, 2026, 3, &group.ID)
	require.NoError(t, err)
	require.Len(t, groupList, 1)

	personal, err := lf.Ledger.List(lf.User, 2026, 3, nil)
	require.NoError(t, err)
	require.Len(t, personal, 1)

	_, err = lf.Ledger.List(outsider, 2026, 3, &group.ID)
	requireStatus(t, err, http.StatusForbidden)
}

func TestSummaryTwoWindows(t *testing.T) {
	lf := newLedgerFixture(t, 1000)
	income, err := lf.Categories.Create(lf.User, CategoryInput{Name: "Salary", Type: models.CategoryTypeIncome})
	require.NoError(t, err)

	post := func(txType string, categoryID string, amount string, date time.Time) {
		t.Helper()
		_, err := lf.Ledger.Create(lf.User, TransactionInput{
			Type:            txType,
			Amount:          decimal.RequireFromString(amount),
			TransactionDate: date,
			CategoryID:      categoryID,
			AccountID:       lf.Account.ID,
		})
		require.NoError(t, err)
	}

	march := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	february := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	post(models.TransactionTypeIncome, income.ID, "1000.00", march)
	post(models.TransactionTypeExpense, lf.Category.ID, "250.50", march)
	post(models.TransactionTypeExpense, lf.Category.ID, "99.99", february)

	current, previous, err := lf.Ledger.Summary(lf.User, 2026, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", current.Income)
	assert.Equal(t, "250.50", current.Expense)
	assert.Equal(t, "0.00", previous.Income)
	assert.Equal(t, "99.99", previous.Expense)
}

func TestBalanceInvariantAfterMixedSequence(t *testing.T) {
	lf := newLedgerFixture(t, 100)
	income, err := lf.Categories.Create(lf.User, CategoryInput{Name: "Salary", Type: models.CategoryTypeIncome})
	require.NoError(t, err)

	t1 := lf.expense(t, 30)
	_, err = lf.Ledger.Create(lf.User, TransactionInput{
		Type:       models.TransactionTypeIncome,
		Amount:     decimal.NewFromInt(200),
		CategoryID: income.ID,
		AccountID:  lf.Account.ID,
	})
	require.NoError(t, err)
	t3 := lf.expense(t, 45)

	amount := decimal.NewFromInt(60)
	_, err = lf.Ledger.Update(lf.User, t3.ID, TransactionPatch{Amount: &amount})
	require.NoError(t, err)
	require.NoError(t, lf.Ledger.Delete(lf.User, t1.ID))

	// balance == initial + sum of signed non-deleted transactions
	var transactions []models.Transaction
	require.NoError(t, lf.DB.Where("account_id = ?", lf.Account.ID).Find(&transactions).Error)
	expected := int64(10000)
	for i := range transactions {
		expected += transactions[i].SignedCent()
	}
	assert.Equal(t, expected, lf.balanceCent(t, lf.Account.ID))
	assert.Equal(t, int64(10000+20000-6000), lf.balanceCent(t, lf.Account.ID))
}

func TestTransactionOwnership(t *testing.T) {
	lf := newLedgerFixture(t, 100)
	other := lf.newVerifiedUser(t, "b@x.com")
	tx := lf.expense(t, 10)

	_, err := lf.Ledger.Update(other, tx.ID, TransactionPatch{})
	requireStatus(t, err, http.StatusNotFound)

	err = lf.Ledger.Delete(other, tx.ID)
	requireStatus(t, err, http.StatusNotFound)
}
