package service

import (
	"strings"

	"github.com/YenChengLai/constellation-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var accountTypes = map[string]bool{
	models.AccountTypeBank:       true,
	models.AccountTypeCreditCard: true,
	models.AccountTypeCash:       true,
	models.AccountTypeEWallet:    true,
	models.AccountTypeInvestment: true,
	models.AccountTypeOther:      true,
}

// AccountService manages funding accounts and is the sole mutator of their
// running balances.
type AccountService struct {
	DB     *gorm.DB
	Groups *GroupService
}

func NewAccountService(db *gorm.DB, groups *GroupService) *AccountService {
	return &AccountService{DB: db, Groups: groups}
}

type AccountInput struct {
	Name           string
	Type           string
	InitialBalance decimal.Decimal
	GroupID        *string
}

// Create makes a new account owned by the actor, or by a group the actor
// belongs to. The running balance starts at the initial balance.
func (s *AccountService) Create(actor *models.User, in AccountInput) (*models.Account, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, BadRequest("Account name must not be empty.")
	}
	if !accountTypes[in.Type] {
		return nil, BadRequest("Unknown account type '" + in.Type + "'.")
	}

	// initial balance may be zero or negative (e.g. credit card debt), but
	// must still fit the two-decimal grid
	initialCent := in.InitialBalance.Shift(2)
	if !initialCent.IsInteger() {
		return nil, BadRequest("Initial balance has more than two decimal places.")
	}

	account := models.Account{
		ID:                 uuid.NewString(),
		Name:               name,
		Type:               in.Type,
		InitialBalanceCent: initialCent.IntPart(),
		BalanceCent:        initialCent.IntPart(),
	}
	if in.GroupID != nil {
		member, err := s.Groups.IsMember(actor.ID, *in.GroupID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, Forbidden("You are not a member of this group.")
		}
		account.GroupID = in.GroupID
	} else {
		account.UserID = &actor.ID
	}

	if err := s.DB.Create(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// List returns the actor's personal accounts plus accounts of every group the
// actor belongs to, excluding archived ones.
func (s *AccountService) List(actor *models.User) ([]models.Account, error) {
	var accounts []models.Account
	err := s.DB.Where("is_archived = ?", false).
		Where("user_id = ? OR group_id IN (?)", actor.ID,
			s.DB.Table("group_members").Select("group_id").Where("user_id = ?", actor.ID)).
		Order("created_at ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

type AccountPatch struct {
	Name       *string
	IsArchived *bool
}

// Update patches an account the actor can reach. Inaccessible accounts are
// reported as missing. Archiving requires a zero balance, otherwise funds
// would silently disappear from view; unarchiving is unrestricted.
func (s *AccountService) Update(actor *models.User, accountID string, patch AccountPatch) (*models.Account, error) {
	account, err := s.LoadForUser(actor, accountID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, BadRequest("Account name must not be empty.")
		}
		updates["name"] = name
	}
	if patch.IsArchived != nil && *patch.IsArchived != account.IsArchived {
		if *patch.IsArchived && account.BalanceCent != 0 {
			return nil, BadRequest("Cannot archive an account with a non-zero balance.")
		}
		updates["is_archived"] = *patch.IsArchived
	}
	if len(updates) == 0 {
		return account, nil
	}

	if err := s.DB.Model(account).Updates(updates).Error; err != nil {
		return nil, err
	}
	return account, nil
}

// Archive hides an account. Shorthand for an archive-only patch.
func (s *AccountService) Archive(actor *models.User, accountID string) error {
	archived := true
	_, err := s.Update(actor, accountID, AccountPatch{IsArchived: &archived})
	return err
}

// LoadForUser loads an account the actor can reach: their own, or one owned
// by a group they belong to. Anything else is NotFound.
func (s *AccountService) LoadForUser(actor *models.User, accountID string) (*models.Account, error) {
	var account models.Account
	err := s.DB.Where("id = ?", accountID).
		Where("user_id = ? OR group_id IN (?)", actor.ID,
			s.DB.Table("group_members").Select("group_id").Where("user_id = ?", actor.ID)).
		First(&account).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFound("Account not found.")
		}
		return nil, err
	}
	return &account, nil
}

// adjustBalance applies a signed cent delta as an atomic increment at the
// store. Callers never read-modify-write the balance, so concurrent
// transactions against the same account cannot lose updates.
func (s *AccountService) adjustBalance(tx *gorm.DB, accountID string, deltaCent int64) error {
	res := tx.Model(&models.Account{}).
		Where("id = ?", accountID).
		UpdateColumn("balance_cent", gorm.Expr("balance_cent + ?", deltaCent))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NotFound("Account not found.")
	}
	return nil
}
