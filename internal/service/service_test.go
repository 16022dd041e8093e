package service

import (
	"path/filepath"
	"testing"

	"github.com/YenChengLai/constellation-backend/internal/config"
	"github.com/YenChengLai/constellation-backend/internal/database"
	"github.com/YenChengLai/constellation-backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fixture wires every service against a throwaway sqlite database.
type fixture struct {
	DB         *gorm.DB
	Auth       *AuthService
	Groups     *GroupService
	Categories *CategoryService
	Accounts   *AccountService
	Ledger     *LedgerService
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			AccessTTLMinutes: 15,
			RefreshTTLDays:   7,
		},
		Security: config.SecurityConfig{
			BcryptCost: 4, // min cost, tests only
			AdminEmail: "admin@example.com",
		},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Init(config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	groups := NewGroupService(db)
	categories := NewCategoryService(db)
	accounts := NewAccountService(db, groups)
	return &fixture{
		DB:         db,
		Auth:       NewAuthService(db, testConfig()),
		Groups:     groups,
		Categories: categories,
		Accounts:   accounts,
		Ledger:     NewLedgerService(db, categories, accounts, groups),
	}
}

// newVerifiedUser signs up and verifies a user in one step.
func (f *fixture) newVerifiedUser(t *testing.T, email string) *models.User {
	t.Helper()

	user, err := f.Auth.Signup(SignupInput{Email: email, Password: "pw123456"})
	require.NoError(t, err)
	user, err = f.Auth.VerifyUser(user.ID)
	require.NoError(t, err)
	return user
}

// requireStatus asserts err is a service error with the given HTTP status.
func requireStatus(t *testing.T, err error, status int) {
	t.Helper()

	se, ok := AsError(err)
	require.True(t, ok, "expected a service error, got %v", err)
	require.Equal(t, status, se.Status)
}
