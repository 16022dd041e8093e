package service

import (
	"errors"
	"strings"
	"time"

	"github.com/YenChengLai/constellation-backend/internal/config"
	"github.com/YenChengLai/constellation-backend/internal/models"
	"github.com/YenChengLai/constellation-backend/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// ClientMeta is the request metadata recorded with each session.
type ClientMeta struct {
	UserAgent string
	IPAddress string
}

// TokenPair is the response of login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService owns credentials and the refresh-token session lifecycle.
type AuthService struct {
	DB         *gorm.DB
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	BcryptCost int
	AdminEmail string
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	accessTTL := time.Duration(cfg.JWT.AccessTTLMinutes) * time.Minute
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	refreshTTL := time.Duration(cfg.JWT.RefreshTTLDays) * 24 * time.Hour
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &AuthService{
		DB:         db,
		Secret:     cfg.JWT.Secret,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		BcryptCost: cfg.Security.BcryptCost,
		AdminEmail: cfg.Security.AdminEmail,
	}
}

type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Signup creates a new, unverified user. The email must be unused.
func (s *AuthService) Signup(in SignupInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)

	var count int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, Conflict("User with this email already exists.")
	}

	hash, err := util.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Verified:     false,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		// backstop for a concurrent signup that slipped past the count check
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Conflict("User with this email already exists.")
		}
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials and mints a fresh token pair. Unverified
// accounts are rejected with Forbidden.
func (s *AuthService) Login(email, password string, meta ClientMeta) (*TokenPair, error) {
	var user models.User
	if err := s.DB.Where("email = ?", strings.TrimSpace(email)).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, Unauthorized("Invalid email or password")
		}
		return nil, err
	}

	if !util.CheckPassword(password, user.PasswordHash) {
		return nil, Unauthorized("Invalid email or password")
	}

	if !user.Verified {
		return nil, Forbidden("Account not verified. Please contact an administrator.")
	}

	return s.issueTokenPair(&user, meta)
}

// Rotate exchanges a raw refresh token for a new token pair. Each token is
// single use: the matching session is deleted before the new pair is issued,
// and under two racing rotations exactly one caller wins the delete.
func (s *AuthService) Rotate(rawRefreshToken string, meta ClientMeta) (*TokenPair, error) {
	digest := util.HashToken(rawRefreshToken)

	var session models.Session
	if err := s.DB.Where("refresh_token_hash = ?", digest).First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, Unauthorized("Invalid or expired refresh token")
		}
		return nil, err
	}

	// Guarded delete: the primary-key predicate makes this the atomic
	// find-and-delete. A concurrent rotation that already removed the row
	// leaves RowsAffected at zero and is treated as an unknown token.
	res := s.DB.Where("id = ?", session.ID).Delete(&models.Session{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, Unauthorized("Invalid or expired refresh token")
	}

	if session.ExpiresAt.Before(time.Now()) {
		return nil, Unauthorized("Invalid or expired refresh token")
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", session.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, Unauthorized("Invalid or expired refresh token")
		}
		return nil, err
	}

	return s.issueTokenPair(&user, meta)
}

// Logout deletes the session matching the raw refresh token. It is a no-op
// for unknown tokens.
func (s *AuthService) Logout(rawRefreshToken string) error {
	digest := util.HashToken(rawRefreshToken)
	return s.DB.Where("refresh_token_hash = ?", digest).Delete(&models.Session{}).Error
}

// VerifyAccess checks an access token and returns the subject user id.
func (s *AuthService) VerifyAccess(accessToken string) (string, error) {
	claims, err := util.ParseAccessToken(s.Secret, accessToken)
	if err != nil {
		return "", Unauthorized("Could not validate credentials")
	}
	return claims.Subject, nil
}

// IsAdmin reports whether the user is the configured administrator.
func (s *AuthService) IsAdmin(user *models.User) bool {
	return s.AdminEmail != "" && user.Email == s.AdminEmail
}

// ListUnverified returns every user still waiting for verification.
func (s *AuthService) ListUnverified() ([]models.User, error) {
	var users []models.User
	if err := s.DB.Where("verified = ?", false).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// VerifyUser flips a user's verified flag to true.
func (s *AuthService) VerifyUser(userID string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFound("User not found.")
		}
		return nil, err
	}
	if !user.Verified {
		if err := s.DB.Model(&user).Update("verified", true).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}

func (s *AuthService) issueTokenPair(user *models.User, meta ClientMeta) (*TokenPair, error) {
	access, err := util.GenerateAccessToken(s.Secret, user.ID, user.Email, s.AccessTTL)
	if err != nil {
		return nil, err
	}

	raw, err := util.NewRefreshToken()
	if err != nil {
		return nil, err
	}

	session := models.Session{
		ID:               uuid.NewString(),
		UserID:           user.ID,
		RefreshTokenHash: util.HashToken(raw),
		ExpiresAt:        time.Now().Add(s.RefreshTTL),
		UserAgent:        meta.UserAgent,
		IPAddress:        meta.IPAddress,
	}
	if err := s.DB.Create(&session).Error; err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: raw,
		TokenType:    "bearer",
	}, nil
}
