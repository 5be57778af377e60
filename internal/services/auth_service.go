package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/booknest/booknest-server/internal/config"
	"github.com/booknest/booknest-server/internal/database"
	"github.com/booknest/booknest-server/internal/dto"
	"github.com/booknest/booknest-server/internal/models"
	"github.com/booknest/booknest-server/internal/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrGoogleUnverified   = errors.New("google account email is not verified")
	ErrAccountNotFound    = errors.New("account not found")
)

// IDTokenVerifier verifies third-party identity tokens.
type IDTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

type AuthService struct {
	db       *gorm.DB
	cfg      *config.Config
	google   IDTokenVerifier
	revoker  session.Revoker
	profiles *ProfileService
}

func NewAuthService(db *gorm.DB, cfg *config.Config, google IDTokenVerifier, revoker session.Revoker, profiles *ProfileService) *AuthService {
	return &AuthService{
		db:       db,
		cfg:      cfg,
		google:   google,
		revoker:  revoker,
		profiles: profiles,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) SignUp(req *dto.SignUpRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	var existing models.Account
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := models.Account{
		Email:        email,
		Password:     string(hash),
		AuthProvider: models.ProviderEmail,
	}
	if err := s.db.Create(&account).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	slog.Info("account created", "user_id", strconv.FormatUint(uint64(account.ID), 10), "action", "signup")
	return s.generateTokenPair(&account)
}

func (s *AuthService) SignIn(req *dto.SignInRequest) (*dto.AuthResponse, error) {
	var account models.Account
	if err := s.db.Where("email = ?", normalizeEmail(req.Email)).First(&account).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if account.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.generateTokenPair(&account)
}

// SignInWithGoogle finds or creates the account behind a verified Google
// ID token. An existing email/password account with the same email is
// linked to the Google subject.
func (s *AuthService) SignInWithGoogle(ctx context.Context, idToken string) (*dto.AuthResponse, error) {
	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		if errors.Is(err, ErrGoogleNotConfigured) {
			return nil, err
		}
		slog.Warn("google token verification failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if !identity.EmailVerified || identity.Email == "" {
		return nil, ErrGoogleUnverified
	}
	email := normalizeEmail(identity.Email)

	// Prefer the subject link; fall back to the email for first-time linking.
	var account models.Account
	err = s.db.Where("google_sub = ?", identity.Sub).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = s.db.Where("email = ?", email).First(&account).Error
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub := identity.Sub
		account = models.Account{
			Email:        email,
			AuthProvider: models.ProviderGoogle,
			GoogleSub:    &sub,
		}
		if err := s.db.Create(&account).Error; err != nil {
			return nil, fmt.Errorf("failed to create google account: %w", err)
		}
		slog.Info("account created", "user_id", strconv.FormatUint(uint64(account.ID), 10), "action", "google_signup")
	case err != nil:
		return nil, fmt.Errorf("failed to look up account: %w", err)
	case account.GoogleSub != nil && *account.GoogleSub != identity.Sub:
		slog.Warn("google subject mismatch", "user_id", strconv.FormatUint(uint64(account.ID), 10), "action", "google_signin")
		return nil, ErrInvalidCredentials
	case account.GoogleSub == nil:
		sub := identity.Sub
		if err := s.db.Model(&account).Update("google_sub", sub).Error; err != nil {
			return nil, fmt.Errorf("failed to link google account: %w", err)
		}
		account.GoogleSub = &sub
	}

	return s.generateTokenPair(&account)
}

// Refresh rotates a refresh token. A token can be exchanged exactly once.
func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ? AND revoked = ?", hashToken(req.RefreshToken), false).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	res := s.db.Model(&models.RefreshToken{}).
		Where("id = ? AND revoked = ?", stored.ID, false).
		Update("revoked", true)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", res.Error)
	}
	if res.RowsAffected == 0 || time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	var account models.Account
	if err := s.db.First(&account, stored.AccountID).Error; err != nil {
		return nil, ErrAccountNotFound
	}
	return s.generateTokenPair(&account)
}

// SignOut revokes the refresh token and invalidates the access token
// presented with the request until it would have expired anyway.
func (s *AuthService) SignOut(claims *session.Claims, refreshToken string) error {
	if refreshToken != "" {
		if err := s.db.Model(&models.RefreshToken{}).
			Where("token_hash = ? AND account_id = ?", hashToken(refreshToken), claims.AccountID).
			Update("revoked", true).Error; err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
	}

	if claims.TokenID != "" {
		ttl := time.Until(claims.ExpiresAt)
		if ttl > 0 {
			if err := s.revoker.Revoke(claims.TokenID, ttl); err != nil {
				return fmt.Errorf("failed to revoke access token: %w", err)
			}
		}
	}

	slog.Info("signed out", "user_id", strconv.FormatUint(uint64(claims.AccountID), 10), "action", "signout")
	return nil
}

func (s *AuthService) CurrentSession(claims *session.Claims) (*dto.SessionResponse, error) {
	_, err := s.profiles.GetByEmail(claims.Email)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}
	return &dto.SessionResponse{
		AccountID:  claims.AccountID,
		Email:      claims.Email,
		ExpiresAt:  claims.ExpiresAt,
		HasProfile: err == nil,
	}, nil
}

func (s *AuthService) generateTokenPair(account *models.Account) (*dto.AuthResponse, error) {
	accessToken, expiresAt, err := s.generateAccessToken(account)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(account)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		Account: dto.AccountResponse{
			ID:           account.ID,
			Email:        account.Email,
			AuthProvider: account.AuthProvider,
		},
	}, nil
}

func (s *AuthService) generateAccessToken(account *models.Account) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.JWTAccessExpiry)
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(account.ID), 10),
		"email": account.Email,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *AuthService) generateRefreshToken(account *models.Account) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		ID:        uuid.New(),
		AccountID: account.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
