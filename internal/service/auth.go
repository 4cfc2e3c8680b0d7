package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"notehub/internal/apperr"
	"notehub/internal/models"
	"notehub/internal/session"
	"notehub/internal/token"
)

// ErrInvalidCredentials is returned for a bad username/password pair.
// The message never reveals which of the two was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrInvalidRefreshToken is returned for unknown, expired, or revoked
// refresh tokens.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// UserRepository defines the persistence operations needed by the
// AuthService.
type UserRepository interface {
	// Create inserts a new user record.
	Create(ctx context.Context, user models.User) error
	// GetByUsername fetches a user by username; sql.ErrNoRows when absent.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// GetByID fetches a user by id; sql.ErrNoRows when absent.
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// SessionStore holds refresh tokens between logins.
type SessionStore interface {
	Save(ctx context.Context, tokenHash, userID, username string, expiresAt time.Time) error
	Lookup(ctx context.Context, tokenHash string) (userID, username string, err error)
	Revoke(ctx context.Context, tokenHash string) error
}

// AuthService implements signup, login, and token refresh.
type AuthService struct {
	users      UserRepository
	sessions   SessionStore
	issuer     *token.Issuer
	refreshTTL time.Duration
}

// NewAuthService constructs an AuthService.
func NewAuthService(users UserRepository, sessions SessionStore, issuer *token.Issuer, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		issuer:     issuer,
		refreshTTL: refreshTTL,
	}
}

// Register creates a new user with a bcrypt password digest. Duplicate
// usernames surface as a conflict from the repository.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperr.Validation("missing username")
	}
	if len(password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials and issues an access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issuePair(ctx, user.ID, user.Username)
}

// Refresh exchanges a valid refresh token for a new token pair. The
// old refresh token is revoked so each one is single-use.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}

	hash := token.Hash(refreshToken)
	userID, username, err := s.sessions.Lookup(ctx, hash)
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Revoke(ctx, hash); err != nil {
		return nil, err
	}
	return s.issuePair(ctx, userID, username)
}

// Logout revokes a refresh token. Unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, token.Hash(refreshToken))
}

func (s *AuthService) issuePair(ctx context.Context, userID, username string) (*models.TokenPair, error) {
	access, err := s.issuer.Issue(userID, username)
	if err != nil {
		return nil, err
	}

	refresh, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	expiresAt := time.Now().Add(s.refreshTTL)
	if err := s.sessions.Save(ctx, token.Hash(refresh), userID, username, expiresAt); err != nil {
		return nil, err
	}

	return &models.TokenPair{Token: access, RefreshToken: refresh}, nil
}

// generateToken creates a secure random opaque token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
