package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"notehub/internal/apperr"
	"notehub/internal/models"
	"notehub/internal/session"
	"notehub/internal/token"
)

type mockUserRepo struct {
	CreateFunc        func(ctx context.Context, user models.User) error
	GetByUsernameFunc func(ctx context.Context, username string) (*models.User, error)
	GetByIDFunc       func(ctx context.Context, id string) (*models.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user models.User) error {
	return m.CreateFunc(ctx, user)
}
func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.GetByUsernameFunc(ctx, username)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.GetByIDFunc(ctx, id)
}

type mockSessionStore struct {
	SaveFunc   func(ctx context.Context, tokenHash, userID, username string, expiresAt time.Time) error
	LookupFunc func(ctx context.Context, tokenHash string) (string, string, error)
	RevokeFunc func(ctx context.Context, tokenHash string) error
}

func (m *mockSessionStore) Save(ctx context.Context, tokenHash, userID, username string, expiresAt time.Time) error {
	return m.SaveFunc(ctx, tokenHash, userID, username, expiresAt)
}
func (m *mockSessionStore) Lookup(ctx context.Context, tokenHash string) (string, string, error) {
	return m.LookupFunc(ctx, tokenHash)
}
func (m *mockSessionStore) Revoke(ctx context.Context, tokenHash string) error {
	return m.RevokeFunc(ctx, tokenHash)
}

func testIssuer() *token.Issuer {
	return token.NewIssuer("test-secret", time.Minute)
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockSessionStore{}, testIssuer(), time.Hour)
	_, err := svc.Register(context.Background(), "bob", "short")
	wantKind(t, err, apperr.KindValidation)
}

func TestRegister_MissingUsername(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockSessionStore{}, testIssuer(), time.Hour)
	_, err := svc.Register(context.Background(), "   ", "password1")
	wantKind(t, err, apperr.KindValidation)
}

func TestRegister_HashesPassword(t *testing.T) {
	var created models.User
	users := &mockUserRepo{
		CreateFunc: func(_ context.Context, user models.User) error {
			created = user
			return nil
		},
	}
	svc := NewAuthService(users, &mockSessionStore{}, testIssuer(), time.Hour)

	user, err := svc.Register(context.Background(), " bob ", "password1")
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "password1", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("password1")))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	users := &mockUserRepo{
		CreateFunc: func(context.Context, models.User) error {
			return apperr.Conflict("username already exists")
		},
	}
	svc := NewAuthService(users, &mockSessionStore{}, testIssuer(), time.Hour)

	_, err := svc.Register(context.Background(), "bob", "password1")
	wantKind(t, err, apperr.KindConflict)
}

func TestLogin_UnknownUser(t *testing.T) {
	users := &mockUserRepo{
		GetByUsernameFunc: func(context.Context, string) (*models.User, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := NewAuthService(users, &mockSessionStore{}, testIssuer(), time.Hour)

	_, err := svc.Login(context.Background(), "bob", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &mockUserRepo{
		GetByUsernameFunc: func(context.Context, string) (*models.User, error) {
			return &models.User{ID: "u1", Username: "bob", PasswordHash: string(hash)}, nil
		},
	}
	svc := NewAuthService(users, &mockSessionStore{}, testIssuer(), time.Hour)

	_, err = svc.Login(context.Background(), "bob", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_IssuesPairAndStoresSession(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &mockUserRepo{
		GetByUsernameFunc: func(context.Context, string) (*models.User, error) {
			return &models.User{ID: "u1", Username: "bob", PasswordHash: string(hash)}, nil
		},
	}

	var savedHash, savedUser string
	sessions := &mockSessionStore{
		SaveFunc: func(_ context.Context, tokenHash, userID, _ string, expiresAt time.Time) error {
			savedHash = tokenHash
			savedUser = userID
			assert.True(t, expiresAt.After(time.Now()))
			return nil
		},
	}
	issuer := testIssuer()
	svc := NewAuthService(users, sessions, issuer, time.Hour)

	pair, err := svc.Login(context.Background(), "bob", "password1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Token)
	require.NotEmpty(t, pair.RefreshToken)

	// the stored hash is derived from the issued refresh token
	assert.Equal(t, token.Hash(pair.RefreshToken), savedHash)
	assert.Equal(t, "u1", savedUser)

	claims, err := issuer.Verify(pair.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "bob", claims.Username)
}

func TestRefresh_UnknownToken(t *testing.T) {
	sessions := &mockSessionStore{
		LookupFunc: func(context.Context, string) (string, string, error) {
			return "", "", session.ErrNotFound
		},
	}
	svc := NewAuthService(&mockUserRepo{}, sessions, testIssuer(), time.Hour)

	_, err := svc.Refresh(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefresh_EmptyToken(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockSessionStore{}, testIssuer(), time.Hour)
	_, err := svc.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefresh_RotatesToken(t *testing.T) {
	old := "oldtoken"
	oldHash := token.Hash(old)

	var revoked string
	var saved string
	sessions := &mockSessionStore{
		LookupFunc: func(_ context.Context, tokenHash string) (string, string, error) {
			assert.Equal(t, oldHash, tokenHash)
			return "u1", "bob", nil
		},
		RevokeFunc: func(_ context.Context, tokenHash string) error {
			revoked = tokenHash
			return nil
		},
		SaveFunc: func(_ context.Context, tokenHash, _, _ string, _ time.Time) error {
			saved = tokenHash
			return nil
		},
	}
	svc := NewAuthService(&mockUserRepo{}, sessions, testIssuer(), time.Hour)

	pair, err := svc.Refresh(context.Background(), old)
	require.NoError(t, err)
	assert.Equal(t, oldHash, revoked)
	assert.NotEqual(t, oldHash, saved)
	assert.Equal(t, token.Hash(pair.RefreshToken), saved)
}

func TestRefresh_StoreErrorPassesThrough(t *testing.T) {
	wantErr := errors.New("redis down")
	sessions := &mockSessionStore{
		LookupFunc: func(context.Context, string) (string, string, error) {
			return "", "", wantErr
		},
	}
	svc := NewAuthService(&mockUserRepo{}, sessions, testIssuer(), time.Hour)

	_, err := svc.Refresh(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, wantErr)
}

func TestLogout_RevokesToken(t *testing.T) {
	var revoked string
	sessions := &mockSessionStore{
		RevokeFunc: func(_ context.Context, tokenHash string) error {
			revoked = tokenHash
			return nil
		},
	}
	svc := NewAuthService(&mockUserRepo{}, sessions, testIssuer(), time.Hour)

	require.NoError(t, svc.Logout(context.Background(), "sometoken"))
	assert.Equal(t, token.Hash("sometoken"), revoked)
}

func TestLogout_EmptyTokenIsNoop(t *testing.T) {
	sessions := &mockSessionStore{
		RevokeFunc: func(context.Context, string) error {
			t.Fatal("revoke must not be called for an empty token")
			return nil
		},
	}
	svc := NewAuthService(&mockUserRepo{}, sessions, testIssuer(), time.Hour)

	assert.NoError(t, svc.Logout(context.Background(), ""))
}
