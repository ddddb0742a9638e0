package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pdflingua/internal/pkg/jwtutil"
	"pdflingua/internal/repository"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	return NewAuthService(repository.NewUserRepository(db), "test-secret", 15*time.Minute, 24*time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	service := newAuthService(t)

	result, err := service.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)
	require.Equal(t, "alice", result.User.Username)

	claims, err := jwtutil.ParseToken("test-secret", result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, claims.UserID)

	// Login works with either username or email.
	byName, err := service.Login(LoginInput{Identifier: "alice", Password: "correct-horse"})
	require.NoError(t, err)
	require.Equal(t, result.User.ID, byName.User.ID)

	byEmail, err := service.Login(LoginInput{Identifier: "alice@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	require.Equal(t, result.User.ID, byEmail.User.ID)
}

func TestRegisterDuplicates(t *testing.T) {
	service := newAuthService(t)

	_, err := service.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = service.Register(RegisterInput{Username: "alice", Email: "other@example.com", Password: "correct-horse"})
	require.ErrorIs(t, err, ErrUsernameExists)

	_, err = service.Register(RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "correct-horse"})
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestRegisterValidation(t *testing.T) {
	service := newAuthService(t)

	_, err := service.Register(RegisterInput{Username: "", Email: "a@b.com", Password: "correct-horse"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Register(RegisterInput{Username: "bob", Email: "a@b.com", Password: "short"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	service := newAuthService(t)

	_, err := service.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = service.Login(LoginInput{Identifier: "alice", Password: "wrong-password"})
	require.ErrorIs(t, err, ErrInvalidCredential)

	_, err = service.Login(LoginInput{Identifier: "nobody", Password: "correct-horse"})
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	service := newAuthService(t)

	result, err := service.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	access, err := service.Refresh(result.RefreshToken)
	require.NoError(t, err)

	claims, err := jwtutil.ParseToken("test-secret", access)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, claims.UserID)

	// An access token is not accepted as a refresh token.
	_, err = service.Refresh(result.AccessToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)

	_, err = service.Refresh("garbage")
	require.ErrorIs(t, err, ErrInvalidRefresh)
}
