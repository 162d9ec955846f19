package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/core/ports/mocks"
	"github.com/srgjo27/transit_ticket/internal/core/services"
)

var authCfg = services.AuthConfig{
	Secret:        "access-secret",
	RefreshSecret: "refresh-secret",
	AccessTTL:     15 * time.Minute,
	RefreshTTL:    24 * time.Hour,
}

func newAuth(t *testing.T, now *time.Time) (*services.AuthService, *mocks.UserRepository, *mocks.TokenStore) {
	users := mocks.NewUserRepository(t)
	tokens := mocks.NewTokenStore(t)
	svc := services.NewAuthService(users, tokens, authCfg).WithClock(func() time.Time { return *now })
	return svc, users, tokens
}

func activeUser(t *testing.T, password string) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{
		ID:           uuid.New(),
		Email:        "an@example.com",
		PasswordHash: string(hash),
		DisplayName:  "An",
		Role:         domain.RoleUser,
		IsActive:     true,
	}
}

func TestRegister(t *testing.T) {
	now := time.Now()
	svc, users, _ := newAuth(t, &now)
	ctx := context.Background()

	users.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "an@example.com" && u.Role == domain.RoleUser &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")) == nil
	})).Return(nil)

	user, err := svc.Register(ctx, services.RegisterRequest{Email: " An@Example.com ", Password: "s3cret-pass", DisplayName: "An"})

	require.NoError(t, err)
	assert.True(t, user.IsActive)
}

func TestRegister_ShortPassword(t *testing.T) {
	now := time.Now()
	svc, _, _ := newAuth(t, &now)

	_, err := svc.Register(context.Background(), services.RegisterRequest{Email: "a@b.c", Password: "short", DisplayName: "A"})

	assert.True(t, domain.IsValidation(err))
}

func TestLogin_AndAuthenticate(t *testing.T) {
	now := time.Now()
	svc, users, tokens := newAuth(t, &now)
	ctx := context.Background()
	user := activeUser(t, "s3cret-pass")

	users.On("GetByEmail", ctx, "an@example.com").Return(user, nil)
	tokens.On("Generation", ctx, user.ID).Return(int64(0), nil)

	resp, err := svc.Login(ctx, "an@example.com", "s3cret-pass")
	require.NoError(t, err)

	sub, err := svc.Authenticate(resp.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, sub.ID)
	assert.Equal(t, domain.RoleUser, sub.Role)

	_, err = svc.Authenticate(resp.Tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	now = now.Add(16 * time.Minute)
	_, err = svc.Authenticate(resp.Tokens.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_Rejections(t *testing.T) {
	now := time.Now()
	ctx := context.Background()

	t.Run("wrong password", func(t *testing.T) {
		svc, users, _ := newAuth(t, &now)
		users.On("GetByEmail", ctx, "an@example.com").Return(activeUser(t, "s3cret-pass"), nil)

		_, err := svc.Login(ctx, "an@example.com", "guess")

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, users, _ := newAuth(t, &now)
		users.On("GetByEmail", ctx, "who@example.com").Return(nil, domain.NewNotFoundError("user"))

		_, err := svc.Login(ctx, "who@example.com", "s3cret-pass")

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("disabled account", func(t *testing.T) {
		svc, users, _ := newAuth(t, &now)
		user := activeUser(t, "s3cret-pass")
		user.IsActive = false
		users.On("GetByEmail", ctx, "an@example.com").Return(user, nil)

		_, err := svc.Login(ctx, "an@example.com", "s3cret-pass")

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestRefresh_RotatesAndRevokes(t *testing.T) {
	now := time.Now()
	svc, users, tokens := newAuth(t, &now)
	ctx := context.Background()
	user := activeUser(t, "s3cret-pass")

	users.On("GetByEmail", ctx, "an@example.com").Return(user, nil)
	users.On("GetByID", ctx, user.ID).Return(user, nil)
	tokens.On("Generation", ctx, user.ID).Return(int64(0), nil)

	login, err := svc.Login(ctx, "an@example.com", "s3cret-pass")
	require.NoError(t, err)

	tokens.On("IsRevoked", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	tokens.On("Revoke", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()

	pair, err := svc.Refresh(ctx, login.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.Tokens.RefreshToken, pair.RefreshToken)

	tokens.On("IsRevoked", ctx, mock.AnythingOfType("string")).Return(true, nil).Once()

	_, err = svc.Refresh(ctx, login.Tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	now := time.Now()
	svc, users, tokens := newAuth(t, &now)
	ctx := context.Background()
	user := activeUser(t, "s3cret-pass")

	users.On("GetByEmail", ctx, "an@example.com").Return(user, nil)
	tokens.On("Generation", ctx, user.ID).Return(int64(0), nil)
	login, err := svc.Login(ctx, "an@example.com", "s3cret-pass")
	require.NoError(t, err)

	tokens.On("Revoke", ctx, mock.AnythingOfType("string"), mock.MatchedBy(func(until time.Time) bool {
		return until.Equal(login.Tokens.RefreshExpiresAt.Truncate(time.Second))
	})).Return(nil)

	require.NoError(t, svc.Logout(ctx, login.Tokens.RefreshToken))
}

func TestLogoutAll_EndsEarlierRefreshSessions(t *testing.T) {
	now := time.Now()
	svc, users, tokens := newAuth(t, &now)
	ctx := context.Background()
	user := activeUser(t, "s3cret-pass")

	users.On("GetByEmail", ctx, "an@example.com").Return(user, nil)
	users.On("GetByID", ctx, user.ID).Return(user, nil)
	tokens.On("Generation", ctx, user.ID).Return(int64(0), nil).Once()

	login, err := svc.Login(ctx, "an@example.com", "s3cret-pass")
	require.NoError(t, err)

	tokens.On("BumpGeneration", ctx, user.ID).Return(nil).Once()
	require.NoError(t, svc.LogoutAll(ctx, user.Subject()))

	tokens.On("IsRevoked", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	tokens.On("Generation", ctx, user.ID).Return(int64(1), nil).Once()

	_, err = svc.Refresh(ctx, login.Tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	tokens.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProfile(t *testing.T) {
	now := time.Now()
	ctx := context.Background()

	t.Run("applies changed fields", func(t *testing.T) {
		svc, users, _ := newAuth(t, &now)
		user := activeUser(t, "s3cret-pass")
		user.Phone = "0900000000"
		updated := *user
		updated.DisplayName = "An Nguyen"

		users.On("GetByID", ctx, user.ID).Return(user, nil)
		users.On("UpdateProfile", ctx, user.ID, "An Nguyen", "0900000000", now).Return(&updated, nil)

		got, err := svc.UpdateProfile(ctx, user.Subject(), services.ProfileUpdate{DisplayName: " An Nguyen "})

		require.NoError(t, err)
		assert.Equal(t, "An Nguyen", got.DisplayName)
	})

	t.Run("short display name", func(t *testing.T) {
		svc, users, _ := newAuth(t, &now)
		user := activeUser(t, "s3cret-pass")
		users.On("GetByID", ctx, user.ID).Return(user, nil)

		_, err := svc.UpdateProfile(ctx, user.Subject(), services.ProfileUpdate{DisplayName: "A"})

		assert.True(t, domain.IsValidation(err))
	})

	t.Run("phone taken", func(t *testing.T) {
		svc, users, _ := newAuth(t, &now)
		user := activeUser(t, "s3cret-pass")
		users.On("GetByID", ctx, user.ID).Return(user, nil)
		users.On("UpdateProfile", ctx, user.ID, "An", "0911111111", now).
			Return(nil, domain.ErrAlreadyExists.WithMsg("phone number already in use"))

		_, err := svc.UpdateProfile(ctx, user.Subject(), services.ProfileUpdate{Phone: "0911111111"})

		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})
}

func TestChangePassword(t *testing.T) {
	now := time.Now()
	ctx := context.Background()

	t.Run("updates hash and ends sessions", func(t *testing.T) {
		svc, users, tokens := newAuth(t, &now)
		user := activeUser(t, "s3cret-pass")

		users.On("GetByID", ctx, user.ID).Return(user, nil)
		users.On("UpdatePassword", ctx, user.ID, mock.MatchedBy(func(hash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("n3w-s3cret-pass")) == nil
		}), now).Return(nil)
		tokens.On("BumpGeneration", ctx, user.ID).Return(nil)

		require.NoError(t, svc.ChangePassword(ctx, user.Subject(), "s3cret-pass", "n3w-s3cret-pass"))
	})

	t.Run("wrong current password", func(t *testing.T) {
		svc, users, _ := newAuth(t, &now)
		user := activeUser(t, "s3cret-pass")
		users.On("GetByID", ctx, user.ID).Return(user, nil)

		err := svc.ChangePassword(ctx, user.Subject(), "guess", "n3w-s3cret-pass")

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("short new password", func(t *testing.T) {
		svc, users, _ := newAuth(t, &now)
		user := activeUser(t, "s3cret-pass")
		users.On("GetByID", ctx, user.ID).Return(user, nil)

		err := svc.ChangePassword(ctx, user.Subject(), "s3cret-pass", "short")

		assert.True(t, domain.IsValidation(err))
	})
}

func TestForgotPassword(t *testing.T) {
	now := time.Now()
	ctx := context.Background()

	t.Run("stores a reset token", func(t *testing.T) {
		svc, users, tokens := newAuth(t, &now)
		user := activeUser(t, "s3cret-pass")
		users.On("GetByEmail", ctx, "an@example.com").Return(user, nil)
		tokens.On("SaveResetToken", ctx, mock.AnythingOfType("string"), user.ID, time.Hour).Return(nil)

		token, err := svc.ForgotPassword(ctx, " An@example.com")

		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("unknown email looks the same", func(t *testing.T) {
		svc, users, _ := newAuth(t, &now)
		users.On("GetByEmail", ctx, "who@example.com").Return(nil, domain.NewNotFoundError("user"))

		token, err := svc.ForgotPassword(ctx, "who@example.com")

		require.NoError(t, err)
		assert.Empty(t, token)
	})
}

func TestResetPassword(t *testing.T) {
	now := time.Now()
	ctx := context.Background()

	t.Run("consumes token and sets password", func(t *testing.T) {
		svc, users, tokens := newAuth(t, &now)
		userID := uuid.New()
		tokens.On("ConsumeResetToken", ctx, "tok").Return(userID, nil)
		users.On("UpdatePassword", ctx, userID, mock.AnythingOfType("string"), now).Return(nil)
		tokens.On("BumpGeneration", ctx, userID).Return(nil)

		require.NoError(t, svc.ResetPassword(ctx, "tok", "n3w-s3cret-pass"))
	})

	t.Run("unknown token", func(t *testing.T) {
		svc, _, tokens := newAuth(t, &now)
		tokens.On("ConsumeResetToken", ctx, "tok").Return(uuid.Nil, nil)

		err := svc.ResetPassword(ctx, "tok", "n3w-s3cret-pass")

		assert.True(t, domain.IsValidation(err))
	})

	t.Run("short password keeps the token", func(t *testing.T) {
		svc, _, _ := newAuth(t, &now)

		err := svc.ResetPassword(ctx, "tok", "short")

		assert.True(t, domain.IsValidation(err))
	})
}
