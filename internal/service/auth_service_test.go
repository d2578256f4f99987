package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-checklist-api/internal/auth"
	"go-checklist-api/internal/model"
	"go-checklist-api/pkg/apierror"
)

type countingHasher struct {
	*auth.Hasher
	equalized atomic.Int32
}

func (h *countingHasher) Equalize(plaintext string) {
	h.equalized.Add(1)
	h.Hasher.Equalize(plaintext)
}

type authFixture struct {
	users  *memUserStore
	hasher *countingHasher
	tokens *auth.TokenService
	now    time.Time
	svc    *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	hasher, err := auth.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	f := &authFixture{
		users:  newMemUserStore(),
		hasher: &countingHasher{Hasher: hasher},
		now:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.tokens, err = auth.NewTokenService("service-test-secret", time.Hour, 0, auth.WithClock(func() time.Time { return f.now }))
	require.NoError(t, err)

	f.svc = NewAuthService(f.users, f.hasher, f.tokens)
	return f
}

func (f *authFixture) register(t *testing.T, username string, password string, isAdmin bool) model.User {
	t.Helper()

	user, err := f.svc.Register(context.Background(), model.RegisterRequest{
		Name:     strings.ToUpper(username[:1]) + username[1:],
		Username: username,
		Email:    username + "@example.com",
		Password: password,
		IsAdmin:  isAdmin,
	})
	require.NoError(t, err)
	return user
}

func requireAPIError(t *testing.T, err error, code string) *apierror.APIError {
	t.Helper()

	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
	require.Equal(t, code, apiErr.Code)
	return apiErr
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("stores a hashed password and never serializes it", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture(t)

		user := f.register(t, "alice", "secret", false)

		require.NotZero(t, user.ID)
		require.Equal(t, "alice", user.Username)
		require.False(t, user.IsAdmin)
		require.NotEqual(t, "secret", user.PasswordHash)
		require.True(t, f.hasher.Verify("secret", user.PasswordHash))

		body, err := json.Marshal(user)
		require.NoError(t, err)
		assert.NotContains(t, string(body), user.PasswordHash)
		assert.NotContains(t, string(body), "password")
	})

	t.Run("rejects a taken username and keeps one record", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture(t)
		f.register(t, "alice", "secret", false)

		_, err := f.svc.Register(context.Background(), model.RegisterRequest{
			Username: "alice", Email: "other@example.com", Password: "another",
		})

		apiErr := requireAPIError(t, err, apierror.CodeConflict)
		require.Equal(t, msgUsernameTaken, apiErr.Message)
		require.Equal(t, 1, f.users.count())
	})

	t.Run("maps an email clash from the store to conflict", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture(t)
		f.register(t, "alice", "secret", false)

		_, err := f.svc.Register(context.Background(), model.RegisterRequest{
			Username: "alicia", Email: "alice@example.com", Password: "another",
		})

		requireAPIError(t, err, apierror.CodeConflict)
		require.Equal(t, 1, f.users.count())
	})

	t.Run("concurrent duplicates produce exactly one user", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture(t)

		const attempts = 8
		var (
			wg        sync.WaitGroup
			successes atomic.Int32
			conflicts atomic.Int32
		)
		for range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.svc.Register(context.Background(), model.RegisterRequest{
					Username: "racer", Email: "racer@example.com", Password: "secret",
				})
				var apiErr *apierror.APIError
				switch {
				case err == nil:
					successes.Add(1)
				case errors.As(err, &apiErr) && apiErr.Code == apierror.CodeConflict:
					conflicts.Add(1)
				}
			}()
		}
		wg.Wait()

		require.Equal(t, int32(1), successes.Load())
		require.Equal(t, int32(attempts-1), conflicts.Load())
		require.Equal(t, 1, f.users.count())
	})

	t.Run("returns field errors for invalid input", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture(t)

		_, err := f.svc.Register(context.Background(), model.RegisterRequest{
			Username: "al", Email: "not-an-email",
		})

		apiErr := requireAPIError(t, err, apierror.CodeValidation)
		require.Contains(t, apiErr.Fields, "username")
		require.Contains(t, apiErr.Fields, "email")
		require.Contains(t, apiErr.Fields, "password")
		require.Zero(t, f.users.count())
	})

	t.Run("rejects passwords bcrypt would truncate", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture(t)

		_, err := f.svc.Register(context.Background(), model.RegisterRequest{
			Username: "alice", Email: "alice@example.com", Password: strings.Repeat("é", 40),
		})

		apiErr := requireAPIError(t, err, apierror.CodeValidation)
		require.Contains(t, apiErr.Fields, "password")
	})

	t.Run("hides store failures", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture(t)
		f.users.err = errStoreDown

		_, err := f.svc.Register(context.Background(), model.RegisterRequest{
			Username: "alice", Email: "alice@example.com", Password: "secret",
		})

		apiErr := requireAPIError(t, err, apierror.CodeInternal)
		require.NotContains(t, apiErr.Error(), errStoreDown.Error())
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("issues a token carrying the user role", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture(t)
		alice := f.register(t, "alice", "secret", false)
		root := f.register(t, "root", "hunter2", true)

		result, err := f.svc.Login(context.Background(), "alice", "secret")
		require.NoError(t, err)
		require.Equal(t, alice.ID, result.User.ID)

		claims, err := f.tokens.Verify(result.Token)
		require.NoError(t, err)
		require.Equal(t, alice.ID, claims.Subject)
		require.Equal(t, model.RoleUser, claims.Role)

		result, err = f.svc.Login(context.Background(), "root", "hunter2")
		require.NoError(t, err)
		claims, err = f.tokens.Verify(result.Token)
		require.NoError(t, err)
		require.Equal(t, root.ID, claims.Subject)
		require.Equal(t, model.RoleAdmin, claims.Role)
	})

	t.Run("unknown user and wrong password fail identically", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture(t)
		f.register(t, "alice", "secret", false)

		_, wrongPassword := f.svc.Login(context.Background(), "alice", "wrong")
		_, unknownUser := f.svc.Login(context.Background(), "bob", "secret")

		requireAPIError(t, wrongPassword, apierror.CodeUnauthorized)
		requireAPIError(t, unknownUser, apierror.CodeUnauthorized)
		require.Equal(t, wrongPassword, unknownUser)
		require.Equal(t, int32(1), f.hasher.equalized.Load())
	})

	t.Run("hides store failures", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture(t)
		f.users.err = errStoreDown

		_, err := f.svc.Login(context.Background(), "alice", "secret")
		requireAPIError(t, err, apierror.CodeInternal)
	})
}

func TestCurrentUser(t *testing.T) {
	t.Parallel()

	t.Run("resolves the logged in user", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture(t)
		alice := f.register(t, "alice", "secret", false)
		result, err := f.svc.Login(context.Background(), "alice", "secret")
		require.NoError(t, err)

		user, err := f.svc.CurrentUser(context.Background(), result.Token)
		require.NoError(t, err)
		require.Equal(t, alice.ID, user.ID)
		require.Equal(t, "alice", user.Username)
	})

	t.Run("missing tampered and expired tokens are unauthorized", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture(t)
		f.register(t, "alice", "secret", false)
		result, err := f.svc.Login(context.Background(), "alice", "secret")
		require.NoError(t, err)

		_, missing := f.svc.CurrentUser(context.Background(), "")
		_, garbage := f.svc.CurrentUser(context.Background(), "not.a.token")
		_, tampered := f.svc.CurrentUser(context.Background(), result.Token+"x")

		f.now = f.now.Add(2 * time.Hour)
		_, expired := f.svc.CurrentUser(context.Background(), result.Token)

		for _, err := range []error{missing, garbage, tampered, expired} {
			requireAPIError(t, err, apierror.CodeUnauthorized)
			require.Equal(t, missing, err)
		}
	})

	t.Run("deleted user is not found", func(t *testing.T) {
		t.Parallel()
		f := newAuthFixture(t)
		alice := f.register(t, "alice", "secret", false)
		result, err := f.svc.Login(context.Background(), "alice", "secret")
		require.NoError(t, err)
		f.users.delete(alice.ID)

		_, err = f.svc.CurrentUser(context.Background(), result.Token)
		requireAPIError(t, err, apierror.CodeNotFound)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	root := f.register(t, "root", "hunter2", true)
	result, err := f.svc.Login(context.Background(), "root", "hunter2")
	require.NoError(t, err)

	session, err := f.svc.Authenticate(context.Background(), result.Token)
	require.NoError(t, err)
	require.Equal(t, root.ID, session.User.ID)
	require.True(t, session.Claims.IsAdmin())

	f.users.delete(root.ID)
	_, err = f.svc.Authenticate(context.Background(), result.Token)
	requireAPIError(t, err, apierror.CodeUnauthorized)

	_, err = f.svc.Authenticate(context.Background(), "")
	requireAPIError(t, err, apierror.CodeUnauthorized)
}
