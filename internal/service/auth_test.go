package service

import (
	"context"
	"testing"
	"time"

	"productivity-ranker/internal/model"
	"productivity-ranker/internal/store"
	"productivity-ranker/internal/store/storetest"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuth(t *testing.T, ttl time.Duration) (*AuthService, *store.Store) {
	t.Helper()
	st := storetest.New(t)
	return NewAuthService(st, testSecret, ttl, nil), st
}

func registerReq(username string) model.RegisterRequest {
	return model.RegisterRequest{
		Username:    username,
		Email:       username + "@Example.com ",
		Password:    "correct horse",
		DisplayName: " " + username + " ",
		Occupation:  "designer",
	}
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newAuth(t, 7*24*time.Hour)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, registerReq("ana"))
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, "ana", u.DisplayName)
	assert.NotEqual(t, "correct horse", u.PasswordHash)

	claims, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	_, byEmail, err := svc.Login(ctx, "ana@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, token, byEmail)

	_, _, err = svc.Login(ctx, "ana", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterConflicts(t *testing.T) {
	svc, _ := newAuth(t, time.Hour)
	ctx := context.Background()
	_, _, err := svc.Register(ctx, registerReq("ana"))
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, registerReq("ana"))
	assert.ErrorIs(t, err, ErrUsernameTaken)

	req := registerReq("ana2")
	req.Email = "ANA@example.com"
	_, _, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticateRejectsForeignAndExpiredTokens(t *testing.T) {
	svc, _ := newAuth(t, time.Hour)
	ctx := context.Background()
	_, token, err := svc.Register(ctx, registerReq("ana"))
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1}).SignedString([]byte("other"))
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, forged)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutEndsSession(t *testing.T) {
	svc, _ := newAuth(t, time.Hour)
	ctx := context.Background()
	_, token, err := svc.Register(ctx, registerReq("ana"))
	require.NoError(t, err)
	claims, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims.ID))
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestRenewNearExpiry(t *testing.T) {
	ctx := context.Background()

	long, _ := newAuth(t, 7*24*time.Hour)
	_, token, err := long.Register(ctx, registerReq("ana"))
	require.NoError(t, err)
	claims, err := long.Authenticate(ctx, token)
	require.NoError(t, err)
	fresh, err := long.Renew(ctx, claims)
	require.NoError(t, err)
	assert.Empty(t, fresh)

	short, _ := newAuth(t, 2*time.Hour)
	_, token, err = short.Register(ctx, registerReq("ben"))
	require.NoError(t, err)
	claims, err = short.Authenticate(ctx, token)
	require.NoError(t, err)
	fresh, err = short.Renew(ctx, claims)
	require.NoError(t, err)
	require.NotEmpty(t, fresh)

	renewed, err := short.Authenticate(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, claims.ID, renewed.ID)
	assert.Equal(t, claims.UserID, renewed.UserID)
}

func TestUpdateProfileOnlyTouchesGivenFields(t *testing.T) {
	svc, _ := newAuth(t, time.Hour)
	ctx := context.Background()
	u, _, err := svc.Register(ctx, registerReq("ana"))
	require.NoError(t, err)

	goals := "  run a marathon "
	updated, err := svc.UpdateProfile(ctx, u.ID, model.ProfileRequest{Goals: &goals})
	require.NoError(t, err)
	assert.Equal(t, "run a marathon", updated.Goals)
	assert.Equal(t, "designer", updated.Occupation)
	assert.Equal(t, "ana", updated.DisplayName)
}

func TestUpdateProfileInvalidatesLeaderboardOnRename(t *testing.T) {
	st := storetest.New(t)
	cache := newFakeCache()
	lb := NewLeaderboardService(st, cache)
	lb.now = fixedClock("2026-02-07")
	svc := NewAuthService(st, testSecret, time.Hour, lb)
	ctx := context.Background()
	u, _, err := svc.Register(ctx, registerReq("ana"))
	require.NoError(t, err)

	goals := "read more"
	_, err = svc.UpdateProfile(ctx, u.ID, model.ProfileRequest{Goals: &goals})
	require.NoError(t, err)
	assert.Empty(t, cache.invalidated)

	name := "Ana B."
	updated, err := svc.UpdateProfile(ctx, u.ID, model.ProfileRequest{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ana B.", updated.DisplayName)
	assert.Equal(t, []string{"2026-02-02"}, cache.invalidated)
}

func TestSweepExpired(t *testing.T) {
	svc, st := newAuth(t, time.Hour)
	ctx := context.Background()
	u, _, err := svc.Register(ctx, registerReq("ana"))
	require.NoError(t, err)
	require.NoError(t, st.CreateSession(ctx, &model.Session{ID: "stale", UserID: u.ID, ExpiresAt: time.Now().Add(-time.Minute)}))

	n, err := svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
