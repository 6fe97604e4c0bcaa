package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"productivity-ranker/internal/model"
	"productivity-ranker/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// renewWindow is how close to expiry a token must be before it is reissued.
const renewWindow = 24 * time.Hour

type Claims struct {
	UserID int    `json:"uid"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

type AuthService struct {
	store  *store.Store
	secret []byte
	ttl    time.Duration
	lb     *LeaderboardService
	now    func() time.Time
}

// NewAuthService takes the leaderboard so profile renames reach its cache.
// lb may be nil.
func NewAuthService(st *store.Store, secret string, ttl time.Duration, lb *LeaderboardService) *AuthService {
	return &AuthService{store: st, secret: []byte(secret), ttl: ttl, lb: lb, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if taken, err := s.store.UsernameTaken(ctx, username); err != nil {
		return nil, "", err
	} else if taken {
		return nil, "", ErrUsernameTaken
	}
	if taken, err := s.store.EmailTaken(ctx, email); err != nil {
		return nil, "", err
	} else if taken {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Occupation:   strings.TrimSpace(req.Occupation),
		Goals:        strings.TrimSpace(req.Goals),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, store.ErrDuplicate) {
			return nil, "", ErrAccountExists
		}
		return nil, "", err
	}

	token, err := s.issue(ctx, u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login accepts a username or email. Every mismatch reports
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, login, password string) (*model.User, string, error) {
	u, err := s.store.UserByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("login: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.issue(ctx, u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AuthService) issue(ctx context.Context, u *model.User) (string, error) {
	now := s.now().UTC()
	sess := &model.Session{ID: uuid.NewString(), UserID: u.ID, ExpiresAt: now.Add(s.ttl)}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return "", err
	}
	return s.sign(u.ID, u.DisplayName, sess.ID, sess.ExpiresAt)
}

func (s *AuthService) sign(uid int, name, sessionID string, exp time.Time) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: uid,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Authenticate verifies the token and that its session row is still live.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	sess, err := s.store.SessionByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}
	if sess.UserID != claims.UserID || !sess.ExpiresAt.After(s.now()) {
		return nil, ErrSessionExpired
	}
	return claims, nil
}

// Renew returns a fresh token for the same session when the current one is
// about to expire, or "" when no renewal is due.
func (s *AuthService) Renew(ctx context.Context, c *Claims) (string, error) {
	if c.ExpiresAt == nil || c.ExpiresAt.Sub(s.now()) >= renewWindow {
		return "", nil
	}
	exp := s.now().UTC().Add(s.ttl)
	if err := s.store.ExtendSession(ctx, c.ID, exp); err != nil {
		return "", fmt.Errorf("extend session: %w", err)
	}
	return s.sign(c.UserID, c.Name, c.ID, exp)
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.store.DeleteSession(ctx, sessionID)
}

func (s *AuthService) Me(ctx context.Context, userID int) (*model.User, error) {
	return s.store.UserByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int, req model.ProfileRequest) (*model.User, error) {
	updates := map[string]any{}
	if req.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*req.DisplayName)
	}
	if req.Occupation != nil {
		updates["occupation"] = strings.TrimSpace(*req.Occupation)
	}
	if req.Goals != nil {
		updates["goals"] = strings.TrimSpace(*req.Goals)
	}
	if err := s.store.UpdateProfile(ctx, userID, updates); err != nil {
		return nil, err
	}
	if s.lb != nil && (req.DisplayName != nil || req.Occupation != nil) {
		s.lb.InvalidateCurrent(ctx)
	}
	return s.store.UserByID(ctx, userID)
}

// SweepExpired deletes sessions past their expiry.
func (s *AuthService) SweepExpired(ctx context.Context) (int64, error) {
	return s.store.DeleteExpiredSessions(ctx, s.now().UTC())
}
