// Package auth signs profiles in with email and password and issues
// access tokens backed by a server-side session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Gin_postgres_redis_division_inventory/db"
	"Gin_postgres_redis_division_inventory/models"
	"Gin_postgres_redis_division_inventory/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type ProfileFinder interface {
	FindProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	FindProfileByID(ctx context.Context, id string) (*models.Profile, error)
}

type SessionStore interface {
	Create(ctx context.Context, id, profileID string) (*session.Session, error)
	Get(ctx context.Context, id string) (*session.Session, error)
	Delete(ctx context.Context, id string) error
}

type Claims struct {
	SessionID string      `json:"sid"`
	Role      models.Role `json:"role"`
	Division  string      `json:"div"`
	jwt.RegisteredClaims
}

// Session is what a successful sign-in hands back to the client.
type Session struct {
	AccessToken string         `json:"accessToken"`
	TokenType   string         `json:"tokenType"`
	ExpiresAt   time.Time      `json:"expiresAt"`
	Profile     models.Profile `json:"profile"`
}

type Authenticator struct {
	profiles ProfileFinder
	sessions SessionStore
	secret   []byte
	ttl      time.Duration
	issuer   string
	now      func() time.Time
}

func New(profiles ProfileFinder, sessions SessionStore, secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{
		profiles: profiles,
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
		issuer:   "division-inventory",
		now:      time.Now,
	}
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SignIn checks the password against the stored bcrypt hash. Unknown
// emails and wrong passwords both yield ErrInvalidCredentials.
func (a *Authenticator) SignIn(ctx context.Context, email, password string) (*Session, error) {
	p, err := a.profiles.FindProfileByEmail(ctx, email)
	if errors.Is(err, db.ErrProfileNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	if p.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	sid := uuid.NewString()
	if _, err := a.sessions.Create(ctx, sid, p.ID); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	now := a.now()
	exp := now.Add(a.ttl)
	claims := Claims{
		SessionID: sid,
		Role:      p.Role,
		Division:  p.Division(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			Issuer:    a.issuer,
			ID:        sid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		_ = a.sessions.Delete(ctx, sid)
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{AccessToken: token, TokenType: "bearer", ExpiresAt: exp, Profile: *p}, nil
}

func (a *Authenticator) parse(token string, opts ...jwt.ParserOption) (*Claims, error) {
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithTimeFunc(a.now),
	)
	var claims Claims
	if _, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...); err != nil {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// Verify validates the token and the server-side session behind it, and
// returns the current profile.
func (a *Authenticator) Verify(ctx context.Context, token string) (*Claims, *models.Profile, error) {
	claims, err := a.parse(token)
	if err != nil {
		return nil, nil, err
	}
	sess, err := a.sessions.Get(ctx, claims.SessionID)
	if errors.Is(err, session.ErrSessionNotFound) {
		return nil, nil, ErrInvalidToken
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	if sess.ProfileID != claims.Subject {
		return nil, nil, ErrInvalidToken
	}
	p, err := a.profiles.FindProfileByID(ctx, claims.Subject)
	if errors.Is(err, db.ErrProfileNotFound) {
		_ = a.sessions.Delete(ctx, claims.SessionID)
		return nil, nil, ErrInvalidToken
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load profile: %w", err)
	}
	return claims, p, nil
}

// SignOut drops the session behind token. Expired tokens are accepted so
// a stale client can still clean up.
func (a *Authenticator) SignOut(ctx context.Context, token string) error {
	claims, err := a.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return err
	}
	return a.sessions.Delete(ctx, claims.SessionID)
}
