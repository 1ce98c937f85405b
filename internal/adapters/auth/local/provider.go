package local

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"vetclinic-dashboard/internal/ports/backend"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists   = errors.New("user already registered")
	ErrUserNotFound = errors.New("user not found")
	ErrWeakPassword = errors.New("password should be at least 6 characters")
	ErrInvalidEmail = errors.New("unable to validate email address: invalid format")
)

const minPasswordLen = 6

// User es el registro persistido por el UserStore.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Metadata     map[string]any
	CreatedAt    time.Time
}

// UserStore persiste usuarios (memoria o postgres).
type UserStore interface {
	CreateUser(ctx context.Context, u User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

type Config struct {
	Secret     string
	SessionTTL time.Duration
}

// Provider implementa backend.Auth sin servicio externo: contraseñas con
// bcrypt y sesiones como JWT HS256. Mantiene una única sesión por proceso.
type Provider struct {
	store  UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu        sync.RWMutex
	current   *backend.Session
	listeners backend.Listeners
}

func NewProvider(store UserStore, cfg Config) *Provider {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Provider{
		store:  store,
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (p *Provider) SignUp(ctx context.Context, email, password string, metadata map[string]any) (backend.SignUpResult, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return backend.SignUpResult{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return backend.SignUpResult{}, ErrWeakPassword
	}

	if _, err := p.store.GetUserByEmail(ctx, email); err == nil {
		return backend.SignUpResult{}, ErrUserExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return backend.SignUpResult{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return backend.SignUpResult{}, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Metadata:     metadata,
		CreatedAt:    p.now(),
	}
	if err := p.store.CreateUser(ctx, u); err != nil {
		return backend.SignUpResult{}, err
	}

	// Igual que el proveedor hospedado con confirmación: no abre sesión al registrarse.
	return backend.SignUpResult{User: toBackendUser(u)}, nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*backend.Session, error) {
	u, err := p.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, backend.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, backend.ErrInvalidCredentials
	}

	s, err := p.issue(u)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.current = s
	p.mu.Unlock()

	p.listeners.Notify(backend.EventSignedIn, s)
	return s, nil
}

func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	had := p.current != nil
	p.current = nil
	p.mu.Unlock()

	if had {
		p.listeners.Notify(backend.EventSignedOut, nil)
	}
	return nil
}

// CurrentSession devuelve la sesión vigente; una sesión vencida cuenta como ninguna.
func (p *Provider) CurrentSession(ctx context.Context) (*backend.Session, error) {
	p.mu.RLock()
	s := p.current
	p.mu.RUnlock()

	if s.Expired(p.now()) {
		return nil, nil
	}
	return s, nil
}

func (p *Provider) OnAuthStateChange(fn backend.AuthListener) func() {
	return p.listeners.Add(fn)
}

// VerifyToken valida un access token emitido por este provider.
func (p *Provider) VerifyToken(token string) (backend.User, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(p.now))
	if err != nil {
		return backend.User{}, fmt.Errorf("verify token: %w", err)
	}
	return backend.User{ID: claims.Subject, Email: claims.Email, Metadata: claims.Metadata}, nil
}

type sessionClaims struct {
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

func (p *Provider) issue(u User) (*backend.Session, error) {
	now := p.now()
	exp := now.Add(p.ttl)

	claims := sessionClaims{
		Email:    u.Email,
		Metadata: u.Metadata,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &backend.Session{
		AccessToken: signed,
		ExpiresAt:   exp,
		User:        toBackendUser(u),
	}, nil
}

func toBackendUser(u User) backend.User {
	return backend.User{ID: u.ID, Email: u.Email, Metadata: u.Metadata}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
