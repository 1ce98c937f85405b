package backend

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrNoSession          = errors.New("no active session")
)

// User es el usuario autenticado (Metadata guarda full_name, etc.).
type User struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata,omitempty"`
}

// FullName devuelve el nombre guardado en metadata al registrarse.
func (u User) FullName() string {
	if v, ok := u.Metadata["full_name"].(string); ok {
		return v
	}
	return ""
}

type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

func (s *Session) Expired(now time.Time) bool {
	return s == nil || (!s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt))
}

// SignUpResult: Session es nil cuando el proveedor exige confirmar el e-mail.
type SignUpResult struct {
	User    User
	Session *Session
}

type AuthEvent string

const (
	EventSignedIn  AuthEvent = "SIGNED_IN"
	EventSignedOut AuthEvent = "SIGNED_OUT"
)

type AuthListener func(event AuthEvent, s *Session)

// Auth es el sub-contrato de autenticación del backend.
type Auth interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (SignUpResult, error)
	SignOut(ctx context.Context) error
	CurrentSession(ctx context.Context) (*Session, error)
	OnAuthStateChange(fn AuthListener) (unsubscribe func())
}

// Listeners es el canal de notificaciones compartido por los adapters de auth.
type Listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]AuthListener
}

func (l *Listeners) Add(fn AuthListener) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fns == nil {
		l.fns = map[int]AuthListener{}
	}
	id := l.next
	l.next++
	l.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.fns, id)
			l.mu.Unlock()
		})
	}
}

// Notify llama a los listeners fuera del lock (pueden volver a leer la sesión).
func (l *Listeners) Notify(event AuthEvent, s *Session) {
	l.mu.Lock()
	ids := make([]int, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	fns := make([]AuthListener, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, l.fns[id])
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(event, s)
	}
}
