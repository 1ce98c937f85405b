// Package session decide qué ve el usuario: login o la aplicación (shell),
// según la sesión del proveedor de auth y sus notificaciones.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"vetclinic-dashboard/internal/platform/logger"
	"vetclinic-dashboard/internal/ports/backend"
)

type View string

const (
	ViewLoading View = "loading"
	ViewLogin   View = "login"
	ViewShell   View = "shell"
)

const SignUpNotice = "Verifique seu e-mail para confirmar o cadastro! Você precisará clicar no link de confirmação antes de entrar."

// Gate guarda la sesión actual. Hay uno por proceso.
type Gate struct {
	auth backend.Auth
	log  logger.Logger
	now  func() time.Time

	mu          sync.RWMutex
	started     bool
	version     uint64
	current     *backend.Session
	unsubscribe func()
}

func NewGate(auth backend.Auth, log logger.Logger) *Gate {
	if log == nil {
		log = logger.NewNop()
	}
	return &Gate{auth: auth, log: log, now: time.Now}
}

// Start se suscribe a los cambios de sesión y después lee la sesión actual.
// Si llega una notificación mientras tanto, gana la notificación.
func (g *Gate) Start(ctx context.Context) error {
	g.mu.Lock()
	if g.unsubscribe == nil {
		g.unsubscribe = g.auth.OnAuthStateChange(g.onChange)
	}
	seen := g.version
	g.mu.Unlock()

	s, err := g.auth.CurrentSession(ctx)
	if err != nil {
		g.log.Error("session lookup failed", map[string]any{"error": err})
		s = nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.version == seen {
		g.current = s
	}
	g.started = true
	return err
}

func (g *Gate) onChange(event backend.AuthEvent, s *backend.Session) {
	g.mu.Lock()
	g.version++
	g.current = s
	g.started = true
	g.mu.Unlock()

	g.log.Info("auth state changed", map[string]any{"event": string(event), "signed_in": s != nil})
}

// Close cancela la suscripción; se puede llamar más de una vez.
func (g *Gate) Close() {
	g.mu.Lock()
	unsub := g.unsubscribe
	g.unsubscribe = nil
	g.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (g *Gate) View() View {
	g.mu.RLock()
	defer g.mu.RUnlock()

	switch {
	case !g.started:
		return ViewLoading
	case g.current.Expired(g.now()):
		return ViewLogin
	default:
		return ViewShell
	}
}

// Session devuelve la sesión vigente o nil.
func (g *Gate) Session() *backend.Session {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.current.Expired(g.now()) {
		return nil
	}
	return g.current
}

// Check vuelve a consultar al proveedor cuando la sesión guardada venció
// (el proveedor puede refrescarla) y devuelve la vista resultante.
func (g *Gate) Check(ctx context.Context) View {
	g.mu.RLock()
	stale := g.started && g.current != nil && g.current.Expired(g.now())
	seen := g.version
	g.mu.RUnlock()

	if stale {
		s, err := g.auth.CurrentSession(ctx)
		if err != nil {
			g.log.Warn("session refresh failed", map[string]any{"error": err})
			s = nil
		}
		g.mu.Lock()
		if g.version == seen {
			g.current = s
		}
		g.mu.Unlock()
	}
	return g.View()
}

// SignIn no cambia la vista directamente: lo hace la notificación del proveedor.
func (g *Gate) SignIn(ctx context.Context, email, password string) error {
	_, err := g.auth.SignIn(ctx, strings.TrimSpace(email), password)
	if err != nil {
		g.log.Warn("sign in failed", map[string]any{"error": err})
	}
	return err
}

type SignUpOutcome struct {
	SignedIn bool   `json:"signed_in"`
	Notice   string `json:"notice,omitempty"`
}

// SignUp guarda full_name en la metadata del perfil. Si el proveedor no abre
// sesión (confirmación por e-mail) devuelve el aviso para el usuario.
func (g *Gate) SignUp(ctx context.Context, fullName, email, password string) (SignUpOutcome, error) {
	res, err := g.auth.SignUp(ctx, strings.TrimSpace(email), password, map[string]any{
		"full_name": strings.TrimSpace(fullName),
	})
	if err != nil {
		g.log.Warn("sign up failed", map[string]any{"error": err})
		return SignUpOutcome{}, err
	}
	if res.Session == nil {
		return SignUpOutcome{Notice: SignUpNotice}, nil
	}
	return SignUpOutcome{SignedIn: true}, nil
}

// SignOut es una sola llamada; la notificación nula devuelve la vista a login.
func (g *Gate) SignOut(ctx context.Context) error {
	return g.auth.SignOut(ctx)
}
