package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"vetclinic-dashboard/internal/ports/backend"

	"github.com/go-chi/chi/v5"
)

type Options struct {
	AssistantEnabled bool

	// Opcional: middleware aplicado solo a /auth (rate limit).
	AuthLimiter func(http.Handler) http.Handler
}

func RegisterRoutes(r chi.Router, g *Gate, opts Options) {
	r.Get("/app", appHandler(g, opts.AssistantEnabled))

	r.Route("/auth", func(ar chi.Router) {
		if opts.AuthLimiter != nil {
			ar.Use(opts.AuthLimiter)
		}
		ar.Post("/sign-in", signInHandler(g))
		ar.Post("/sign-up", signUpHandler(g))
		ar.Post("/sign-out", signOutHandler(g))
		ar.Get("/session", currentSessionHandler(g))
	})
}

type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type appResponse struct {
	View             View          `json:"view"`
	AssistantEnabled bool          `json:"assistant_enabled"`
	User             *userResponse `json:"user"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	View        View          `json:"view"`
	User        *userResponse `json:"user"`
	AccessToken string        `json:"access_token,omitempty"`
	ExpiresAt   string        `json:"expires_at,omitempty"`
}

// appHandler godoc
// @Summary Vista actual
// @Description loading hasta resolver la sesión inicial, login sin sesión, shell con sesión.
// @Tags session
// @Produce json
// @Success 200 {object} appResponse
// @Router /app [get]
func appHandler(g *Gate, assistantEnabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := g.Check(r.Context())
		writeJSON(w, http.StatusOK, appResponse{
			View:             view,
			AssistantEnabled: assistantEnabled,
			User:             toUserResponse(g.Session()),
		})
	}
}

// signInHandler godoc
// @Summary Entrar
// @Tags session
// @Accept json
// @Produce json
// @Param payload body signInRequest true "Credenciales"
// @Success 200 {object} sessionResponse
// @Failure 400 {string} string "mensaje del proveedor"
// @Failure 401 {string} string "credenciales inválidas"
// @Router /auth/sign-in [post]
func signInHandler(g *Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			http.Error(w, "email and password are required", http.StatusBadRequest)
			return
		}

		if err := g.SignIn(r.Context(), req.Email, req.Password); err != nil {
			writeAuthError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toSessionResponse(g))
	}
}

// signUpHandler godoc
// @Summary Crear cuenta
// @Description Guarda full_name en la metadata del perfil. Sin sesión inmediata devuelve el aviso de confirmación por e-mail.
// @Tags session
// @Accept json
// @Produce json
// @Param payload body signUpRequest true "Nombre, e-mail y contraseña"
// @Success 201 {object} SignUpOutcome
// @Failure 400 {string} string "mensaje del proveedor"
// @Router /auth/sign-up [post]
func signUpHandler(g *Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signUpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
			http.Error(w, "full_name, email and password are required", http.StatusBadRequest)
			return
		}

		out, err := g.SignUp(r.Context(), req.FullName, req.Email, req.Password)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, out)
	}
}

func signOutHandler(g *Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := g.SignOut(r.Context()); err != nil {
			writeAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]View{"view": g.View()})
	}
}

func currentSessionHandler(g *Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if g.Check(r.Context()) != ViewShell {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(g))
	}
}

func writeAuthError(w http.ResponseWriter, err error) {
	var be *backend.Error
	switch {
	case errors.Is(err, backend.ErrNotConfigured):
		http.Error(w, "auth provider not configured", http.StatusServiceUnavailable)
	case errors.Is(err, backend.ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.As(err, &be):
		status := be.Status
		if status < 400 || status >= 500 {
			status = http.StatusBadRequest
		}
		http.Error(w, be.Message, status)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func toUserResponse(s *backend.Session) *userResponse {
	if s == nil {
		return nil
	}
	return &userResponse{ID: s.User.ID, Email: s.User.Email, FullName: s.User.FullName()}
}

func toSessionResponse(g *Gate) sessionResponse {
	s := g.Session()
	out := sessionResponse{View: g.View(), User: toUserResponse(s)}
	if s != nil {
		out.AccessToken = s.AccessToken
		if !s.ExpiresAt.IsZero() {
			out.ExpiresAt = s.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
