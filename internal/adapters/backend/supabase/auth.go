package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"vetclinic-dashboard/internal/platform/httpclient"
	"vetclinic-dashboard/internal/ports/backend"

	"github.com/golang-jwt/jwt/v5"
)

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	User         backend.User `json:"user"`
}

// signUpResponse: con confirmación de e-mail GoTrue devuelve solo el usuario
// (campos al nivel raíz); con auto-confirm devuelve una sesión completa.
type signUpResponse struct {
	tokenResponse
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata"`
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*backend.Session, error) {
	var out tokenResponse
	err := c.do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/v1/token",
		Query:  url.Values{"grant_type": {"password"}},
		Body:   map[string]string{"email": email, "password": password},
	}, &out)
	if err != nil {
		return nil, err
	}

	s := c.sessionFrom(out)
	c.setSession(s)
	c.listeners.Notify(backend.EventSignedIn, s)
	return s, nil
}

func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]any) (backend.SignUpResult, error) {
	var out signUpResponse
	err := c.do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/v1/signup",
		Body: map[string]any{
			"email":    email,
			"password": password,
			"data":     metadata,
		},
	}, &out)
	if err != nil {
		return backend.SignUpResult{}, err
	}

	if out.AccessToken == "" {
		return backend.SignUpResult{
			User: backend.User{ID: out.ID, Email: out.Email, Metadata: out.Metadata},
		}, nil
	}

	s := c.sessionFrom(out.tokenResponse)
	c.setSession(s)
	c.listeners.Notify(backend.EventSignedIn, s)
	return backend.SignUpResult{User: s.User, Session: s}, nil
}

// SignOut borra la sesión local aunque el servidor ya la haya invalidado.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	s := c.current
	c.current = nil
	c.mu.Unlock()

	if s == nil {
		return nil
	}

	err := c.do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    "/auth/v1/logout",
		Headers: map[string]string{"Authorization": "Bearer " + s.AccessToken},
	}, nil)

	c.listeners.Notify(backend.EventSignedOut, nil)

	if err != nil && !errors.Is(err, ErrUnauthorized) {
		return err
	}
	return nil
}

// CurrentSession devuelve la sesión vigente; si venció intenta un refresh.
// Si el refresh falla la sesión se descarta y se notifica el cierre.
func (c *Client) CurrentSession(ctx context.Context) (*backend.Session, error) {
	c.mu.RLock()
	s := c.current
	c.mu.RUnlock()

	if s == nil {
		return nil, nil
	}
	if !s.Expired(c.now()) {
		return s, nil
	}
	if s.RefreshToken == "" {
		c.drop(s)
		return nil, nil
	}

	var out tokenResponse
	err := c.do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    "/auth/v1/token",
		Query:   url.Values{"grant_type": {"refresh_token"}},
		Headers: map[string]string{"Authorization": "Bearer " + c.anonKey},
		Body:    map[string]string{"refresh_token": s.RefreshToken},
	}, &out)
	if err != nil {
		c.drop(s)
		return nil, nil
	}

	fresh := c.sessionFrom(out)
	c.setSession(fresh)
	return fresh, nil
}

func (c *Client) OnAuthStateChange(fn backend.AuthListener) func() {
	return c.listeners.Add(fn)
}

func (c *Client) setSession(s *backend.Session) {
	c.mu.Lock()
	c.current = s
	c.mu.Unlock()
}

// drop descarta s solo si sigue siendo la sesión actual.
func (c *Client) drop(s *backend.Session) {
	c.mu.Lock()
	same := c.current == s
	if same {
		c.current = nil
	}
	c.mu.Unlock()

	if same {
		c.listeners.Notify(backend.EventSignedOut, nil)
	}
}

func (c *Client) sessionFrom(t tokenResponse) *backend.Session {
	return &backend.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    c.expiry(t),
		User:         t.User,
	}
}

// expiry prioriza el claim exp del access token; después expires_at y expires_in.
func (c *Client) expiry(t tokenResponse) time.Time {
	if exp, ok := tokenExpiry(t.AccessToken); ok {
		return exp
	}
	if t.ExpiresAt > 0 {
		return time.Unix(t.ExpiresAt, 0)
	}
	if t.ExpiresIn > 0 {
		return c.now().Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return time.Time{}
}

// tokenExpiry lee exp sin verificar la firma (el secreto vive en el servidor).
func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
