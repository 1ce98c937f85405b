package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"vetclinic-dashboard/internal/platform/httpclient"
	"vetclinic-dashboard/internal/ports/backend"
)

var (
	ErrNotConfigured = fmt.Errorf("supabase client not configured: %w", backend.ErrNotConfigured)
	ErrUnauthorized  = errors.New("supabase unauthorized")
	ErrUpstream      = errors.New("supabase upstream error")
)

// Config del proyecto hospedado. URL y AnonKey vienen de env
// (SUPABASE_URL / SUPABASE_ANON_KEY).
type Config struct {
	URL     string
	AnonKey string
	Timeout time.Duration
}

// Client habla PostgREST (/rest/v1) y GoTrue (/auth/v1) con la misma
// sesión: implementa backend.Gateway y backend.Auth.
type Client struct {
	http    *httpclient.Client
	anonKey string
	now     func() time.Time

	mu        sync.RWMutex
	current   *backend.Session
	listeners backend.Listeners
}

func NewClient(cfg Config) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.URL), cfg.Timeout)
	if err != nil {
		return nil, err
	}
	key := strings.TrimSpace(cfg.AnonKey)
	hc.Headers = map[string]string{"apikey": key}

	return &Client{
		http:    hc,
		anonKey: key,
		now:     time.Now,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.anonKey != ""
}

// bearer usa el token de la sesión vigente; sin sesión, la anon key.
func (c *Client) bearer() string {
	c.mu.RLock()
	s := c.current
	c.mu.RUnlock()

	if s != nil && s.AccessToken != "" {
		return "Bearer " + s.AccessToken
	}
	return "Bearer " + c.anonKey
}

func (c *Client) do(ctx context.Context, req httpclient.Request, out any) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}
	if req.Headers == nil {
		req.Headers = map[string]string{}
	}
	if _, ok := req.Headers["Authorization"]; !ok {
		req.Headers["Authorization"] = c.bearer()
	}
	return toError(c.http.Do(ctx, req, out))
}

// toError deja el mensaje del servidor en *backend.Error (se muestra tal cual)
// y envuelve fallas de transporte con ErrUpstream.
func toError(err error) error {
	if err == nil {
		return nil
	}
	var he *httpclient.HTTPError
	if !errors.As(err, &he) {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	be := &backend.Error{Status: he.StatusCode, Code: errorCode(he.Body), Message: he.Message()}
	switch he.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrUnauthorized, be)
	default:
		return be
	}
}

func errorCode(body string) string {
	var m map[string]any
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		return ""
	}
	for _, k := range []string{"code", "error_code", "error"} {
		if v, ok := m[k]; ok && v != nil {
			return fmt.Sprint(v)
		}
	}
	return ""
}
