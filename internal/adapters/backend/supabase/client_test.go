package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"vetclinic-dashboard/internal/ports/backend"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{URL: srv.URL, AnonKey: "anon-key", Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return tok
}

func TestSelect_SendsKeyAndQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/rest/v1/inventory", r.URL.Path)
		require.Equal(t, "anon-key", r.Header.Get("apikey"))
		require.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		require.Equal(t, "lt.10", r.URL.Query().Get("quantity"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"i1","name":"Vacina V10","quantity":4}]`))
	})

	rows, err := c.Select(context.Background(), backend.Query{Collection: backend.Inventory}.Where("quantity", backend.OpLt, 10))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Vacina V10", rows[0]["name"])
}

func TestSelect_EmptyBodyIsEmptySlice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	rows, err := c.Select(context.Background(), backend.Query{Collection: backend.Services})
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
}

func TestInsert_ReturnsRepresentation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Ana Souza", body["full_name"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id":"o-1","full_name":"Ana Souza"}]`))
	})

	row, err := c.Insert(context.Background(), backend.Owners, backend.Row{"full_name": "Ana Souza"})
	require.NoError(t, err)
	require.Equal(t, "o-1", row["id"])
}

func TestInsert_SurfacesServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"23502","message":"null value in column \"name\" violates not-null constraint"}`))
	})

	_, err := c.Insert(context.Background(), backend.Patients, backend.Row{})
	require.Error(t, err)

	var be *backend.Error
	require.True(t, errors.As(err, &be))
	require.Equal(t, "23502", be.Code)
	require.Equal(t, `null value in column "name" violates not-null constraint`, err.Error())
}

func TestNotConfigured(t *testing.T) {
	c, err := NewClient(Config{})
	require.NoError(t, err)
	require.False(t, c.IsConfigured())

	_, err = c.Select(context.Background(), backend.Query{Collection: backend.Owners})
	require.ErrorIs(t, err, ErrNotConfigured)

	_, err = c.SignIn(context.Background(), "a@b.com", "secret")
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestSignIn_StoresSessionAndNotifies(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, exp)

	var restAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/token":
			require.Equal(t, "password", r.URL.Query().Get("grant_type"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token":  token,
				"refresh_token": "r-1",
				"expires_in":    3600,
				"user":          map[string]any{"id": "user-1", "email": "vet@clinic.com"},
			})
		case "/rest/v1/owners":
			restAuth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	})

	var mu sync.Mutex
	var events []backend.AuthEvent
	unsubscribe := c.OnAuthStateChange(func(e backend.AuthEvent, s *backend.Session) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})
	defer unsubscribe()

	s, err := c.SignIn(context.Background(), "vet@clinic.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "user-1", s.User.ID)
	require.True(t, s.ExpiresAt.Equal(exp))

	cur, err := c.CurrentSession(context.Background())
	require.NoError(t, err)
	require.Same(t, s, cur)

	_, err = c.Select(context.Background(), backend.Query{Collection: backend.Owners})
	require.NoError(t, err)
	require.Equal(t, "Bearer "+token, restAuth)

	mu.Lock()
	require.Equal(t, []backend.AuthEvent{backend.EventSignedIn}, events)
	mu.Unlock()
}

func TestSignIn_InvalidCredentialsMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	})

	_, err := c.SignIn(context.Background(), "vet@clinic.com", "wrong")
	require.EqualError(t, err, "Invalid login credentials")

	cur, err := c.CurrentSession(context.Background())
	require.NoError(t, err)
	require.Nil(t, cur)
}

func TestSignUp_WithoutSessionNeedsConfirmation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/signup", r.URL.Path)

		var body struct {
			Email string         `json:"email"`
			Data  map[string]any `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Dr. Silva", body.Data["full_name"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            "user-2",
			"email":         body.Email,
			"user_metadata": body.Data,
		})
	})

	res, err := c.SignUp(context.Background(), "silva@clinic.com", "secret", map[string]any{"full_name": "Dr. Silva"})
	require.NoError(t, err)
	require.Nil(t, res.Session)
	require.Equal(t, "user-2", res.User.ID)
	require.Equal(t, "Dr. Silva", res.User.FullName())
}

func TestSignOut_ClearsSessionAndNotifiesNull(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/token":
			_ = json.NewEncoder(w).Encode(map[string]any{"access_token": token, "user": map[string]any{"id": "user-1"}})
		case "/auth/v1/logout":
			require.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNoContent)
		}
	})

	_, err := c.SignIn(context.Background(), "vet@clinic.com", "secret")
	require.NoError(t, err)

	var last *backend.Session
	var lastEvent backend.AuthEvent
	c.OnAuthStateChange(func(e backend.AuthEvent, s *backend.Session) {
		lastEvent, last = e, s
	})

	require.NoError(t, c.SignOut(context.Background()))
	require.Equal(t, backend.EventSignedOut, lastEvent)
	require.Nil(t, last)

	cur, err := c.CurrentSession(context.Background())
	require.NoError(t, err)
	require.Nil(t, cur)
}

func TestCurrentSession_ExpiredWithoutRefreshIsDropped(t *testing.T) {
	token := signedToken(t, time.Now().Add(-time.Minute))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": token, "user": map[string]any{"id": "user-1"}})
	})

	_, err := c.SignIn(context.Background(), "vet@clinic.com", "secret")
	require.NoError(t, err)

	cur, err := c.CurrentSession(context.Background())
	require.NoError(t, err)
	require.Nil(t, cur)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)

	got, ok := tokenExpiry(signedToken(t, exp))
	require.True(t, ok)
	require.True(t, got.Equal(exp))

	_, ok = tokenExpiry("not-a-jwt")
	require.False(t, ok)
}
