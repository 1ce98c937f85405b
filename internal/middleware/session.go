package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"vetclinic-dashboard/internal/ports/backend"
	"vetclinic-dashboard/internal/session"
)

type ctxKey string

const sessionKey ctxKey = "session"

// SessionSource es lo que necesita RequireSession del Gate.
type SessionSource interface {
	Check(ctx context.Context) session.View
	Session() *backend.Session
}

// RequireSession deja pasar solo con la vista shell. Si no, responde la
// vista que corresponde: login (401) o loading (503).
func RequireSession(src SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			view := src.Check(r.Context())
			s := src.Session()

			if view != session.ViewShell || s == nil {
				status := http.StatusUnauthorized
				if view == session.ViewLoading {
					status = http.StatusServiceUnavailable
				} else {
					view = session.ViewLogin
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_ = json.NewEncoder(w).Encode(map[string]string{"view": string(view)})
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetSession(ctx context.Context) (*backend.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*backend.Session)
	return s, ok && s != nil
}
