package httpapi

import (
	"context"
	"net/http"
	"strings"

	"farmer/internal/domain"
	"farmer/internal/service"

	"github.com/sirupsen/logrus"
)

const bearerPrefix = "Bearer "

type contextKey int

const userKey contextKey = iota

// UserFromContext returns the shed user authenticated for the request.
func UserFromContext(ctx context.Context) string {
	user, _ := ctx.Value(userKey).(string)
	return user
}

func withUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, userKey, user)
}

type credentials struct {
	User string `json:"user"`
	Pass string `json:"pass"`
}

func (h *Handler) authenticate(r *http.Request) (any, error) {
	var cred credentials
	if err := decodeJSON(r, &cred); err != nil {
		return nil, err
	}
	token, err := h.Auth.Login(cred.User, cred.Pass)
	if err != nil {
		h.Log.WithField("user", cred.User).Warn("rejected shed login")
		return nil, err
	}
	return token, nil
}

// TokenGuard protects the shed: CheckToken authenticates the caller and
// RotateToken hands a fresh token back on every successful response.
type TokenGuard struct {
	Auth service.AuthServiceInterface
	Log  logrus.FieldLogger
}

func (g *TokenGuard) CheckToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, pass, ok := r.BasicAuth(); ok {
			if !g.Auth.CheckBasic(user, pass) {
				g.reject(w, r, domain.Unauthorized("invalid credentials provided"))
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
			return
		}

		header := r.Header.Get("Authorization")
		if header == "" {
			g.reject(w, r, domain.Forbidden("missing Authorization header"))
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			g.reject(w, r, domain.Forbidden("missing Bearer token"))
			return
		}

		user, err := g.Auth.ParseToken(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			g.Log.WithError(err).WithField("path", r.URL.Path).Warn("token validation failed")
			g.reject(w, r, domain.Unauthorized("invalid token"))
			return
		}
		if user == "" {
			g.Log.WithField("path", r.URL.Path).Warn("token carries no user")
			g.reject(w, r, domain.Forbidden("token carries no user"))
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

func (g *TokenGuard) RotateToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &rotatingWriter{ResponseWriter: w, user: UserFromContext(r.Context()), guard: g}
		next.ServeHTTP(rw, r)
		if !rw.wroteHeader {
			rw.WriteHeader(http.StatusOK)
		}
	})
}

func (g *TokenGuard) reject(w http.ResponseWriter, r *http.Request, err *domain.Error) {
	writeError(w, r, g.Log, err)
}

// rotatingWriter sets the Authorization header just before the status line
// goes out, once the final status is known.
type rotatingWriter struct {
	http.ResponseWriter
	user        string
	guard       *TokenGuard
	wroteHeader bool
}

func (rw *rotatingWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.wroteHeader = true

	if code < http.StatusBadRequest {
		if rw.user == "" {
			code = http.StatusForbidden
		} else if token, err := rw.guard.Auth.IssueToken(rw.user); err == nil {
			rw.Header().Set("Authorization", bearerPrefix+token)
		} else {
			rw.guard.Log.WithError(err).Error("token rotation failed")
		}
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *rotatingWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}
