package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"brazucas-cork/internal/domain/entity"
	"brazucas-cork/internal/handler/http/respond"
)

type ctxKey string

const ctxPrincipal ctxKey = "principal"

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p entity.Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipal, p)
}

// PrincipalFrom returns the caller stored in ctx, or the anonymous Principal.
func PrincipalFrom(ctx context.Context) entity.Principal {
	p, _ := ctx.Value(ctxPrincipal).(entity.Principal)
	return p
}

// Authenticate resolves the bearer token, when one is sent, into a Principal
// on the request context. Requests without a token continue anonymously so
// public reads work; a token that fails verification is rejected with 401.
// Public endpoints never look at the header.
func Authenticate(tokens *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublicEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			token, ok := bearer(header)
			if !ok {
				RecordTokenVerification("malformed", time.Since(start))
				respond.FromError(w, fmt.Errorf("missing bearer token: %w", entity.ErrUnauthorized))
				return
			}
			p, err := tokens.Parse(token)
			if err != nil {
				RecordTokenVerification("invalid", time.Since(start))
				respond.FromError(w, err)
				return
			}
			RecordTokenVerification("valid", time.Since(start))
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAuth rejects anonymous callers with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if PrincipalFrom(r.Context()).Anonymous() {
			respond.FromError(w, fmt.Errorf("authentication required: %w", entity.ErrUnauthorized))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects anonymous callers with 401 and other roles with 403.
func RequireRole(role entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFrom(r.Context())
			if p.Role != role {
				RecordForbiddenAttempt(string(p.Role), r.Method)
				respond.FromError(w, &entity.ForbiddenError{Reason: string(role) + " role required"})
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func bearer(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
