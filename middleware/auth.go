package middleware

import (
	"net/http"
	"strings"

	"github.com/keremavci/authkit/authctx"
	"github.com/keremavci/authkit/errors"
	"github.com/keremavci/authkit/token"
)

// AccessVerifier verifies a raw access token. Satisfied by
// token.Service via VerifyKind.
type AccessVerifier interface {
	VerifyKind(raw string, kind token.Kind) (*token.Claims, error)
}

// AuthConfig configures the authentication gate.
type AuthConfig struct {
	// Verifier checks presented access tokens.
	Verifier AccessVerifier

	// SkipPaths are URL path prefixes that bypass the gate, for
	// login, registration, and health endpoints.
	SkipPaths []string
}

// RequireAuth gates requests on a valid Bearer access token. A missing
// or malformed header, a refresh token presented as an access token,
// and an expired or forged token all produce 401 with the matching
// error kind. On success the resolved identity rides the request
// context for handlers downstream.
func RequireAuth(cfg AuthConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.SkipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			raw, err := bearerToken(r)
			if err != nil {
				writeError(w, err)
				return
			}

			claims, err := cfg.Verifier.VerifyKind(raw, token.KindAccess)
			if err != nil {
				writeError(w, err)
				return
			}

			id := authctx.Identity{
				AccountID: claims.AccountID(),
				TokenID:   claims.ID,
				ExpiresAt: claims.ExpiresAt.Time,
			}
			next.ServeHTTP(w, r.WithContext(authctx.WithIdentity(r.Context(), id)))
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.Unauthorized()
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.InvalidToken()
	}
	return parts[1], nil
}
