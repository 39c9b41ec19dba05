package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"
)

type contextKey string

const UserIDKey contextKey = "user_id"

const accessTokenCookie = "access_token"

var errMissingToken = errors.New("missing token")

// Authenticate resolves the caller from an HS256 access token, read from the
// access_token cookie or an Authorization Bearer header. Requests without a
// token continue anonymously; a token that fails verification is rejected.
func Authenticate(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := tokenFromRequest(r)
			if err != nil || len(key) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := parseAccessToken(raw, key)
			if err != nil {
				hlog.FromRequest(r).Debug().Err(err).Msg("rejected access token")
				writeError(w, http.StatusUnauthorized, "Unauthorized", "invalid access token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects requests that Authenticate left anonymous.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := userIDFrom(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized", "missing user context")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userIDFrom(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

func tokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok && token != "" {
			return token, nil
		}
	}
	return "", errMissingToken
}

func parseAccessToken(raw string, key []byte) (uuid.UUID, error) {
	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, err
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(sub)
}
