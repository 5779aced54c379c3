package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/soaringjerry/Pulse/internal/services"
)

type authCtxKey int

const authKey authCtxKey = 7

// Claims identify the admin a token was issued to.
type Claims struct {
	AdminID string `json:"id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 admin tokens.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), now: time.Now}
}

// Sign matches services.TokenSigner.
func (t *TokenIssuer) Sign(adminID, email string, ttl time.Duration) (string, error) {
	now := t.now()
	claims := Claims{AdminID: adminID, Email: email, RegisteredClaims: jwt.RegisteredClaims{
		Subject:   adminID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *TokenIssuer) Parse(tok string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tok, &Claims{}, func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}
	if c, ok := parsed.Claims.(*Claims); ok && parsed.Valid && c.AdminID != "" {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

type authState struct {
	claims *Claims
	err    error
}

// WithAuth records the outcome of bearer-token verification in the request context.
// It never rejects a request; RequireAuth does.
func WithAuth(tokens *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := authState{err: services.ErrUnauthenticated}
			if tok := bearerToken(r.Header.Get("Authorization")); tok != "" {
				if c, err := tokens.Parse(tok); err == nil {
					state = authState{claims: c}
				} else {
					state = authState{err: services.ErrInvalidToken}
				}
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), authKey, state)))
		})
	}
}

// bearerToken returns the credential part of an Authorization header, or "".
func bearerToken(h string) string {
	parts := strings.Fields(h)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, _ := r.Context().Value(authKey).(authState)
		if state.claims == nil {
			msg := "Authentication token required"
			if errors.Is(state.err, services.ErrInvalidToken) {
				msg = "Invalid or expired token"
			}
			ErrorResponse(w, http.StatusUnauthorized, msg)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func AdminIDFromContext(ctx context.Context) (string, bool) {
	if state, ok := ctx.Value(authKey).(authState); ok && state.claims != nil {
		return state.claims.AdminID, true
	}
	return "", false
}
