package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/Pulse/internal/models"
	"github.com/soaringjerry/Pulse/internal/services"
)

var _ services.TokenSigner = NewTokenIssuer("x").Sign

func protected(tokens *TokenIssuer) http.Handler {
	return WithAuth(tokens)(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := AdminIDFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte(id))
	})))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenIssuer("secret")
	tok, err := tokens.Sign("admin-1", "a@x.io", time.Hour)
	require.NoError(t, err)
	claims, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.AdminID)
	assert.Equal(t, "a@x.io", claims.Email)

	_, err = NewTokenIssuer("other").Parse(tok)
	assert.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	tokens := NewTokenIssuer("secret")
	tokens.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	tok, err := tokens.Sign("admin-1", "a@x.io", 10*time.Hour)
	require.NoError(t, err)

	tokens.now = func() time.Time { return time.Unix(1_700_000_000, 0).Add(9 * time.Hour) }
	_, err = tokens.Parse(tok)
	require.NoError(t, err)

	tokens.now = func() time.Time { return time.Unix(1_700_000_000, 0).Add(11 * time.Hour) }
	_, err = tokens.Parse(tok)
	assert.Error(t, err)
}

func TestTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{AdminID: "admin-1", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewTokenIssuer("secret").Parse(tok)
	assert.Error(t, err)
}

func TestRequireAuth(t *testing.T) {
	tokens := NewTokenIssuer("secret")
	good, err := tokens.Sign("admin-1", "a@x.io", time.Hour)
	require.NoError(t, err)
	h := protected(tokens)

	cases := []struct {
		name   string
		header string
		status int
		msg    string
	}{
		{"missing", "", http.StatusUnauthorized, "Authentication token required"},
		{"scheme only", "Bearer", http.StatusUnauthorized, "Authentication token required"},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized, "Invalid or expired token"},
		{"valid", "Bearer " + good, http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, "admin-1", rec.Body.String())
				return
			}
			body := decodeError(t, rec)
			assert.Equal(t, "Unauthorized", body.Error)
			assert.Equal(t, tc.msg, body.Message)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORS("https://app.example.com")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/sessions", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	assert.True(t, called)
}

func TestHeaders(t *testing.T) {
	h := SecureHeaders(NoStore(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
}

func TestWithLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	h := WithLogging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/feedback/s1", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, http.StatusCreated, entry.Data["status"])
	assert.Equal(t, "/api/feedback/s1", entry.Data["path"])
}

func TestErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorResponse(rec, http.StatusConflict, "You have already contacted us.")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decodeError(t, rec)
	assert.Equal(t, "Conflict", body.Error)
	assert.Equal(t, "You have already contacted us.", body.Message)
}
