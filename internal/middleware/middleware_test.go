package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"swiftcart/internal/auth"
	"swiftcart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func issueToken(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, &model.User{
		ID:    uuid.New(),
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
		Role:  role,
	})
	require.NoError(t, err)
	return token
}

func TestAuthenticate_MissingToken(t *testing.T) {
	handler := Authenticate(testSecret, zerolog.Nop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/order/get-order", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authentication required")
}

func TestAuthenticate_CookieToken(t *testing.T) {
	var seen auth.Identity
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Authenticate(testSecret, zerolog.Nop())(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/order/get-order", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: issueToken(t, model.RoleUser)})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada@example.com", seen.Email)
	assert.Equal(t, model.RoleUser, seen.Role)
}

func TestAuthenticate_BearerToken(t *testing.T) {
	handler := Authenticate(testSecret, zerolog.Nop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/order/get-order", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, model.RoleUser))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	handler := Authenticate(testSecret, zerolog.Nop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/order/get-order", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	chain := Authenticate(testSecret, zerolog.Nop())(RequireAdmin(zerolog.Nop())(okHandler()))

	// Regular user is refused.
	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, model.RoleUser))
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admin passes.
	req = httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, model.RoleAdmin))
	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS_Preflight(t *testing.T) {
	handler := CORS(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/cart/quote", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	handler := Recovery(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/order/place-order", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	handler := rl.Middleware(okHandler())

	statuses := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	assert.Equal(t, http.StatusOK, statuses[0])
	assert.Equal(t, http.StatusOK, statuses[1])
	assert.Equal(t, http.StatusTooManyRequests, statuses[2])
}

func TestRateLimiter_KeysByIPRegardlessOfIdentity(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	handler := rl.Middleware(okHandler())

	// Two different authenticated users behind the same address share one
	// bucket: the limiter runs before authentication and keys by remote IP.
	for i, code := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodGet, "/api/order/my-orders", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{
			UserID: uuid.New(),
			Role:   model.RoleUser,
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, code, rec.Code, "request %d", i)
	}
}

func TestRateLimiter_SeparateBucketsPerCaller(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	handler := rl.Middleware(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A different caller has its own bucket.
	second := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	second.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusOK, rec.Code)
}
