package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yhajali/aqari-backend/internal/utils"
)

const testSecret = "test-secret"

func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/properties", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured echo.Context
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		captured = c
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, captured
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec, _ := runJWT(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication required")
}

func TestJWTAuthInvalidToken(t *testing.T) {
	rec, _ := runJWT(t, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestJWTAuthExpiredTokenHasCode(t *testing.T) {
	tok, err := utils.NewSessionToken(testSecret, 9, "yusuf", "manager", -time.Minute)
	require.NoError(t, err)

	rec, _ := runJWT(t, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token_expired")
}

func TestJWTAuthInjectsIdentity(t *testing.T) {
	tok, err := utils.NewSessionToken(testSecret, 9, "yusuf", "manager", time.Hour)
	require.NoError(t, err)

	rec, captured := runJWT(t, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, uint64(9), captured.Get("account_id"))
	assert.Equal(t, "yusuf", captured.Get("username"))
	assert.Equal(t, "manager", captured.Get("role"))
}
