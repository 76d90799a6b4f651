package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yhajali/aqari-backend/internal/config"
	"github.com/yhajali/aqari-backend/internal/repository"
	"github.com/yhajali/aqari-backend/internal/utils"
)

var testCfg = config.Config{
	JWTSecret:            "test-secret",
	SessionTTLHours:      24,
	AdminSessionTTLHours: 8,
	BcryptCost:           4, // minimum cost keeps the suite fast
	LockoutMaxAttempts:   5,
	LockoutCooldownMin:   30,
	ShareTTLDays:         7,
	MaxUploadMB:          5,
}

var accountTestCols = []string{"id", "username", "email", "password_hash", "role", "full_name", "phone",
	"failed_attempts", "locked_until", "expires_at", "created_at", "updated_at"}

func jsonReq(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	h := NewAuthHandler(testCfg, nil)
	c, rec := jsonReq(http.MethodPost, "/api/register", `{"username":"yusuf"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "required")
}

func TestRegisterRejectsBadEmail(t *testing.T) {
	h := NewAuthHandler(testCfg, nil)
	c, rec := jsonReq(http.MethodPost, "/api/register",
		`{"username":"yusuf","email":"not-an-email","password":"pw"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid email")
}

func TestLoginWrongPassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	hash, err := utils.HashPassword("right", 4)
	require.NoError(t, err)
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE username=\\?").
		WithArgs("yusuf").
		WillReturnRows(sqlmock.NewRows(accountTestCols).
			AddRow(9, "yusuf", "y@example.com", hash, "manager", nil, nil, 0, nil, nil, now, now))

	h := NewAuthHandler(testCfg, repository.NewAccountRepo(db))
	c, rec := jsonReq(http.MethodPost, "/api/login", `{"username":"yusuf","password":"wrong"}`)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestLoginUnknownUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE username=\\?").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(accountTestCols))

	h := NewAuthHandler(testCfg, repository.NewAccountRepo(db))
	c, rec := jsonReq(http.MethodPost, "/api/login", `{"username":"ghost","password":"pw"}`)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

// A correct password does not help once the account is past its expiry.
func TestLoginExpiredAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	hash, err := utils.HashPassword("right", 4)
	require.NoError(t, err)
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE username=\\?").
		WithArgs("yusuf").
		WillReturnRows(sqlmock.NewRows(accountTestCols).
			AddRow(9, "yusuf", "y@example.com", hash, "manager", nil, nil, 0, nil, past, now, now))

	h := NewAuthHandler(testCfg, repository.NewAccountRepo(db))
	c, rec := jsonReq(http.MethodPost, "/api/login", `{"username":"yusuf","password":"right"}`)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "account expired")
}

func TestLoginSuccessIssuesToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	hash, err := utils.HashPassword("right", 4)
	require.NoError(t, err)
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE username=\\?").
		WithArgs("yusuf").
		WillReturnRows(sqlmock.NewRows(accountTestCols).
			AddRow(9, "yusuf", "y@example.com", hash, "manager", nil, nil, 0, nil, nil, now, now))

	h := NewAuthHandler(testCfg, repository.NewAccountRepo(db))
	c, rec := jsonReq(http.MethodPost, "/api/login", `{"username":"yusuf","password":"right"}`)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token"`)
	assert.NotContains(t, rec.Body.String(), "password_hash")
}

// A valid manager credential still cannot enter the admin plane.
func TestAdminLoginRejectsManagerRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	hash, err := utils.HashPassword("right", 4)
	require.NoError(t, err)
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE username=\\?").
		WithArgs("yusuf").
		WillReturnRows(sqlmock.NewRows(accountTestCols).
			AddRow(9, "yusuf", "y@example.com", hash, "manager", nil, nil, 0, nil, nil, now, now))

	h := NewAuthHandler(testCfg, repository.NewAccountRepo(db))
	c, rec := jsonReq(http.MethodPost, "/api/admin/login", `{"username":"yusuf","password":"right"}`)

	require.NoError(t, h.AdminLogin(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
