package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yhajali/aqari-backend/internal/config"
	"github.com/yhajali/aqari-backend/internal/model"
	"github.com/yhajali/aqari-backend/internal/repository"
	"github.com/yhajali/aqari-backend/internal/utils"
)

// AuthHandler bundles dependencies for the register/login/refresh endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Accounts *repository.AccountRepo
}

func NewAuthHandler(cfg config.Config, accounts *repository.AccountRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Accounts: accounts}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type authResp struct {
	Token   string        `json:"token"`
	Expires time.Time     `json:"expires"`
	User    model.Profile `json:"user"`
}

// sessionTTL picks the lifetime for a role: admins get shorter sessions.
func (h *AuthHandler) sessionTTL(role string) time.Duration {
	if role == model.RoleAdmin {
		return time.Duration(h.Cfg.AdminSessionTTLHours) * time.Hour
	}
	return time.Duration(h.Cfg.SessionTTLHours) * time.Hour
}

func (h *AuthHandler) issue(c echo.Context, acc model.Account, status int) error {
	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, acc.ID, acc.Username, acc.Role, h.sessionTTL(acc.Role))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(status, authResp{Token: tok.Token, Expires: tok.Exp, User: acc.ProfileView()})
}

// Register creates a manager account and returns a session token
// immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username, email and password are required"})
	}
	if !validEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}
	id, err := h.Accounts.Create(ctx, req.Username, req.Email, hash)
	if err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username or email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
	}

	acc, err := h.Accounts.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
	}
	return h.issue(c, acc, http.StatusOK)
}

// Login verifies credentials and returns a fresh session token. Expired
// accounts are rejected even with the right password.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	acc, err := h.Accounts.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(acc.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if acc.Expired(time.Now().UTC()) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account expired"})
	}
	return h.issue(c, acc, http.StatusOK)
}

// Refresh re-issues a token for the already-authenticated caller. The JWT
// middleware has verified the current token; identity is re-read from the
// store so a deleted or expired account cannot keep refreshing.
func (h *AuthHandler) Refresh(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	acc, err := h.Accounts.GetByID(ctx, accountID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
	}
	if acc.Expired(time.Now().UTC()) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account expired"})
	}
	return h.issue(c, acc, http.StatusOK)
}

// AdminLogin is the admin entry point: same credential verification as
// Login plus a role check against the stored account row. Non-admins get a
// 403 regardless of password validity.
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	acc, err := h.Accounts.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(acc.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if acc.Role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if acc.Expired(time.Now().UTC()) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account expired"})
	}
	return h.issue(c, acc, http.StatusOK)
}
