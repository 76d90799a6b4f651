package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yhajali/aqari-backend/internal/utils"
)

type profileUpdateReq struct {
	CurrentPassword string  `json:"current_password"`
	Email           string  `json:"email"`
	FullName        *string `json:"full_name"`
	Phone           *string `json:"phone"`
	NewPassword     string  `json:"new_password"`
}

// GetProfile returns the caller's own account view.
func (h *AuthHandler) GetProfile(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	acc, err := h.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return notFoundOrDBError(c, err, "account")
	}
	return c.JSON(http.StatusOK, acc.ProfileView())
}

// UpdateProfile edits the caller's contact fields and optionally the
// password. Every change requires re-entering the current password; five
// consecutive failed confirmations lock the account for the configured
// cooldown. The counter resets on the next successful confirmation.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	var req profileUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CurrentPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "current password is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	acc, err := h.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return notFoundOrDBError(c, err, "account")
	}
	now := time.Now().UTC()
	if acc.Locked(now) {
		return c.JSON(http.StatusLocked, echo.Map{"error": "account locked, try again later"})
	}
	if !utils.VerifyPassword(acc.PasswordHash, req.CurrentPassword) {
		attempts, rerr := h.Accounts.RecordFailedAttempt(ctx, accountID,
			h.Cfg.LockoutMaxAttempts, time.Duration(h.Cfg.LockoutCooldownMin)*time.Minute)
		if rerr != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if attempts >= h.Cfg.LockoutMaxAttempts {
			return c.JSON(http.StatusLocked, echo.Map{"error": "account locked, try again later"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "current password is incorrect"})
	}
	if err := h.Accounts.ResetLockout(ctx, accountID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		email = acc.Email
	}
	if !validEmail(email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	}
	fullName := acc.FullName
	if req.FullName != nil {
		fullName = req.FullName
	}
	phone := acc.Phone
	if req.Phone != nil {
		phone = req.Phone
	}
	if err := h.Accounts.UpdateProfile(ctx, accountID, email, fullName, phone); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	if req.NewPassword != "" {
		hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
		}
		if err := h.Accounts.UpdatePassword(ctx, accountID, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}

	updated, err := h.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
	}
	return c.JSON(http.StatusOK, updated.ProfileView())
}
