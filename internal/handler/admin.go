package handler

import (
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yhajali/aqari-backend/internal/config"
	"github.com/yhajali/aqari-backend/internal/model"
	"github.com/yhajali/aqari-backend/internal/repository"
	"github.com/yhajali/aqari-backend/internal/utils"
)

// AdminHandler is the cross-account control plane. Every route is behind
// the admin middleware, which re-reads the caller's role from the store on
// each request.
type AdminHandler struct {
	Cfg       config.Config
	Accounts  *repository.AccountRepo
	Admin     *repository.AdminRepo
	StartedAt time.Time
}

func NewAdminHandler(cfg config.Config, accounts *repository.AccountRepo, admin *repository.AdminRepo) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Accounts: accounts, Admin: admin, StartedAt: time.Now().UTC()}
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	accounts, err := h.Accounts.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]model.Profile, 0, len(accounts))
	for i := range accounts {
		out = append(out, accounts[i].ProfileView())
	}
	return c.JSON(http.StatusOK, out)
}

type adminUserUpdateReq struct {
	Email     *string `json:"email"`
	Role      *string `json:"role"`
	FullName  *string `json:"full_name"`
	Phone     *string `json:"phone"`
	ExpiresAt *string `json:"expires_at"` // YYYY-MM-DD, empty string clears
}

// UpdateUser handles PUT /api/admin/users/:id.
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req adminUserUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	acc, err := h.Accounts.GetByID(ctx, id)
	if err != nil {
		return notFoundOrDBError(c, err, "user")
	}

	email := acc.Email
	if req.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*req.Email))
		if !validEmail(email) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
		}
	}
	role := acc.Role
	if req.Role != nil {
		role = *req.Role
		if role != model.RoleManager && role != model.RoleAdmin {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
		}
	}
	fullName := acc.FullName
	if req.FullName != nil {
		fullName = req.FullName
	}
	phone := acc.Phone
	if req.Phone != nil {
		phone = req.Phone
	}
	expiresAt := acc.ExpiresAt
	if req.ExpiresAt != nil {
		if *req.ExpiresAt == "" {
			expiresAt = nil
		} else {
			t, err := time.Parse(dateLayout, *req.ExpiresAt)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "expires_at must be YYYY-MM-DD"})
			}
			expiresAt = &t
		}
	}

	if err := h.Accounts.AdminUpdate(ctx, id, email, role, fullName, phone, expiresAt); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return notFoundOrDBError(c, err, "user")
	}

	updated, err := h.Accounts.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
	}
	return c.JSON(http.StatusOK, updated.ProfileView())
}

// DeleteUser handles DELETE /api/admin/users/:id. The account's domain
// data is wiped first so the foreign keys allow the account row to go.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	callerID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if id == callerID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot delete your own account"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Accounts.GetByID(ctx, id); err != nil {
		return notFoundOrDBError(c, err, "user")
	}
	if err := h.Admin.ResetAccountData(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	if err := h.Accounts.Delete(ctx, id); err != nil {
		return notFoundOrDBError(c, err, "user")
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}

// ResetPassword handles POST /api/admin/users/:id/reset-password.
func (h *AdminHandler) ResetPassword(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new_password is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Accounts.GetByID(ctx, id); err != nil {
		return notFoundOrDBError(c, err, "user")
	}
	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}
	if err := h.Accounts.UpdatePassword(ctx, id, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if err := h.Accounts.ResetLockout(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "password reset"})
}

// ResetUserData handles POST /api/admin/users/:id/reset-data: wipes one
// account's domain rows, keeping the account itself.
func (h *AdminHandler) ResetUserData(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Confirmation string `json:"confirmation"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Confirmation != "RESET USER DATA" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": `confirmation must be "RESET USER DATA"`})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Accounts.GetByID(ctx, id); err != nil {
		return notFoundOrDBError(c, err, "user")
	}
	if err := h.Admin.ResetAccountData(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "reset complete"})
}

// ResetAllData handles POST /api/admin/reset-database: wipes every
// account's domain rows. Accounts survive. The confirmation string is the
// only safety interlock, so it is matched exactly.
func (h *AdminHandler) ResetAllData(c echo.Context) error {
	var req struct {
		Confirmation string `json:"confirmation"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Confirmation != "DELETE ALL DATA" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": `confirmation must be "DELETE ALL DATA"`})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Admin.ResetAllData(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "reset complete"})
}

// Stats handles GET /api/admin/dashboard.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Admin.Stats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, s)
}

// SystemInfo handles GET /api/admin/system-info.
func (h *AdminHandler) SystemInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"env":        h.Cfg.Env,
		"go_version": runtime.Version(),
		"goroutines": runtime.NumGoroutine(),
		"started_at": h.StartedAt.Format(time.RFC3339),
		"uptime":     time.Since(h.StartedAt).Round(time.Second).String(),
	})
}
