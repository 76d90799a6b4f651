package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yhajali/aqari-backend/internal/config"
	"github.com/yhajali/aqari-backend/internal/model"
	"github.com/yhajali/aqari-backend/internal/repository"
	"github.com/yhajali/aqari-backend/internal/utils"
)

// ShareHandler issues data-share tokens and serves the read-only snapshots
// behind them. The fetch-by-token endpoint is public: possession of the
// token is the whole credential.
type ShareHandler struct {
	Cfg         config.Config
	Shares      *repository.ShareRepo
	Properties  *repository.PropertyRepo
	Tenants     *repository.TenantRepo
	Maintenance *repository.MaintenanceRepo
	Financial   *repository.FinancialRepo
}

func NewShareHandler(cfg config.Config, s *repository.ShareRepo, p *repository.PropertyRepo,
	t *repository.TenantRepo, m *repository.MaintenanceRepo, f *repository.FinancialRepo) *ShareHandler {
	return &ShareHandler{Cfg: cfg, Shares: s, Properties: p, Tenants: t, Maintenance: m, Financial: f}
}

type shareCreateReq struct {
	DataType       string  `json:"data_type"`
	RecipientEmail *string `json:"recipient_email"`
	ExpiresInDays  int     `json:"expires_in_days"`
}

// Create handles POST /api/share-data. The returned link embeds the token; the
// frontend mails or messages it to the recipient.
func (h *ShareHandler) Create(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req shareCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.DataType == "" {
		req.DataType = model.ShareAll
	}
	if !model.ValidShareScope(req.DataType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid data_type"})
	}
	if req.RecipientEmail != nil && *req.RecipientEmail != "" && !validEmail(*req.RecipientEmail) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid recipient_email"})
	}
	days := req.ExpiresInDays
	if days <= 0 {
		days = h.Cfg.ShareTTLDays
	}

	token, err := utils.RandomToken(32)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	share := model.DataShare{
		AccountID:      accountID,
		Token:          token,
		DataType:       req.DataType,
		RecipientEmail: req.RecipientEmail,
		ExpiresAt:      time.Now().UTC().AddDate(0, 0, days),
	}
	if err := h.Shares.Create(ctx, &share); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create share"})
	}

	link := fmt.Sprintf("/shared/%s", token)
	return c.JSON(http.StatusOK, echo.Map{"share": share, "link": link})
}

// List handles GET /api/share-data.
func (h *ShareHandler) List(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Shares.ListByAccount(ctx, accountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// snapshot assembles the scoped copy of the owning account's data.
func (h *ShareHandler) snapshot(c echo.Context, accountID uint64, dataType string) (model.ShareSnapshot, error) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	snap := model.ShareSnapshot{DataType: dataType}
	var err error
	if dataType == model.ShareAll || dataType == model.ShareProperties {
		if snap.Properties, err = h.Properties.ListByAccount(ctx, accountID); err != nil {
			return snap, err
		}
	}
	if dataType == model.ShareAll || dataType == model.ShareTenants {
		if snap.Tenants, err = h.Tenants.ListByAccount(ctx, accountID); err != nil {
			return snap, err
		}
	}
	if dataType == model.ShareAll || dataType == model.ShareMaintenance {
		if snap.Maintenance, err = h.Maintenance.ListByAccount(ctx, accountID); err != nil {
			return snap, err
		}
	}
	if dataType == model.ShareAll || dataType == model.ShareFinancial {
		if snap.Financial, err = h.Financial.ListByAccount(ctx, accountID); err != nil {
			return snap, err
		}
	}
	return snap, nil
}

// Fetch handles GET /api/shared-data/:token. No authentication: the token
// is the credential. Unknown and expired tokens answer identically so the
// endpoint cannot be used to probe which tokens ever existed.
func (h *ShareHandler) Fetch(c echo.Context) error {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	share, err := h.Shares.GetByToken(ctx, token)
	if err != nil {
		if err == repository.ErrNotFound || err == repository.ErrShareExpired {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Share not found or expired"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	snap, err := h.snapshot(c, share.AccountID, share.DataType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, snap)
}

// Import handles POST /api/import-shared-data: copies a snapshot into the
// caller's own account. Each record is inserted independently; one bad row
// is reported and skipped, the rest land.
func (h *ShareHandler) Import(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	share, err := h.Shares.GetByToken(ctx, strings.TrimSpace(req.Token))
	if err != nil {
		if err == repository.ErrNotFound || err == repository.ErrShareExpired {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Share not found or expired"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if share.AccountID == accountID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot import your own share"})
	}

	snap, err := h.snapshot(c, share.AccountID, share.DataType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	imported := 0
	errs := []string{}

	// Property rows first so tenant rows could reference them in a later
	// revision; today imported tenants arrive unassigned because the source
	// property ids belong to the other account.
	for _, p := range snap.Properties {
		p.ID = 0
		p.AccountID = accountID
		if err := h.Properties.Create(ctx, &p); err != nil {
			errs = append(errs, fmt.Sprintf("property %q: insert failed", p.Name))
			continue
		}
		imported++
	}
	for _, t := range snap.Tenants {
		t.ID = 0
		t.AccountID = accountID
		t.PropertyID = nil
		t.Cheques = nil
		if err := h.Tenants.Create(ctx, &t); err != nil {
			errs = append(errs, fmt.Sprintf("tenant %q: insert failed", t.FullName))
			continue
		}
		imported++
	}
	for _, m := range snap.Maintenance {
		m.ID = 0
		m.AccountID = accountID
		m.PropertyID = nil
		m.TenantID = nil
		if err := h.Maintenance.Create(ctx, &m); err != nil {
			errs = append(errs, fmt.Sprintf("maintenance %q: insert failed", m.Title))
			continue
		}
		imported++
	}
	for _, f := range snap.Financial {
		f.ID = 0
		f.AccountID = accountID
		f.PropertyID = nil
		f.TenantID = nil
		if err := h.Financial.Create(ctx, &f); err != nil {
			errs = append(errs, fmt.Sprintf("financial record %s: insert failed", f.TransactionDate))
			continue
		}
		imported++
	}

	return c.JSON(http.StatusOK, echo.Map{"imported": imported, "errors": errs})
}
