package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/yhajali/aqari-backend/internal/model"
	"github.com/yhajali/aqari-backend/internal/repository"
)

// MaintenanceHandler implements maintenance request CRUD.
type MaintenanceHandler struct {
	Maintenance *repository.MaintenanceRepo
	Properties  *repository.PropertyRepo
	Tenants     *repository.TenantRepo
}

func NewMaintenanceHandler(m *repository.MaintenanceRepo, p *repository.PropertyRepo, t *repository.TenantRepo) *MaintenanceHandler {
	return &MaintenanceHandler{Maintenance: m, Properties: p, Tenants: t}
}

type maintenanceReq struct {
	PropertyID  *uint64 `json:"property_id"`
	TenantID    *uint64 `json:"tenant_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
}

func (r *maintenanceReq) validate() string {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return "title is required"
	}
	if r.Priority == "" {
		r.Priority = "medium"
	}
	if r.Status == "" {
		r.Status = model.MaintenancePending
	}
	return ""
}

// checkRefs verifies that the referenced property and tenant belong to the
// caller. Bad references read as payload errors (400).
func (h *MaintenanceHandler) checkRefs(c echo.Context, accountID uint64, propertyID, tenantID *uint64) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if propertyID != nil {
		if _, err := h.Properties.GetByIDAndAccount(ctx, *propertyID, accountID); err != nil {
			if err == repository.ErrNotFound {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "Property not found or access denied"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	}
	if tenantID != nil {
		if _, err := h.Tenants.GetByIDAndAccount(ctx, *tenantID, accountID); err != nil {
			if err == repository.ErrNotFound {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "Tenant not found or access denied"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	}
	return nil
}

// Create handles POST /api/maintenance.
func (h *MaintenanceHandler) Create(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req maintenanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err := h.checkRefs(c, accountID, req.PropertyID, req.TenantID); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m := model.MaintenanceRequest{
		AccountID:   accountID,
		PropertyID:  req.PropertyID,
		TenantID:    req.TenantID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
	}
	if err := h.Maintenance.Create(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create maintenance request"})
	}
	return c.JSON(http.StatusOK, m)
}

// List handles GET /api/maintenance.
func (h *MaintenanceHandler) List(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Maintenance.ListByAccount(ctx, accountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/maintenance/:id.
func (h *MaintenanceHandler) Get(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Maintenance.GetByIDAndAccount(ctx, id, accountID)
	if err != nil {
		return notFoundOrDBError(c, err, "maintenance request")
	}
	return c.JSON(http.StatusOK, m)
}

// Update handles PUT /api/maintenance/:id. Status is stored as sent; moving
// into the completed state stamps completed_at, moving out clears it.
func (h *MaintenanceHandler) Update(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req maintenanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Maintenance.GetByIDAndAccount(ctx, id, accountID)
	if err != nil {
		return notFoundOrDBError(c, err, "maintenance request")
	}
	if strings.TrimSpace(req.Title) != "" {
		m.Title = strings.TrimSpace(req.Title)
	}
	if req.Description != nil {
		m.Description = req.Description
	}
	if req.Priority != "" {
		m.Priority = req.Priority
	}
	if req.Status != "" {
		m.Status = req.Status
	}
	if err := h.Maintenance.Update(ctx, &m); err != nil {
		return notFoundOrDBError(c, err, "maintenance request")
	}
	return c.JSON(http.StatusOK, m)
}

// Delete handles DELETE /api/maintenance/:id. Only completed requests may
// be removed.
func (h *MaintenanceHandler) Delete(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Maintenance.Delete(ctx, id, accountID); err != nil {
		if err == repository.ErrNotCompleted {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "only completed requests can be deleted"})
		}
		return notFoundOrDBError(c, err, "maintenance request")
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
