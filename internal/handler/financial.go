package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/yhajali/aqari-backend/internal/model"
	"github.com/yhajali/aqari-backend/internal/repository"
)

// FinancialHandler implements the free-form ledger CRUD. Rent payments write
// into the same table through the rent-tracking path.
type FinancialHandler struct {
	Financial  *repository.FinancialRepo
	Properties *repository.PropertyRepo
	Tenants    *repository.TenantRepo
}

func NewFinancialHandler(f *repository.FinancialRepo, p *repository.PropertyRepo, t *repository.TenantRepo) *FinancialHandler {
	return &FinancialHandler{Financial: f, Properties: p, Tenants: t}
}

type financialReq struct {
	PropertyID      *uint64         `json:"property_id"`
	TenantID        *uint64         `json:"tenant_id"`
	RecordType      string          `json:"record_type"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Description     *string         `json:"description"`
	TransactionDate string          `json:"transaction_date"`
}

func (r *financialReq) validate() string {
	r.RecordType = strings.TrimSpace(r.RecordType)
	if r.RecordType == "" {
		return "record_type is required"
	}
	if !r.Amount.IsPositive() {
		return "amount must be positive"
	}
	if r.TransactionDate == "" || !validDate(r.TransactionDate) {
		return "transaction_date must be YYYY-MM-DD"
	}
	if r.Currency == "" {
		r.Currency = "AED"
	}
	return ""
}

// checkRefs verifies the optional property and tenant references belong to
// the caller, property first. Bad references read as payload errors (400).
func (h *FinancialHandler) checkRefs(c echo.Context, accountID uint64, propertyID, tenantID *uint64) error {
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

func (r *financialReq) apply(f *model.FinancialRecord) {
	f.PropertyID = r.PropertyID
	f.TenantID = r.TenantID
	f.RecordType = r.RecordType
	f.Amount = r.Amount
	f.Currency = r.Currency
	f.Description = r.Description
	f.TransactionDate = r.TransactionDate
}

// Create handles POST /api/financial.
func (h *FinancialHandler) Create(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req financialReq
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

	f := model.FinancialRecord{AccountID: accountID}
	req.apply(&f)
	if err := h.Financial.Create(ctx, &f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create record"})
	}
	return c.JSON(http.StatusOK, f)
}

// List handles GET /api/financial.
func (h *FinancialHandler) List(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Financial.ListByAccount(ctx, accountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/financial/:id.
func (h *FinancialHandler) Get(c echo.Context) error {
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

	f, err := h.Financial.GetByIDAndAccount(ctx, id, accountID)
	if err != nil {
		return notFoundOrDBError(c, err, "financial record")
	}
	return c.JSON(http.StatusOK, f)
}

// Update handles PUT /api/financial/:id.
func (h *FinancialHandler) Update(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req financialReq
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

	f, err := h.Financial.GetByIDAndAccount(ctx, id, accountID)
	if err != nil {
		return notFoundOrDBError(c, err, "financial record")
	}
	req.apply(&f)
	if err := h.Financial.Update(ctx, &f); err != nil {
		return notFoundOrDBError(c, err, "financial record")
	}
	return c.JSON(http.StatusOK, f)
}

// Delete handles DELETE /api/financial/:id.
func (h *FinancialHandler) Delete(c echo.Context) error {
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

	if err := h.Financial.Delete(ctx, id, accountID); err != nil {
		return notFoundOrDBError(c, err, "financial record")
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
