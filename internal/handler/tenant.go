package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/yhajali/aqari-backend/internal/model"
	"github.com/yhajali/aqari-backend/internal/repository"
)

// TenantHandler implements tenant CRUD. Cheques ride along inside the
// tenant payload and are replaced wholesale on every update.
type TenantHandler struct {
	Tenants    *repository.TenantRepo
	Properties *repository.PropertyRepo
}

func NewTenantHandler(t *repository.TenantRepo, p *repository.PropertyRepo) *TenantHandler {
	return &TenantHandler{Tenants: t, Properties: p}
}

type chequeReq struct {
	ChequeNumber string          `json:"cheque_number"`
	BankName     *string         `json:"bank_name"`
	ChequeDate   *string         `json:"cheque_date"`
	Amount       decimal.Decimal `json:"amount"`
	IsSecurity   bool            `json:"is_security"`
}

type tenantReq struct {
	PropertyID    *uint64             `json:"property_id"`
	FullName      string              `json:"full_name"`
	Email         *string             `json:"email"`
	Phone         *string             `json:"phone"`
	IDNumber      *string             `json:"id_number"`
	LeaseStart    *string             `json:"lease_start"`
	LeaseEnd      *string             `json:"lease_end"`
	MonthlyRent   decimal.NullDecimal `json:"monthly_rent"`
	Currency      string              `json:"currency"`
	Status        string              `json:"status"`
	FreeMonthType *string             `json:"free_month_type"`
	FreeMonth     *string             `json:"free_month"`
	Cheques       []chequeReq         `json:"cheques"`
}

func (r *tenantReq) validate() string {
	r.FullName = strings.TrimSpace(r.FullName)
	if r.FullName == "" {
		return "full_name is required"
	}
	if r.Email != nil && *r.Email != "" && !validEmail(*r.Email) {
		return "invalid email"
	}
	if r.LeaseStart != nil && !validDate(*r.LeaseStart) {
		return "lease_start must be YYYY-MM-DD"
	}
	if r.LeaseEnd != nil && !validDate(*r.LeaseEnd) {
		return "lease_end must be YYYY-MM-DD"
	}
	if r.Currency == "" {
		r.Currency = "AED"
	}
	if r.Status == "" {
		r.Status = model.TenantActive
	}
	if r.Status != model.TenantActive && r.Status != model.TenantExpired {
		return "invalid status"
	}
	for _, ch := range r.Cheques {
		if strings.TrimSpace(ch.ChequeNumber) == "" {
			return "cheque_number is required for every cheque"
		}
		if ch.ChequeDate != nil && !validDate(*ch.ChequeDate) {
			return "cheque_date must be YYYY-MM-DD"
		}
	}
	return ""
}

// resolveFreeMonth pins the concession month from the type: "first" is the
// lease-start month, "last" the month before lease-end, "custom" whatever
// the caller sent. Returns a message on inconsistent input.
func (r *tenantReq) resolveFreeMonth() string {
	if r.FreeMonthType == nil {
		r.FreeMonth = nil
		return ""
	}
	switch *r.FreeMonthType {
	case model.FreeMonthFirst:
		if r.LeaseStart == nil {
			return "free_month_type first requires lease_start"
		}
		m := (*r.LeaseStart)[:7]
		r.FreeMonth = &m
	case model.FreeMonthLast:
		if r.LeaseEnd == nil {
			return "free_month_type last requires lease_end"
		}
		// AddDate would normalize a month-end date forward (Jul 31 minus a
		// month lands on Jul 1), so the month is computed from the first.
		end, _ := time.Parse(dateLayout, *r.LeaseEnd)
		m := time.Date(end.Year(), end.Month()-1, 1, 0, 0, 0, 0, time.UTC).Format(monthLayout)
		r.FreeMonth = &m
	case model.FreeMonthCustom:
		if r.FreeMonth == nil || !validMonth(*r.FreeMonth) {
			return "free_month_type custom requires free_month as YYYY-MM"
		}
	default:
		return "invalid free_month_type"
	}
	return ""
}

func (r *tenantReq) apply(t *model.Tenant) {
	t.PropertyID = r.PropertyID
	t.FullName = r.FullName
	t.Email = r.Email
	t.Phone = r.Phone
	t.IDNumber = r.IDNumber
	t.LeaseStart = r.LeaseStart
	t.LeaseEnd = r.LeaseEnd
	t.MonthlyRent = r.MonthlyRent
	t.Currency = r.Currency
	t.Status = r.Status
	t.FreeMonthType = r.FreeMonthType
	t.FreeMonth = r.FreeMonth
	t.Cheques = make([]model.Cheque, 0, len(r.Cheques))
	for _, ch := range r.Cheques {
		t.Cheques = append(t.Cheques, model.Cheque{
			ChequeNumber: strings.TrimSpace(ch.ChequeNumber),
			BankName:     ch.BankName,
			ChequeDate:   ch.ChequeDate,
			Amount:       ch.Amount,
			IsSecurity:   ch.IsSecurity || ch.ChequeDate == nil,
		})
	}
}

// checkProperty confirms the referenced property belongs to the caller.
// A foreign or missing property is a 400, not a 404: the tenant payload is
// what is wrong.
func (h *TenantHandler) checkProperty(c echo.Context, accountID uint64, propertyID *uint64) error {
	if propertyID == nil {
		return nil
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if _, err := h.Properties.GetByIDAndAccount(ctx, *propertyID, accountID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Property not found or access denied"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return nil
}

// Create handles POST /api/tenants.
func (h *TenantHandler) Create(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req tenantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if msg := req.resolveFreeMonth(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err := h.checkProperty(c, accountID, req.PropertyID); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t := model.Tenant{AccountID: accountID}
	req.apply(&t)
	if err := h.Tenants.Create(ctx, &t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create tenant"})
	}
	if t.PropertyID != nil && t.Status == model.TenantActive {
		if err := h.Properties.SetStatus(ctx, *t.PropertyID, accountID, model.PropertyOccupied); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update property status failed"})
		}
	}
	return c.JSON(http.StatusOK, t)
}

// List handles GET /api/tenants.
func (h *TenantHandler) List(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Tenants.ListByAccount(ctx, accountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/tenants/:id, returning the tenant with its cheques.
func (h *TenantHandler) Get(c echo.Context) error {
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

	t, err := h.Tenants.GetByIDAndAccount(ctx, id, accountID)
	if err != nil {
		return notFoundOrDBError(c, err, "tenant")
	}
	return c.JSON(http.StatusOK, t)
}

// Update handles PUT /api/tenants/:id. The cheque list in the payload
// replaces whatever the tenant had.
func (h *TenantHandler) Update(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req tenantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if msg := req.resolveFreeMonth(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err := h.checkProperty(c, accountID, req.PropertyID); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t := model.Tenant{ID: id, AccountID: accountID}
	req.apply(&t)
	if err := h.Tenants.Update(ctx, &t); err != nil {
		return notFoundOrDBError(c, err, "tenant")
	}
	if t.PropertyID != nil && t.Status == model.TenantActive {
		if err := h.Properties.SetStatus(ctx, *t.PropertyID, accountID, model.PropertyOccupied); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update property status failed"})
		}
	}

	out, err := h.Tenants.GetByIDAndAccount(ctx, id, accountID)
	if err != nil {
		return notFoundOrDBError(c, err, "tenant")
	}
	return c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /api/tenants/:id; the cheque rows cascade away.
func (h *TenantHandler) Delete(c echo.Context) error {
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

	if err := h.Tenants.Delete(ctx, id, accountID); err != nil {
		return notFoundOrDBError(c, err, "tenant")
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
