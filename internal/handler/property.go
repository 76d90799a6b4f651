package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/yhajali/aqari-backend/internal/model"
	"github.com/yhajali/aqari-backend/internal/repository"
)

// PropertyHandler implements the account-scoped property CRUD plus the
// vacancy cascade.
type PropertyHandler struct {
	Properties *repository.PropertyRepo
	Tenants    *repository.TenantRepo
}

func NewPropertyHandler(p *repository.PropertyRepo, t *repository.TenantRepo) *PropertyHandler {
	return &PropertyHandler{Properties: p, Tenants: t}
}

type propertyReq struct {
	Name              string              `json:"name"`
	Address           string              `json:"address"`
	Type              string              `json:"type"`
	Bedrooms          *int                `json:"bedrooms"`
	Bathrooms         *int                `json:"bathrooms"`
	AreaSqm           decimal.NullDecimal `json:"area_sqm"`
	MonthlyRent       decimal.NullDecimal `json:"monthly_rent"`
	Currency          string              `json:"currency"`
	Status            string              `json:"status"`
	ElectricityNumber *string             `json:"electricity_number"`
	WaterNumber       *string             `json:"water_number"`
}

// validate trims and checks the request, returning a user-facing message
// when the payload is unusable.
func (r *propertyReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	r.Address = strings.TrimSpace(r.Address)
	r.Type = strings.TrimSpace(r.Type)
	if r.Name == "" || r.Address == "" || r.Type == "" {
		return "name, address and type are required"
	}
	if r.Currency == "" {
		r.Currency = "AED"
	}
	if r.Status == "" {
		r.Status = model.PropertyVacant
	}
	if !model.ValidPropertyStatus(r.Status) {
		return "invalid status"
	}
	return ""
}

func (r *propertyReq) apply(p *model.Property) {
	p.Name = r.Name
	p.Address = r.Address
	p.Type = r.Type
	p.Bedrooms = r.Bedrooms
	p.Bathrooms = r.Bathrooms
	p.AreaSqm = r.AreaSqm
	p.MonthlyRent = r.MonthlyRent
	p.Currency = r.Currency
	p.Status = r.Status
	p.ElectricityNumber = r.ElectricityNumber
	p.WaterNumber = r.WaterNumber
}

// Create handles POST /api/properties.
func (h *PropertyHandler) Create(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req propertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	// Same duplicate rule as the bulk importer: name plus a matching
	// electricity or water account number.
	dup, err := h.Properties.FindDuplicate(ctx, accountID, req.Name, req.ElectricityNumber, req.WaterNumber, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if dup {
		return c.JSON(http.StatusConflict, echo.Map{"error": "property with the same name and utility number already exists"})
	}

	p := model.Property{AccountID: accountID}
	req.apply(&p)
	if err := h.Properties.Create(ctx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create property"})
	}
	return c.JSON(http.StatusOK, p)
}

// List handles GET /api/properties.
func (h *PropertyHandler) List(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Properties.ListByAccount(ctx, accountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/properties/:id.
func (h *PropertyHandler) Get(c echo.Context) error {
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

	p, err := h.Properties.GetByIDAndAccount(ctx, id, accountID)
	if err != nil {
		return notFoundOrDBError(c, err, "property")
	}
	return c.JSON(http.StatusOK, p)
}

// Update handles PUT /api/properties/:id. Setting the status to vacant
// expires every tenant referencing the property; the cascade belongs to
// this path, not to a background inference.
func (h *PropertyHandler) Update(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req propertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Properties.GetByIDAndAccount(ctx, id, accountID)
	if err != nil {
		return notFoundOrDBError(c, err, "property")
	}

	dup, err := h.Properties.FindDuplicate(ctx, accountID, req.Name, req.ElectricityNumber, req.WaterNumber, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if dup {
		return c.JSON(http.StatusConflict, echo.Map{"error": "property with the same name and utility number already exists"})
	}

	req.apply(&p)
	if err := h.Properties.Update(ctx, &p); err != nil {
		return notFoundOrDBError(c, err, "property")
	}

	if p.Status == model.PropertyVacant {
		if _, err := h.Tenants.ExpireForProperty(ctx, p.ID, accountID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "expire tenants failed"})
		}
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /api/properties/:id.
func (h *PropertyHandler) Delete(c echo.Context) error {
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

	if err := h.Properties.Delete(ctx, id, accountID); err != nil {
		return notFoundOrDBError(c, err, "property")
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}

// MakeVacant handles POST /api/properties/:id/update-tenants-vacant: sets
// the property vacant and expires its tenants in one operation.
func (h *PropertyHandler) MakeVacant(c echo.Context) error {
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

	if err := h.Properties.SetStatus(ctx, id, accountID, model.PropertyVacant); err != nil {
		return notFoundOrDBError(c, err, "property")
	}
	expired, err := h.Tenants.ExpireForProperty(ctx, id, accountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "expire tenants failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"property_id": id, "tenants_expired": expired})
}
