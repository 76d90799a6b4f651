package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/yhajali/aqari-backend/internal/model"
	"github.com/yhajali/aqari-backend/internal/repository"
)

// FixturesHandler seeds demo data into the caller's account and provides
// the self-service wipe. Both operate strictly within the caller's scope.
type FixturesHandler struct {
	Properties  *repository.PropertyRepo
	Tenants     *repository.TenantRepo
	Maintenance *repository.MaintenanceRepo
	Financial   *repository.FinancialRepo
	Admin       *repository.AdminRepo
}

func NewFixturesHandler(p *repository.PropertyRepo, t *repository.TenantRepo,
	m *repository.MaintenanceRepo, f *repository.FinancialRepo, a *repository.AdminRepo) *FixturesHandler {
	return &FixturesHandler{Properties: p, Tenants: t, Maintenance: m, Financial: f, Admin: a}
}

func strp(s string) *string { return &s }

// SampleData handles POST /api/sample-data: inserts a small, predictable
// demo portfolio so a fresh account has something to click through.
func (h *FixturesHandler) SampleData(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	now := time.Now().UTC()
	leaseStart := now.AddDate(0, -2, 0).Format(dateLayout)
	leaseEnd := now.AddDate(1, -2, 0).Format(dateLayout)

	occupied := model.Property{
		AccountID:         accountID,
		Name:              "Marina Heights 1204",
		Address:           "Dubai Marina, Tower B",
		Type:              "apartment",
		Bedrooms:          intp(2),
		Bathrooms:         intp(2),
		AreaSqm:           decimal.NewNullDecimal(decimal.NewFromInt(118)),
		MonthlyRent:       decimal.NewNullDecimal(decimal.NewFromInt(7500)),
		Currency:          "AED",
		Status:            model.PropertyOccupied,
		ElectricityNumber: strp("200312456"),
	}
	vacant := model.Property{
		AccountID:   accountID,
		Name:        "Al Nahda Villa 7",
		Address:     "Al Nahda Street 12",
		Type:        "villa",
		Bedrooms:    intp(4),
		Bathrooms:   intp(3),
		AreaSqm:     decimal.NewNullDecimal(decimal.NewFromInt(320)),
		MonthlyRent: decimal.NewNullDecimal(decimal.NewFromInt(15000)),
		Currency:    "AED",
		Status:      model.PropertyVacant,
	}
	if err := h.Properties.Create(ctx, &occupied); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seed failed"})
	}
	if err := h.Properties.Create(ctx, &vacant); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seed failed"})
	}

	tenant := model.Tenant{
		AccountID:   accountID,
		PropertyID:  &occupied.ID,
		FullName:    "Ahmed Al Mansoori",
		Email:       strp("ahmed.mansoori@example.com"),
		Phone:       strp("+971501234567"),
		LeaseStart:  &leaseStart,
		LeaseEnd:    &leaseEnd,
		MonthlyRent: decimal.NewNullDecimal(decimal.NewFromInt(7500)),
		Currency:    "AED",
		Status:      model.TenantActive,
		Cheques: []model.Cheque{
			{
				ChequeNumber: "100045",
				BankName:     strp("Emirates NBD"),
				ChequeDate:   strp(now.AddDate(0, 1, 0).Format(dateLayout)),
				Amount:       decimal.NewFromInt(22500),
			},
			{
				ChequeNumber: "100046",
				BankName:     strp("Emirates NBD"),
				Amount:       decimal.NewFromInt(7500),
				IsSecurity:   true,
			},
		},
	}
	if err := h.Tenants.Create(ctx, &tenant); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seed failed"})
	}

	maint := model.MaintenanceRequest{
		AccountID:   accountID,
		PropertyID:  &occupied.ID,
		TenantID:    &tenant.ID,
		Title:       "AC service",
		Description: strp("Annual air conditioning service for all units"),
		Priority:    "medium",
		Status:      model.MaintenancePending,
	}
	if err := h.Maintenance.Create(ctx, &maint); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seed failed"})
	}

	record := model.FinancialRecord{
		AccountID:       accountID,
		PropertyID:      &occupied.ID,
		TenantID:        &tenant.ID,
		RecordType:      model.RecordRent,
		Amount:          decimal.NewFromInt(7500),
		Currency:        "AED",
		Description:     strp("Rent payment for " + now.AddDate(0, -1, 0).Format(monthLayout)),
		TransactionDate: now.AddDate(0, -1, 0).Format(dateLayout),
	}
	if err := h.Financial.Create(ctx, &record); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seed failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"properties":          []model.Property{occupied, vacant},
		"tenant":              tenant,
		"maintenance_request": maint,
		"financial_record":    record,
	})
}

// ResetOwnData handles POST /api/reset-database: deletes every domain row
// of the caller's account. The literal confirmation string guards against
// an accidental call; the account itself survives.
func (h *FixturesHandler) ResetOwnData(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		Confirmation string `json:"confirmation"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Confirmation != "RESET MY DATA" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": `confirmation must be "RESET MY DATA"`})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Admin.ResetAccountData(ctx, accountID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "reset complete"})
}

func intp(n int) *int { return &n }
