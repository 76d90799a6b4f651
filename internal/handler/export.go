package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/yhajali/aqari-backend/internal/repository"
)

// ExportHandler writes the account's properties or tenants into an xlsx
// workbook, using the same sheet and header layout the importer expects so
// an exported file round-trips.
type ExportHandler struct {
	Properties *repository.PropertyRepo
	Tenants    *repository.TenantRepo
}

func NewExportHandler(p *repository.PropertyRepo, t *repository.TenantRepo) *ExportHandler {
	return &ExportHandler{Properties: p, Tenants: t}
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intOrEmpty(p *int) any {
	if p == nil {
		return ""
	}
	return *p
}

func decOrEmpty(d decimal.NullDecimal) any {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

// ExportProperties handles GET /api/export/properties.
func (h *ExportHandler) ExportProperties(c echo.Context) error {
	return h.export(c, sheetProperties)
}

// ExportTenants handles GET /api/export/tenants.
func (h *ExportHandler) ExportTenants(c echo.Context) error {
	return h.export(c, sheetTenants)
}

func (h *ExportHandler) export(c echo.Context, sheet string) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	wb := excelize.NewFile()
	defer wb.Close()
	wb.SetSheetName("Sheet1", sheet)

	switch sheet {
	case sheetProperties:
		err = h.fillProperties(ctx, wb, accountID)
	case sheetTenants:
		err = h.fillTenants(ctx, wb, accountID)
	}
	if err == errDB {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "workbook error"})
	}

	filename := fmt.Sprintf("export-%s-%s.xlsx",
		strings.ToLower(sheet), time.Now().UTC().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Response().WriteHeader(http.StatusOK)
	return wb.Write(c.Response())
}

var errDB = fmt.Errorf("db error")

func writeHeader(wb *excelize.File, sheet string, names []string) error {
	header := make([]any, len(names))
	for i, n := range names {
		header[i] = n
	}
	return wb.SetSheetRow(sheet, "A1", &header)
}

func (h *ExportHandler) fillProperties(ctx context.Context, wb *excelize.File, accountID uint64) error {
	props, err := h.Properties.ListByAccount(ctx, accountID)
	if err != nil {
		return errDB
	}
	if err := writeHeader(wb, sheetProperties, propertyHeader); err != nil {
		return err
	}
	for i, p := range props {
		row := []any{
			p.Name, p.Address, p.Type, intOrEmpty(p.Bedrooms), intOrEmpty(p.Bathrooms),
			decOrEmpty(p.AreaSqm), decOrEmpty(p.MonthlyRent), p.Currency, p.Status,
			strOrEmpty(p.ElectricityNumber), strOrEmpty(p.WaterNumber),
		}
		if err := wb.SetSheetRow(sheetProperties, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func (h *ExportHandler) fillTenants(ctx context.Context, wb *excelize.File, accountID uint64) error {
	tenants, err := h.Tenants.ListByAccount(ctx, accountID)
	if err != nil {
		return errDB
	}
	// The workbook references properties by name, not id.
	props, err := h.Properties.ListByAccount(ctx, accountID)
	if err != nil {
		return errDB
	}
	propNames := map[uint64]string{}
	for _, p := range props {
		propNames[p.ID] = p.Name
	}

	if err := writeHeader(wb, sheetTenants, tenantHeader); err != nil {
		return err
	}
	for i, t := range tenants {
		propName := ""
		if t.PropertyID != nil {
			propName = propNames[*t.PropertyID]
		}
		row := []any{
			t.FullName, strOrEmpty(t.Email), strOrEmpty(t.Phone), strOrEmpty(t.IDNumber),
			propName, strOrEmpty(t.LeaseStart), strOrEmpty(t.LeaseEnd),
			decOrEmpty(t.MonthlyRent), t.Currency, t.Status,
		}
		if err := wb.SetSheetRow(sheetTenants, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}
