package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/yhajali/aqari-backend/internal/config"
	"github.com/yhajali/aqari-backend/internal/model"
	"github.com/yhajali/aqari-backend/internal/repository"
)

// BulkHandler imports properties and tenants from an uploaded xlsx
// workbook. Rows are processed independently: a bad row is collected into
// the error list and the rest of the sheet still lands.
type BulkHandler struct {
	Cfg        config.Config
	Properties *repository.PropertyRepo
	Tenants    *repository.TenantRepo
}

func NewBulkHandler(cfg config.Config, p *repository.PropertyRepo, t *repository.TenantRepo) *BulkHandler {
	return &BulkHandler{Cfg: cfg, Properties: p, Tenants: t}
}

// Sheet and header layout shared by import and export. Order matters: the
// import rejects a workbook whose header row deviates.
const (
	sheetProperties = "Properties"
	sheetTenants    = "Tenants"
	sheetCombined   = "Combined"
)

var propertyHeader = []string{
	"Name", "Address", "Type", "Bedrooms", "Bathrooms", "Area (sqm)",
	"Monthly Rent", "Currency", "Status", "Electricity Number", "Water Number",
}

var tenantHeader = []string{
	"Full Name", "Email", "Phone", "ID Number", "Property Name",
	"Lease Start", "Lease End", "Monthly Rent", "Currency", "Status",
}

// The combined layout puts the tenant columns to the right of the property
// columns. A row's tenant moves into the property created from that same
// row, so there is no "Property Name" lookup column.
var combinedHeader = append(append([]string{}, propertyHeader...),
	"Tenant Full Name", "Tenant Email", "Tenant Phone", "Tenant ID Number",
	"Lease Start", "Lease End", "Tenant Monthly Rent", "Tenant Status")

// Browsers sometimes send application/octet-stream for xlsx, so the
// filename extension is accepted as an alternative signal.
var excelMIMEs = map[string]bool{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-excel": true,
}

// checkHeader compares the first row against the expected layout by exact
// name and ordinal position and names the first mismatch.
func checkHeader(sheet string, got, want []string) string {
	for i, w := range want {
		var g string
		if i < len(got) {
			g = strings.TrimSpace(got[i])
		}
		if g != w {
			return fmt.Sprintf("%s sheet: expected column %d to be %q, got %q", sheet, i+1, w, g)
		}
	}
	return ""
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func cellPtr(row []string, i int) *string {
	if v := cell(row, i); v != "" {
		return &v
	}
	return nil
}

func cellInt(row []string, i int) (*int, error) {
	v := cell(row, i)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func cellDecimal(row []string, i int) (decimal.NullDecimal, error) {
	v := cell(row, i)
	if v == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// ImportProperties handles POST /api/bulk-upload/properties.
func (h *BulkHandler) ImportProperties(c echo.Context) error {
	return h.upload(c, sheetProperties, propertyHeader)
}

// ImportTenants handles POST /api/bulk-upload/tenants.
func (h *BulkHandler) ImportTenants(c echo.Context) error {
	return h.upload(c, sheetTenants, tenantHeader)
}

// ImportCombined handles POST /api/bulk-upload/combined: a single sheet
// whose rows insert a property and, when the tenant columns are filled in,
// a tenant assigned to the property just created from the same row.
func (h *BulkHandler) ImportCombined(c echo.Context) error {
	return h.upload(c, sheetCombined, combinedHeader)
}

// upload does the shared multipart work. The file arrives as form field
// "file" and must be an Excel workbook under the configured size cap
// carrying the sheet the route expects.
func (h *BulkHandler) upload(c echo.Context, sheet string, header []string) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}
	maxBytes := h.Cfg.MaxUploadMB * 1024 * 1024
	if fh.Size > maxBytes {
		return c.JSON(http.StatusBadRequest,
			echo.Map{"error": fmt.Sprintf("file too large (max %d MB)", h.Cfg.MaxUploadMB)})
	}
	ct := fh.Header.Get("Content-Type")
	if !excelMIMEs[ct] && !strings.HasSuffix(strings.ToLower(fh.Filename), ".xlsx") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file must be an Excel workbook (.xlsx)"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not read upload"})
	}
	defer src.Close()

	wb, err := excelize.OpenReader(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not parse workbook"})
	}
	defer wb.Close()

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return c.JSON(http.StatusBadRequest,
			echo.Map{"error": fmt.Sprintf("workbook has no %q sheet", sheet)})
	}
	if len(rows) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": sheet + " sheet: missing header row"})
	}
	if msg := checkHeader(sheet, rows[0], header); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	imported := 0
	errs := []string{}
	switch sheet {
	case sheetProperties:
		imported, errs = h.importProperties(c, accountID, rows[1:])
	case sheetTenants:
		imported, errs = h.importTenants(c, accountID, rows[1:])
	case sheetCombined:
		imported, errs = h.importCombined(c, accountID, rows[1:])
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success_count": imported,
		"error_count":   len(errs),
		"errors":        errs,
	})
}

// parsePropertyRow turns one data row's property columns into a property,
// or a row-scoped error message.
func parsePropertyRow(row []string, accountID uint64, sheet string, rowNum int) (*model.Property, string) {
	name := cell(row, 0)
	address := cell(row, 1)
	ptype := cell(row, 2)
	if name == "" || address == "" || ptype == "" {
		return nil, fmt.Sprintf("%s row %d: name, address and type are required", sheet, rowNum)
	}
	bedrooms, err := cellInt(row, 3)
	if err != nil {
		return nil, fmt.Sprintf("%s row %d: invalid bedrooms", sheet, rowNum)
	}
	bathrooms, err := cellInt(row, 4)
	if err != nil {
		return nil, fmt.Sprintf("%s row %d: invalid bathrooms", sheet, rowNum)
	}
	area, err := cellDecimal(row, 5)
	if err != nil {
		return nil, fmt.Sprintf("%s row %d: invalid area", sheet, rowNum)
	}
	rent, err := cellDecimal(row, 6)
	if err != nil {
		return nil, fmt.Sprintf("%s row %d: invalid monthly rent", sheet, rowNum)
	}
	currency := cell(row, 7)
	if currency == "" {
		currency = "AED"
	}
	status := cell(row, 8)
	if status == "" {
		status = model.PropertyVacant
	}
	if !model.ValidPropertyStatus(status) {
		return nil, fmt.Sprintf("%s row %d: invalid status %q", sheet, rowNum, status)
	}

	return &model.Property{
		AccountID:         accountID,
		Name:              name,
		Address:           address,
		Type:              ptype,
		Bedrooms:          bedrooms,
		Bathrooms:         bathrooms,
		AreaSqm:           area,
		MonthlyRent:       rent,
		Currency:          currency,
		Status:            status,
		ElectricityNumber: cellPtr(row, 9),
		WaterNumber:       cellPtr(row, 10),
	}, ""
}

// insertProperty runs the duplicate check and the insert, shared by the
// properties and combined sheets.
func (h *BulkHandler) insertProperty(ctx context.Context, p *model.Property, sheet string, rowNum int) string {
	dup, err := h.Properties.FindDuplicate(ctx, p.AccountID, p.Name, p.ElectricityNumber, p.WaterNumber, 0)
	if err != nil {
		return fmt.Sprintf("%s row %d: db error", sheet, rowNum)
	}
	if dup {
		return fmt.Sprintf("%s row %d: property %q already exists", sheet, rowNum, p.Name)
	}
	if err := h.Properties.Create(ctx, p); err != nil {
		return fmt.Sprintf("%s row %d: insert failed", sheet, rowNum)
	}
	return ""
}

func (h *BulkHandler) importProperties(c echo.Context, accountID uint64, rows [][]string) (int, []string) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	imported := 0
	errs := []string{}
	for i, row := range rows {
		rowNum := i + 2 // 1-based, after the header
		p, msg := parsePropertyRow(row, accountID, sheetProperties, rowNum)
		if msg == "" {
			msg = h.insertProperty(ctx, p, sheetProperties, rowNum)
		}
		if msg != "" {
			errs = append(errs, msg)
			continue
		}
		imported++
	}
	return imported, errs
}

func (h *BulkHandler) importTenants(c echo.Context, accountID uint64, rows [][]string) (int, []string) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	imported := 0
	errs := []string{}
	for i, row := range rows {
		rowNum := i + 2
		fullName := cell(row, 0)
		if fullName == "" {
			errs = append(errs, fmt.Sprintf("%s row %d: full name is required", sheetTenants, rowNum))
			continue
		}
		email := cellPtr(row, 1)
		if email != nil && !validEmail(*email) {
			errs = append(errs, fmt.Sprintf("%s row %d: invalid email %q", sheetTenants, rowNum, *email))
			continue
		}

		// Property is referenced by name; the workbook has no ids.
		var propertyID *uint64
		if propName := cell(row, 4); propName != "" {
			prop, err := h.Properties.FindByName(ctx, accountID, propName)
			if err == repository.ErrNotFound {
				errs = append(errs, fmt.Sprintf("%s row %d: property %q not found", sheetTenants, rowNum, propName))
				continue
			}
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s row %d: db error", sheetTenants, rowNum))
				continue
			}
			propertyID = &prop.ID
		}

		leaseStart := cellPtr(row, 5)
		if leaseStart != nil && !validDate(*leaseStart) {
			errs = append(errs, fmt.Sprintf("%s row %d: lease start must be YYYY-MM-DD", sheetTenants, rowNum))
			continue
		}
		leaseEnd := cellPtr(row, 6)
		if leaseEnd != nil && !validDate(*leaseEnd) {
			errs = append(errs, fmt.Sprintf("%s row %d: lease end must be YYYY-MM-DD", sheetTenants, rowNum))
			continue
		}
		rent, err := cellDecimal(row, 7)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s row %d: invalid monthly rent", sheetTenants, rowNum))
			continue
		}
		currency := cell(row, 8)
		if currency == "" {
			currency = "AED"
		}
		status := cell(row, 9)
		if status == "" {
			status = model.TenantActive
		}
		if status != model.TenantActive && status != model.TenantExpired {
			errs = append(errs, fmt.Sprintf("%s row %d: invalid status %q", sheetTenants, rowNum, status))
			continue
		}

		t := model.Tenant{
			AccountID:   accountID,
			PropertyID:  propertyID,
			FullName:    fullName,
			Email:       email,
			Phone:       cellPtr(row, 2),
			IDNumber:    cellPtr(row, 3),
			LeaseStart:  leaseStart,
			LeaseEnd:    leaseEnd,
			MonthlyRent: rent,
			Currency:    currency,
			Status:      status,
		}
		if err := h.Tenants.Create(ctx, &t); err != nil {
			errs = append(errs, fmt.Sprintf("%s row %d: insert failed", sheetTenants, rowNum))
			continue
		}
		if propertyID != nil && status == model.TenantActive {
			if err := h.Properties.SetStatus(ctx, *propertyID, accountID, model.PropertyOccupied); err != nil {
				errs = append(errs, fmt.Sprintf("%s row %d: property status update failed", sheetTenants, rowNum))
			}
		}
		imported++
	}
	return imported, errs
}

// importCombined processes each row as a property insert followed, when the
// tenant columns are filled in, by a tenant insert that references the id
// the property insert just produced. The count covers both record kinds.
func (h *BulkHandler) importCombined(c echo.Context, accountID uint64, rows [][]string) (int, []string) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	imported := 0
	errs := []string{}
	for i, row := range rows {
		rowNum := i + 2
		p, msg := parsePropertyRow(row, accountID, sheetCombined, rowNum)
		if msg == "" {
			msg = h.insertProperty(ctx, p, sheetCombined, rowNum)
		}
		if msg != "" {
			errs = append(errs, msg)
			continue
		}
		imported++

		fullName := cell(row, 11)
		if fullName == "" {
			continue // property-only row
		}
		email := cellPtr(row, 12)
		if email != nil && !validEmail(*email) {
			errs = append(errs, fmt.Sprintf("%s row %d: invalid email %q", sheetCombined, rowNum, *email))
			continue
		}
		leaseStart := cellPtr(row, 15)
		if leaseStart != nil && !validDate(*leaseStart) {
			errs = append(errs, fmt.Sprintf("%s row %d: lease start must be YYYY-MM-DD", sheetCombined, rowNum))
			continue
		}
		leaseEnd := cellPtr(row, 16)
		if leaseEnd != nil && !validDate(*leaseEnd) {
			errs = append(errs, fmt.Sprintf("%s row %d: lease end must be YYYY-MM-DD", sheetCombined, rowNum))
			continue
		}
		rent, err := cellDecimal(row, 17)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s row %d: invalid tenant monthly rent", sheetCombined, rowNum))
			continue
		}
		status := cell(row, 18)
		if status == "" {
			status = model.TenantActive
		}
		if status != model.TenantActive && status != model.TenantExpired {
			errs = append(errs, fmt.Sprintf("%s row %d: invalid tenant status %q", sheetCombined, rowNum, status))
			continue
		}

		t := model.Tenant{
			AccountID:   accountID,
			PropertyID:  &p.ID,
			FullName:    fullName,
			Email:       email,
			Phone:       cellPtr(row, 13),
			IDNumber:    cellPtr(row, 14),
			LeaseStart:  leaseStart,
			LeaseEnd:    leaseEnd,
			MonthlyRent: rent,
			Currency:    p.Currency,
			Status:      status,
		}
		if err := h.Tenants.Create(ctx, &t); err != nil {
			errs = append(errs, fmt.Sprintf("%s row %d: tenant insert failed", sheetCombined, rowNum))
			continue
		}
		if status == model.TenantActive {
			if err := h.Properties.SetStatus(ctx, p.ID, accountID, model.PropertyOccupied); err != nil {
				errs = append(errs, fmt.Sprintf("%s row %d: property status update failed", sheetCombined, rowNum))
			}
		}
		imported++
	}
	return imported, errs
}
