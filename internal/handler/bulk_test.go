package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yhajali/aqari-backend/internal/repository"
)

// buildWorkbook writes one sheet with the given header and rows and returns
// the serialized xlsx bytes.
func buildWorkbook(t *testing.T, sheet string, header []string, rows [][]any) []byte {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()
	wb.SetSheetName("Sheet1", sheet)

	h := make([]any, len(header))
	for i, v := range header {
		h[i] = v
	}
	require.NoError(t, wb.SetSheetRow(sheet, "A1", &h))
	for i, row := range rows {
		require.NoError(t, wb.SetSheetRow(sheet, cellRef(t, i+2), &row))
	}

	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))
	return buf.Bytes()
}

func cellRef(t *testing.T, row int) string {
	t.Helper()
	ref, err := excelize.CoordinatesToCellName(1, row)
	require.NoError(t, err)
	return ref
}

func uploadCtx(t *testing.T, path string, content []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "import.xlsx")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("account_id", uint64(3))
	return c, rec
}

func TestBulkImportRejectsWrongHeader(t *testing.T) {
	badHeader := append([]string{}, propertyHeader...)
	badHeader[1] = "Location" // should be "Address"
	content := buildWorkbook(t, sheetProperties, badHeader, nil)

	h := NewBulkHandler(testCfg, nil, nil)
	c, rec := uploadCtx(t, "/api/bulk-upload/properties", content)

	require.NoError(t, h.ImportProperties(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `expected column 2 to be \"Address\", got \"Location\"`)
}

// Header matching is by exact name, so a case change is a mismatch.
func TestBulkImportRejectsHeaderCaseMismatch(t *testing.T) {
	badHeader := append([]string{}, propertyHeader...)
	badHeader[0] = "NAME"
	content := buildWorkbook(t, sheetProperties, badHeader, nil)

	h := NewBulkHandler(testCfg, nil, nil)
	c, rec := uploadCtx(t, "/api/bulk-upload/properties", content)

	require.NoError(t, h.ImportProperties(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `expected column 1 to be \"Name\", got \"NAME\"`)
}

func TestBulkImportRejectsNonExcelUpload(t *testing.T) {
	h := NewBulkHandler(testCfg, nil, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "import.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("name,address\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/bulk-upload/combined", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("account_id", uint64(3))

	require.NoError(t, h.ImportCombined(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Excel workbook")
}

// A tenants-scoped upload of a properties-only workbook names the missing
// sheet instead of reporting an empty import.
func TestBulkUploadTenantsScopeRequiresTenantsSheet(t *testing.T) {
	content := buildWorkbook(t, sheetProperties, propertyHeader, nil)

	h := NewBulkHandler(testCfg, nil, nil)
	c, rec := uploadCtx(t, "/api/bulk-upload/tenants", content)

	require.NoError(t, h.ImportTenants(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `no \"Tenants\" sheet`)
}

// One bad row must not block the good ones.
func TestBulkImportCollectsRowErrorsAndContinues(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Row 2 is fine: duplicate check comes back empty, the insert runs.
	mock.ExpectQuery("SELECT 1 FROM properties").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectExec("INSERT INTO properties").
		WillReturnResult(sqlmock.NewResult(1, 1))

	content := buildWorkbook(t, sheetProperties, propertyHeader, [][]any{
		{"Marina Heights 1204", "Dubai Marina", "apartment", 2, 2, 118, 7500, "AED", "occupied", "200312456", ""},
		{"", "Missing Name St", "villa"},
	})

	h := NewBulkHandler(testCfg, repository.NewPropertyRepo(db), repository.NewTenantRepo(db))
	c, rec := uploadCtx(t, "/api/bulk-upload/properties", content)

	require.NoError(t, h.ImportProperties(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success_count":1`)
	assert.Contains(t, rec.Body.String(), `"error_count":1`)
	assert.Contains(t, rec.Body.String(), "row 3")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A combined row inserts the property, then the tenant against the id that
// insert just produced, and marks the property occupied.
func TestBulkCombinedRowLinksTenantToNewProperty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT 1 FROM properties").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectExec("INSERT INTO properties").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO tenants").
		WithArgs(uint64(3), uint64(7), "Ahmed Al Mansoori",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectCommit()
	mock.ExpectExec("UPDATE properties SET status=\\?").
		WithArgs("occupied", uint64(7), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	content := buildWorkbook(t, sheetCombined, combinedHeader, [][]any{
		{"Marina Heights 1204", "Dubai Marina", "apartment", 2, 2, 118, 7500, "AED", "vacant", "200312456", "",
			"Ahmed Al Mansoori", "ahmed@example.com", "0501234567", "784-1990-1234567-1",
			"2027-01-01", "2027-12-31", 7500, "active"},
	})

	h := NewBulkHandler(testCfg, repository.NewPropertyRepo(db), repository.NewTenantRepo(db))
	c, rec := uploadCtx(t, "/api/bulk-upload/combined", content)

	require.NoError(t, h.ImportCombined(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success_count":2`)
	assert.Contains(t, rec.Body.String(), `"error_count":0`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
