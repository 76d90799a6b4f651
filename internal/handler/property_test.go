package handler

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yhajali/aqari-backend/internal/repository"
)

var propertyTestCols = []string{"id", "account_id", "name", "address", "type", "bedrooms",
	"bathrooms", "area_sqm", "monthly_rent", "currency", "status",
	"electricity_number", "water_number", "created_at", "updated_at"}

func TestPropertyCreateMissingFields(t *testing.T) {
	h := NewPropertyHandler(nil, nil)
	c, rec := jsonReq(http.MethodPost, "/api/properties", `{"name":"Marina Heights"}`)
	c.Set("account_id", uint64(3))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name, address and type are required")
}

func TestPropertyCreateDuplicateConflicts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT 1 FROM properties").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	h := NewPropertyHandler(repository.NewPropertyRepo(db), nil)
	c, rec := jsonReq(http.MethodPost, "/api/properties", `{
		"name":"Marina Heights 1204","address":"Dubai Marina","type":"apartment",
		"electricity_number":"200312456"
	}`)
	c.Set("account_id", uint64(3))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyGetUnknownIs404(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM properties WHERE id=\\? AND account_id=\\?").
		WillReturnRows(sqlmock.NewRows(propertyTestCols))

	h := NewPropertyHandler(repository.NewPropertyRepo(db), nil)
	c, rec := jsonReq(http.MethodGet, "/api/properties/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")
	c.Set("account_id", uint64(3))

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "property not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Forcing a property vacant also expires every tenant assigned to it.
func TestPropertyMakeVacantExpiresTenants(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE properties SET status=\\?").
		WithArgs("vacant", uint64(5), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE tenants SET status=\\?").
		WithArgs("expired", uint64(5), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	h := NewPropertyHandler(repository.NewPropertyRepo(db), repository.NewTenantRepo(db))
	c, rec := jsonReq(http.MethodPost, "/api/properties/5/update-tenants-vacant", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	c.Set("account_id", uint64(3))

	require.NoError(t, h.MakeVacant(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tenants_expired":2`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantCreateForeignPropertyRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM properties WHERE id=\\? AND account_id=\\?").
		WithArgs(uint64(42), uint64(3)).
		WillReturnRows(sqlmock.NewRows(propertyTestCols))

	h := NewTenantHandler(repository.NewTenantRepo(db), repository.NewPropertyRepo(db))
	c, rec := jsonReq(http.MethodPost, "/api/tenants", `{"full_name":"Ahmed","property_id":42}`)
	c.Set("account_id", uint64(3))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Property not found or access denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantCreateFreeMonthFirstNeedsLeaseStart(t *testing.T) {
	h := NewTenantHandler(nil, nil)
	c, rec := jsonReq(http.MethodPost, "/api/tenants", `{"full_name":"Ahmed","free_month_type":"first"}`)
	c.Set("account_id", uint64(3))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "requires lease_start")
}

// Month-end lease ends must still land on the month before: a 31st must
// not normalize forward into the lease-end month itself.
func TestResolveFreeMonthLast(t *testing.T) {
	cases := []struct {
		leaseEnd string
		want     string
	}{
		{"2027-06-30", "2027-05"},
		{"2027-07-31", "2027-06"},
		{"2027-05-31", "2027-04"},
		{"2027-01-15", "2026-12"},
	}
	for _, tc := range cases {
		typ := "last"
		end := tc.leaseEnd
		req := tenantReq{FullName: "Ahmed", FreeMonthType: &typ, LeaseEnd: &end}
		require.Empty(t, req.validate())
		require.Empty(t, req.resolveFreeMonth())
		require.NotNil(t, req.FreeMonth)
		assert.Equal(t, tc.want, *req.FreeMonth, "lease_end %s", tc.leaseEnd)
	}
}
