package handler

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yhajali/aqari-backend/internal/repository"
)

var tenantTestCols = []string{"id", "account_id", "property_id", "full_name", "email",
	"phone", "id_number", "lease_start", "lease_end", "monthly_rent", "currency",
	"status", "free_month_type", "free_month", "created_at", "updated_at"}

// A ledger record naming someone else's property must fail on the property
// check, before the tenant check and before anything is written.
func TestFinancialCreateForeignPropertyRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM properties WHERE id=\\? AND account_id=\\?").
		WithArgs(uint64(999999), uint64(3)).
		WillReturnRows(sqlmock.NewRows(propertyTestCols))

	h := NewFinancialHandler(repository.NewFinancialRepo(db),
		repository.NewPropertyRepo(db), repository.NewTenantRepo(db))
	c, rec := jsonReq(http.MethodPost, "/api/financial", `{
		"record_type": "expense", "amount": "350", "transaction_date": "2026-08-20",
		"property_id": 999999, "tenant_id": 888888
	}`)
	c.Set("account_id", uint64(3))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Property not found or access denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinancialCreateForeignTenantRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM tenants WHERE id=\\? AND account_id=\\?").
		WithArgs(uint64(888888), uint64(3)).
		WillReturnRows(sqlmock.NewRows(tenantTestCols))

	h := NewFinancialHandler(repository.NewFinancialRepo(db),
		repository.NewPropertyRepo(db), repository.NewTenantRepo(db))
	c, rec := jsonReq(http.MethodPost, "/api/financial", `{
		"record_type": "expense", "amount": "350", "transaction_date": "2026-08-20",
		"tenant_id": 888888
	}`)
	c.Set("account_id", uint64(3))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tenant not found or access denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinancialUpdateChecksRefOwnership(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM properties WHERE id=\\? AND account_id=\\?").
		WithArgs(uint64(42), uint64(3)).
		WillReturnRows(sqlmock.NewRows(propertyTestCols))

	h := NewFinancialHandler(repository.NewFinancialRepo(db),
		repository.NewPropertyRepo(db), repository.NewTenantRepo(db))
	c, rec := jsonReq(http.MethodPut, "/api/financial/9", `{
		"record_type": "expense", "amount": "350", "transaction_date": "2026-08-20",
		"property_id": 42
	}`)
	c.SetParamNames("id")
	c.SetParamValues("9")
	c.Set("account_id", uint64(3))

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Property not found or access denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinancialCreateZeroAmountRejected(t *testing.T) {
	h := NewFinancialHandler(nil, nil, nil)
	c, rec := jsonReq(http.MethodPost, "/api/financial", `{
		"record_type": "deposit", "amount": "0", "transaction_date": "2026-08-20"
	}`)
	c.Set("account_id", uint64(3))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "amount must be positive")
}
