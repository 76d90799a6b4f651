package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Validation runs before any ownership check or write, so these tests need
// no database at all.

func TestRentCreatePaymentExceedsTotal(t *testing.T) {
	h := NewRentHandler(nil, nil, nil)
	c, rec := jsonReq(http.MethodPost, "/api/rent-tracking", `{
		"property_id": 5, "tenant_id": 7, "rent_month": "2026-08",
		"due_date": "2026-08-01", "payment_date": "2026-08-03",
		"total_amount": "7500", "payment_amount": "9000",
		"payment_method": "cash", "payment_details": {}
	}`)
	c.Set("account_id", uint64(3))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Payment amount cannot exceed total amount")
}

// Zero writes a zero-amount ledger record, so it is rejected with the
// negatives.
func TestRentCreateZeroAmountsRejected(t *testing.T) {
	h := NewRentHandler(nil, nil, nil)
	c, rec := jsonReq(http.MethodPost, "/api/rent-tracking", `{
		"property_id": 5, "tenant_id": 7, "rent_month": "2026-08",
		"due_date": "2026-08-01", "payment_date": "2026-08-03",
		"total_amount": "0", "payment_amount": "0",
		"payment_method": "cash", "payment_details": {}
	}`)
	c.Set("account_id", uint64(3))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "amounts must be positive")
}

func TestRentCreateInvalidMethod(t *testing.T) {
	h := NewRentHandler(nil, nil, nil)
	c, rec := jsonReq(http.MethodPost, "/api/rent-tracking", `{
		"property_id": 5, "tenant_id": 7, "rent_month": "2026-08",
		"due_date": "2026-08-01", "payment_date": "2026-08-03",
		"total_amount": "7500", "payment_amount": "7500",
		"payment_method": "bitcoin"
	}`)
	c.Set("account_id", uint64(3))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid payment_method")
}

func TestRentCreateBadMonthFormat(t *testing.T) {
	h := NewRentHandler(nil, nil, nil)
	c, rec := jsonReq(http.MethodPost, "/api/rent-tracking", `{
		"property_id": 5, "tenant_id": 7, "rent_month": "August 2026",
		"due_date": "2026-08-01", "payment_date": "2026-08-03",
		"total_amount": "7500", "payment_amount": "7500",
		"payment_method": "cash"
	}`)
	c.Set("account_id", uint64(3))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "rent_month must be YYYY-MM")
}

// The cheque method requires a cheque number in its detail object.
func TestRentCreateChequeDetailMissingNumber(t *testing.T) {
	h := NewRentHandler(nil, nil, nil)
	c, rec := jsonReq(http.MethodPost, "/api/rent-tracking", `{
		"property_id": 5, "tenant_id": 7, "rent_month": "2026-08",
		"due_date": "2026-08-01", "payment_date": "2026-08-03",
		"total_amount": "7500", "payment_amount": "7500",
		"payment_method": "cheque", "payment_details": {"bank_name": "Emirates NBD"}
	}`)
	c.Set("account_id", uint64(3))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid payment_details")
}

func TestParseDetailRejectsUnknownFields(t *testing.T) {
	_, msg := parseDetail("cash", []byte(`{"receipt_number":"R-1","surprise":true}`))
	assert.NotEmpty(t, msg)
}

func TestParseDetailPartial(t *testing.T) {
	d, msg := parseDetail("partial", []byte(`{"reason":"tenant shortfall","remaining_balance":"2500"}`))
	require.Empty(t, msg)
	require.NotNil(t, d.Partial)
	assert.Equal(t, "tenant shortfall", d.Partial.Reason)
	assert.Equal(t, "2500", d.Partial.RemainingBalance.String())
}

func TestParseDetailCashDefaultsEmptyObject(t *testing.T) {
	d, msg := parseDetail("cash", nil)
	require.Empty(t, msg)
	require.NotNil(t, d.Cash)
	assert.Nil(t, d.Cash.ReceiptNumber)
}
