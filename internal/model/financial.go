package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Well-known ledger record types. The column is free text, so callers may
// record other categories; these two are produced by the rent-tracking path.
const (
	RecordRent        = "rent"
	RecordPartialRent = "partial_rent"
)

// FinancialRecord is one ledger entry in the `financial_records` table.
// Amounts are always positive; direction is carried by the record type.
type FinancialRecord struct {
	ID              uint64          `json:"id"`
	AccountID       uint64          `json:"-"`
	PropertyID      *uint64         `json:"property_id"`
	TenantID        *uint64         `json:"tenant_id"`
	RecordType      string          `json:"record_type"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Description     *string         `json:"description"`
	TransactionDate string          `json:"transaction_date"` // YYYY-MM-DD
	CreatedAt       time.Time       `json:"created_at"`
}
