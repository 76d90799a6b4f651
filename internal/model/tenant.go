package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tenant lease states. A tenant flips to expired when its property is made
// vacant or when an admin/manager ends the lease.
const (
	TenantActive  = "active"
	TenantExpired = "expired"
)

// Free-month concession types. "first" binds to the lease-start month,
// "last" to the month before lease-end, "custom" to a caller-supplied month.
const (
	FreeMonthFirst  = "first"
	FreeMonthLast   = "last"
	FreeMonthCustom = "custom"
)

// Tenant represents a renter record in the `tenants` table. A tenant may be
// unassigned (PropertyID nil) while between properties. The cheque set is
// owned by the tenant and always replaced wholesale on update.
type Tenant struct {
	ID            uint64              `json:"id"`
	AccountID     uint64              `json:"-"`
	PropertyID    *uint64             `json:"property_id"`
	FullName      string              `json:"full_name"`
	Email         *string             `json:"email"`
	Phone         *string             `json:"phone"`
	IDNumber      *string             `json:"id_number"`
	LeaseStart    *string             `json:"lease_start"` // YYYY-MM-DD
	LeaseEnd      *string             `json:"lease_end"`   // YYYY-MM-DD
	MonthlyRent   decimal.NullDecimal `json:"monthly_rent"`
	Currency      string              `json:"currency"`
	Status        string              `json:"status"`
	FreeMonthType *string             `json:"free_month_type"`
	FreeMonth     *string             `json:"free_month"` // YYYY-MM
	Cheques       []Cheque            `json:"cheques,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// Cheque is a physical payment instrument belonging to a tenant. Dated
// cheques are scheduled rent payments; undated ones (IsSecurity) are held as
// security deposits. Ownership is transitive through the tenant.
type Cheque struct {
	ID           uint64          `json:"id"`
	TenantID     uint64          `json:"-"`
	ChequeNumber string          `json:"cheque_number"`
	BankName     *string         `json:"bank_name"`
	ChequeDate   *string         `json:"cheque_date"` // YYYY-MM-DD, nil for security cheques
	Amount       decimal.Decimal `json:"amount"`
	IsSecurity   bool            `json:"is_security"`
}
