package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment methods accepted by the rent-tracking endpoint. Each method has a
// detail table holding its sub-record.
const (
	MethodCash    = "cash"
	MethodCheque  = "cheque"
	MethodOnline  = "online"
	MethodPartial = "partial"
)

// ValidPaymentMethod reports whether m is a supported payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case MethodCash, MethodCheque, MethodOnline, MethodPartial:
		return true
	}
	return false
}

// RentEntry is one monthly rent-payment event in the `rent_tracking` table,
// unique per (property, tenant, rent month). PaymentAmount never exceeds
// TotalAmount; the handler rejects violations before any write.
type RentEntry struct {
	ID            uint64          `json:"id"`
	AccountID     uint64          `json:"-"`
	PropertyID    uint64          `json:"property_id"`
	TenantID      uint64          `json:"tenant_id"`
	RentMonth     string          `json:"rent_month"` // YYYY-MM
	DueDate       string          `json:"due_date"`   // YYYY-MM-DD
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	PaymentAmount decimal.Decimal `json:"payment_amount"`
	PaymentDate   string          `json:"payment_date"` // YYYY-MM-DD
	CreatedAt     time.Time       `json:"created_at"`
}

// CashDetail is the sub-record for cash payments.
type CashDetail struct {
	ReceiptNumber *string `json:"receipt_number"`
	ReceivedBy    *string `json:"received_by"`
	Notes         *string `json:"notes"`
}

// ChequeDetail is the sub-record for cheque payments.
type ChequeDetail struct {
	ChequeNumber string  `json:"cheque_number"`
	BankName     *string `json:"bank_name"`
	ChequeDate   *string `json:"cheque_date"` // YYYY-MM-DD
}

// OnlineDetail is the sub-record for online transfers.
type OnlineDetail struct {
	TransactionRef string  `json:"transaction_ref"`
	BankName       *string `json:"bank_name"`
	TransferDate   *string `json:"transfer_date"` // YYYY-MM-DD
}

// PartialDetail is the sub-record for partial payments.
type PartialDetail struct {
	Reason           string          `json:"reason"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Notes            *string         `json:"notes"`
}
