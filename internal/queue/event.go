// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// PaymentRecordedEvent is published after a rent payment and its ledger
// record are committed. It carries enough for downstream consumers to log
// or notify without querying the primary database. Amounts travel as
// decimal strings to avoid float drift in transit.
type PaymentRecordedEvent struct {
	EventID       string `json:"event_id"` // uuid, for consumer-side dedup
	AccountID     uint64 `json:"account_id"`
	PropertyID    uint64 `json:"property_id"`
	PropertyName  string `json:"property_name"`
	TenantID      uint64 `json:"tenant_id"`
	TenantName    string `json:"tenant_name"`
	RentMonth     string `json:"rent_month"`
	PaymentMethod string `json:"payment_method"`
	PaymentAmount string `json:"payment_amount"`
	TotalAmount   string `json:"total_amount"`
	Currency      string `json:"currency"`
	RecordedAt    string `json:"recorded_at"`
}
