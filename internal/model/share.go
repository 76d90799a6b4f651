package model

import "time"

// Data-share scopes. "all" exports every section; the others restrict the
// snapshot to one table.
const (
	ShareAll         = "all"
	ShareProperties  = "properties"
	ShareTenants     = "tenants"
	ShareMaintenance = "maintenance"
	ShareFinancial   = "financial"
)

// ValidShareScope reports whether s is a known share scope.
func ValidShareScope(s string) bool {
	switch s {
	case ShareAll, ShareProperties, ShareTenants, ShareMaintenance, ShareFinancial:
		return true
	}
	return false
}

// DataShare maps an opaque token to an owning account and a scope. The
// snapshot behind the token is read-only; recipients copy it into their own
// account through the import endpoint, never by mutating the source rows.
type DataShare struct {
	ID             uint64    `json:"id"`
	AccountID      uint64    `json:"-"`
	Token          string    `json:"token"`
	DataType       string    `json:"data_type"`
	RecipientEmail *string   `json:"recipient_email"`
	ExpiresAt      time.Time `json:"expires_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// ShareSnapshot is the scoped copy of an account's data returned by the
// public fetch-by-token endpoint.
type ShareSnapshot struct {
	DataType    string               `json:"data_type"`
	Properties  []Property           `json:"properties,omitempty"`
	Tenants     []Tenant             `json:"tenants,omitempty"`
	Maintenance []MaintenanceRequest `json:"maintenance,omitempty"`
	Financial   []FinancialRecord    `json:"financial,omitempty"`
}
