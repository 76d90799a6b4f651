package model

import "time"

// Canonical maintenance states. Status is stored as free text because the
// update endpoint accepts any string; only delete checks for the literal
// completed value.
const (
	MaintenancePending    = "pending"
	MaintenanceInProgress = "in-progress"
	MaintenanceCompleted  = "completed"
)

// MaintenanceRequest represents a row in the `maintenance_requests` table.
// It belongs to a property and optionally a tenant; both references are
// ownership-checked on create.
type MaintenanceRequest struct {
	ID          uint64     `json:"id"`
	AccountID   uint64     `json:"-"`
	PropertyID  *uint64    `json:"property_id"`
	TenantID    *uint64    `json:"tenant_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
