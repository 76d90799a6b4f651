package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/yhajali/aqari-backend/internal/model"
)

// MaintenanceRepo persists maintenance requests.
type MaintenanceRepo struct{ DB *sql.DB }

func NewMaintenanceRepo(db *sql.DB) *MaintenanceRepo { return &MaintenanceRepo{DB: db} }

const maintenanceCols = "id, account_id, property_id, tenant_id, title, description, priority, status, completed_at, created_at, updated_at"

func scanMaintenance(sc interface {
	Scan(dest ...any) error
}) (model.MaintenanceRequest, error) {
	var m model.MaintenanceRequest
	err := sc.Scan(&m.ID, &m.AccountID, &m.PropertyID, &m.TenantID, &m.Title,
		&m.Description, &m.Priority, &m.Status, &m.CompletedAt, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return m, ErrNotFound
	}
	return m, err
}

// Create inserts a maintenance request and populates the generated id.
func (r *MaintenanceRepo) Create(ctx context.Context, m *model.MaintenanceRequest) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO maintenance_requests (account_id, property_id, tenant_id, title, description, priority, status)
		 VALUES (?,?,?,?,?,?,?)`,
		m.AccountID, m.PropertyID, m.TenantID, m.Title, m.Description, m.Priority, m.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// ListByAccount returns all requests of an account, newest first.
func (r *MaintenanceRepo) ListByAccount(ctx context.Context, accountID uint64) ([]model.MaintenanceRequest, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+maintenanceCols+" FROM maintenance_requests WHERE account_id=? ORDER BY id DESC", accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.MaintenanceRequest{}
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetByIDAndAccount fetches one request under the account scope.
func (r *MaintenanceRepo) GetByIDAndAccount(ctx context.Context, id, accountID uint64) (model.MaintenanceRequest, error) {
	return scanMaintenance(r.DB.QueryRowContext(ctx,
		"SELECT "+maintenanceCols+" FROM maintenance_requests WHERE id=? AND account_id=? LIMIT 1",
		id, accountID))
}

// Update sets status, priority, description and title. Status is stored as
// given; when it equals the completed literal a completion timestamp is
// stamped, otherwise the timestamp is cleared.
func (r *MaintenanceRepo) Update(ctx context.Context, m *model.MaintenanceRequest) error {
	var completedAt *time.Time
	if m.Status == model.MaintenanceCompleted {
		now := time.Now().UTC()
		if m.CompletedAt != nil {
			completedAt = m.CompletedAt
		} else {
			completedAt = &now
		}
	}
	m.CompletedAt = completedAt
	res, err := r.DB.ExecContext(ctx,
		`UPDATE maintenance_requests SET title=?, description=?, priority=?, status=?, completed_at=?
		 WHERE id=? AND account_id=?`,
		m.Title, m.Description, m.Priority, m.Status, completedAt, m.ID, m.AccountID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByIDAndAccount(ctx, m.ID, m.AccountID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a request, but only when it has reached completed status.
// Any other status returns ErrNotCompleted so the handler can answer with a
// specific business error rather than a not-found.
func (r *MaintenanceRepo) Delete(ctx context.Context, id, accountID uint64) error {
	var status string
	err := r.DB.QueryRowContext(ctx,
		"SELECT status FROM maintenance_requests WHERE id=? AND account_id=? LIMIT 1",
		id, accountID).Scan(&status)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if status != model.MaintenanceCompleted {
		return ErrNotCompleted
	}
	_, err = r.DB.ExecContext(ctx,
		"DELETE FROM maintenance_requests WHERE id=? AND account_id=?", id, accountID)
	return err
}
