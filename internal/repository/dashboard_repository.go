package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/yhajali/aqari-backend/internal/model"
)

// DashboardRepo computes the per-account dashboard aggregation. "Current
// month" is supplied by the handler from wall-clock UTC at request time;
// there is no stored billing cycle.
type DashboardRepo struct{ DB *sql.DB }

func NewDashboardRepo(db *sql.DB) *DashboardRepo { return &DashboardRepo{DB: db} }

// RentStatusRow is one occupied property with an active tenant, classified
// as pending (no entry for the month) or paid (joined with the entry).
type RentStatusRow struct {
	PropertyID    uint64              `json:"property_id"`
	PropertyName  string              `json:"property_name"`
	TenantID      uint64              `json:"tenant_id"`
	TenantName    string              `json:"tenant_name"`
	MonthlyRent   decimal.NullDecimal `json:"monthly_rent"`
	Currency      string              `json:"currency"`
	PaymentMethod *string             `json:"payment_method,omitempty"`
	PaymentDate   *string             `json:"payment_date,omitempty"`
	PaymentAmount decimal.NullDecimal `json:"payment_amount,omitempty"`
}

// Summary is the dashboard payload.
type Summary struct {
	Month                 string           `json:"month"`
	TotalProperties       int              `json:"total_properties"`
	OccupiedProperties    int              `json:"occupied_properties"`
	VacantProperties      int              `json:"vacant_properties"`
	MaintenanceProperties int              `json:"maintenance_properties"`
	ActiveTenants         int              `json:"active_tenants"`
	PendingMaintenance    int              `json:"pending_maintenance"`
	PendingRent           []RentStatusRow  `json:"pending_rent"`
	PaidRent              []RentStatusRow  `json:"paid_rent"`
	VacantList            []model.Property `json:"vacant_list"`
}

// Summarize runs the aggregation queries for one account and month. Queries
// run sequentially on purpose; the per-request serial model keeps error
// attribution deterministic.
func (r *DashboardRepo) Summarize(ctx context.Context, accountID uint64, month string) (Summary, error) {
	s := Summary{Month: month}

	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(status='occupied'),0),
		        COALESCE(SUM(status='vacant'),0),
		        COALESCE(SUM(status='maintenance'),0)
		 FROM properties WHERE account_id=?`, accountID).
		Scan(&s.TotalProperties, &s.OccupiedProperties, &s.VacantProperties, &s.MaintenanceProperties)
	if err != nil {
		return s, err
	}

	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tenants WHERE account_id=? AND status='active'",
		accountID).Scan(&s.ActiveTenants); err != nil {
		return s, err
	}

	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM maintenance_requests WHERE account_id=? AND status='pending'",
		accountID).Scan(&s.PendingMaintenance); err != nil {
		return s, err
	}

	s.PendingRent, err = r.rentStatus(ctx, accountID, month, false)
	if err != nil {
		return s, err
	}
	s.PaidRent, err = r.rentStatus(ctx, accountID, month, true)
	if err != nil {
		return s, err
	}

	s.VacantList, err = r.vacantProperties(ctx, accountID)
	return s, err
}

// rentStatus lists occupied properties with an active tenant, either with a
// rent entry for the month (paid=true, joined for method/date/amount) or
// without one (paid=false).
func (r *DashboardRepo) rentStatus(ctx context.Context, accountID uint64, month string, paid bool) ([]RentStatusRow, error) {
	var query string
	if paid {
		query = `SELECT p.id, p.name, t.id, t.full_name, t.monthly_rent, t.currency,
		                rt.payment_method, DATE_FORMAT(rt.payment_date,'%Y-%m-%d'), rt.payment_amount
		         FROM properties p
		         JOIN tenants t ON t.property_id = p.id AND t.status = 'active'
		         JOIN rent_tracking rt ON rt.property_id = p.id AND rt.tenant_id = t.id AND rt.rent_month = ?
		         WHERE p.account_id = ? AND p.status = 'occupied'
		         ORDER BY p.id`
	} else {
		query = `SELECT p.id, p.name, t.id, t.full_name, t.monthly_rent, t.currency
		         FROM properties p
		         JOIN tenants t ON t.property_id = p.id AND t.status = 'active'
		         LEFT JOIN rent_tracking rt ON rt.property_id = p.id AND rt.tenant_id = t.id AND rt.rent_month = ?
		         WHERE p.account_id = ? AND p.status = 'occupied' AND rt.id IS NULL
		         ORDER BY p.id`
	}

	rows, err := r.DB.QueryContext(ctx, query, month, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RentStatusRow{}
	for rows.Next() {
		var row RentStatusRow
		if paid {
			err = rows.Scan(&row.PropertyID, &row.PropertyName, &row.TenantID, &row.TenantName,
				&row.MonthlyRent, &row.Currency, &row.PaymentMethod, &row.PaymentDate, &row.PaymentAmount)
		} else {
			err = rows.Scan(&row.PropertyID, &row.PropertyName, &row.TenantID, &row.TenantName,
				&row.MonthlyRent, &row.Currency)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *DashboardRepo) vacantProperties(ctx context.Context, accountID uint64) ([]model.Property, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+propertyCols+" FROM properties WHERE account_id=? AND status='vacant' ORDER BY id",
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
