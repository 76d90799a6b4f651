package repository

import (
	"context"
	"database/sql"

	"github.com/yhajali/aqari-backend/internal/model"
)

// TenantRepo persists tenants and their cheque collections. Cheques have no
// repository of their own: they are owned transitively through the tenant
// and always written as a full replacement inside the tenant's transaction.
type TenantRepo struct{ DB *sql.DB }

func NewTenantRepo(db *sql.DB) *TenantRepo { return &TenantRepo{DB: db} }

const tenantCols = `id, account_id, property_id, full_name, email, phone, id_number,
	DATE_FORMAT(lease_start,'%Y-%m-%d'), DATE_FORMAT(lease_end,'%Y-%m-%d'),
	monthly_rent, currency, status, free_month_type, free_month, created_at, updated_at`

func scanTenant(sc interface {
	Scan(dest ...any) error
}) (model.Tenant, error) {
	var t model.Tenant
	err := sc.Scan(&t.ID, &t.AccountID, &t.PropertyID, &t.FullName, &t.Email,
		&t.Phone, &t.IDNumber, &t.LeaseStart, &t.LeaseEnd, &t.MonthlyRent,
		&t.Currency, &t.Status, &t.FreeMonthType, &t.FreeMonth, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	}
	return t, err
}

// Create inserts a tenant and its cheque list in one transaction.
func (r *TenantRepo) Create(ctx context.Context, t *model.Tenant) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO tenants (account_id, property_id, full_name, email, phone, id_number, lease_start, lease_end, monthly_rent, currency, status, free_month_type, free_month)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		t.AccountID, t.PropertyID, t.FullName, t.Email, t.Phone, t.IDNumber,
		t.LeaseStart, t.LeaseEnd, t.MonthlyRent, t.Currency, t.Status,
		t.FreeMonthType, t.FreeMonth)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)

	if err := insertChequesTx(ctx, tx, t.ID, t.Cheques); err != nil {
		return err
	}
	return tx.Commit()
}

// Update rewrites the tenant row and replaces its entire cheque set
// (delete-all plus bulk insert) in one transaction, so a partial failure can
// never leave the tenant with a cheque count different from the submitted
// list.
func (r *TenantRepo) Update(ctx context.Context, t *model.Tenant) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE tenants SET property_id=?, full_name=?, email=?, phone=?, id_number=?, lease_start=?, lease_end=?, monthly_rent=?, currency=?, status=?, free_month_type=?, free_month=?
		 WHERE id=? AND account_id=?`,
		t.PropertyID, t.FullName, t.Email, t.Phone, t.IDNumber,
		t.LeaseStart, t.LeaseEnd, t.MonthlyRent, t.Currency, t.Status,
		t.FreeMonthType, t.FreeMonth, t.ID, t.AccountID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := tx.QueryRowContext(ctx,
			"SELECT 1 FROM tenants WHERE id=? AND account_id=?", t.ID, t.AccountID).Scan(&one); err == sql.ErrNoRows {
			return ErrNotFound
		} else if err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM cheques WHERE tenant_id=?", t.ID); err != nil {
		return err
	}
	if err := insertChequesTx(ctx, tx, t.ID, t.Cheques); err != nil {
		return err
	}
	return tx.Commit()
}

// insertChequesTx bulk-inserts the cheque list with a single multi-VALUES
// statement. An empty list is a no-op.
func insertChequesTx(ctx context.Context, tx *sql.Tx, tenantID uint64, cheques []model.Cheque) error {
	if len(cheques) == 0 {
		return nil
	}
	query := "INSERT INTO cheques (tenant_id, cheque_number, bank_name, cheque_date, amount, is_security) VALUES "
	args := make([]any, 0, len(cheques)*6)
	for i, c := range cheques {
		if i > 0 {
			query += ","
		}
		query += "(?,?,?,?,?,?)"
		args = append(args, tenantID, c.ChequeNumber, c.BankName, c.ChequeDate, c.Amount, c.IsSecurity)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByIDAndAccount fetches a tenant with its cheques.
func (r *TenantRepo) GetByIDAndAccount(ctx context.Context, id, accountID uint64) (model.Tenant, error) {
	t, err := scanTenant(r.DB.QueryRowContext(ctx,
		"SELECT "+tenantCols+" FROM tenants WHERE id=? AND account_id=? LIMIT 1", id, accountID))
	if err != nil {
		return t, err
	}
	t.Cheques, err = r.chequesByTenant(ctx, t.ID)
	return t, err
}

// ListByAccount returns all tenants of an account, without cheque lists.
func (r *TenantRepo) ListByAccount(ctx context.Context, accountID uint64) ([]model.Tenant, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+tenantCols+" FROM tenants WHERE account_id=? ORDER BY id DESC", accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Tenant{}
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TenantRepo) chequesByTenant(ctx context.Context, tenantID uint64) ([]model.Cheque, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, tenant_id, cheque_number, bank_name, DATE_FORMAT(cheque_date,'%Y-%m-%d'), amount, is_security
		 FROM cheques WHERE tenant_id=? ORDER BY id`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Cheque{}
	for rows.Next() {
		var c model.Cheque
		if err := rows.Scan(&c.ID, &c.TenantID, &c.ChequeNumber, &c.BankName,
			&c.ChequeDate, &c.Amount, &c.IsSecurity); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes a tenant; its cheques cascade.
func (r *TenantRepo) Delete(ctx context.Context, id, accountID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM tenants WHERE id=? AND account_id=?", id, accountID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ExpireForProperty flips every tenant referencing the property to expired.
// Triggered by the property update path when the status is explicitly set
// to vacant.
func (r *TenantRepo) ExpireForProperty(ctx context.Context, propertyID, accountID uint64) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE tenants SET status=? WHERE property_id=? AND account_id=?",
		model.TenantExpired, propertyID, accountID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
