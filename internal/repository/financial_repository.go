package repository

import (
	"context"
	"database/sql"

	"github.com/yhajali/aqari-backend/internal/model"
)

// FinancialRepo persists ledger entries.
type FinancialRepo struct{ DB *sql.DB }

func NewFinancialRepo(db *sql.DB) *FinancialRepo { return &FinancialRepo{DB: db} }

const financialCols = `id, account_id, property_id, tenant_id, record_type, amount, currency, description,
	DATE_FORMAT(transaction_date,'%Y-%m-%d'), created_at`

func scanFinancial(sc interface {
	Scan(dest ...any) error
}) (model.FinancialRecord, error) {
	var f model.FinancialRecord
	err := sc.Scan(&f.ID, &f.AccountID, &f.PropertyID, &f.TenantID, &f.RecordType,
		&f.Amount, &f.Currency, &f.Description, &f.TransactionDate, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return f, ErrNotFound
	}
	return f, err
}

// Create inserts a ledger entry and populates the generated id.
func (r *FinancialRepo) Create(ctx context.Context, f *model.FinancialRecord) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO financial_records (account_id, property_id, tenant_id, record_type, amount, currency, description, transaction_date)
		 VALUES (?,?,?,?,?,?,?,?)`,
		f.AccountID, f.PropertyID, f.TenantID, f.RecordType, f.Amount,
		f.Currency, f.Description, f.TransactionDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// ListByAccount returns all ledger entries of an account, newest first.
func (r *FinancialRepo) ListByAccount(ctx context.Context, accountID uint64) ([]model.FinancialRecord, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+financialCols+" FROM financial_records WHERE account_id=? ORDER BY transaction_date DESC, id DESC",
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.FinancialRecord{}
	for rows.Next() {
		f, err := scanFinancial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetByIDAndAccount fetches one ledger entry under the account scope.
func (r *FinancialRepo) GetByIDAndAccount(ctx context.Context, id, accountID uint64) (model.FinancialRecord, error) {
	return scanFinancial(r.DB.QueryRowContext(ctx,
		"SELECT "+financialCols+" FROM financial_records WHERE id=? AND account_id=? LIMIT 1",
		id, accountID))
}

// Update rewrites a ledger entry owned by the account.
func (r *FinancialRepo) Update(ctx context.Context, f *model.FinancialRecord) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE financial_records SET property_id=?, tenant_id=?, record_type=?, amount=?, currency=?, description=?, transaction_date=?
		 WHERE id=? AND account_id=?`,
		f.PropertyID, f.TenantID, f.RecordType, f.Amount, f.Currency,
		f.Description, f.TransactionDate, f.ID, f.AccountID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByIDAndAccount(ctx, f.ID, f.AccountID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a ledger entry owned by the account.
func (r *FinancialRepo) Delete(ctx context.Context, id, accountID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM financial_records WHERE id=? AND account_id=?", id, accountID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
