package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/yhajali/aqari-backend/internal/model"
)

// RentRepo persists monthly rent-payment events. The entry, its
// method-specific detail row and the correlated ledger record are written in
// a single transaction: a rent payment without its ledger record (or the
// reverse) must never be observable.
type RentRepo struct{ DB *sql.DB }

func NewRentRepo(db *sql.DB) *RentRepo { return &RentRepo{DB: db} }

const rentCols = `id, account_id, property_id, tenant_id, rent_month,
	DATE_FORMAT(due_date,'%Y-%m-%d'), total_amount, payment_method, payment_amount,
	DATE_FORMAT(payment_date,'%Y-%m-%d'), created_at`

func scanRent(sc interface {
	Scan(dest ...any) error
}) (model.RentEntry, error) {
	var e model.RentEntry
	err := sc.Scan(&e.ID, &e.AccountID, &e.PropertyID, &e.TenantID, &e.RentMonth,
		&e.DueDate, &e.TotalAmount, &e.PaymentMethod, &e.PaymentAmount,
		&e.PaymentDate, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return e, ErrNotFound
	}
	return e, err
}

// PaymentDetail is the method-specific sub-record accompanying a rent entry.
// Exactly one of the fields is set, matching the entry's payment method.
type PaymentDetail struct {
	Cash    *model.CashDetail
	Cheque  *model.ChequeDetail
	Online  *model.OnlineDetail
	Partial *model.PartialDetail
}

// CreatePayment inserts the rent entry, its detail row and the correlated
// financial record in one transaction. The ledger record's id is populated
// alongside the entry's. A duplicate (property, tenant, month) surfaces as
// ErrDuplicate.
func (r *RentRepo) CreatePayment(ctx context.Context, e *model.RentEntry, d PaymentDetail, ledger *model.FinancialRecord) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO rent_tracking (account_id, property_id, tenant_id, rent_month, due_date, total_amount, payment_method, payment_amount, payment_date)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		e.AccountID, e.PropertyID, e.TenantID, e.RentMonth, e.DueDate,
		e.TotalAmount, e.PaymentMethod, e.PaymentAmount, e.PaymentDate)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)

	if err := insertDetailTx(ctx, tx, e.ID, e.PaymentMethod, d); err != nil {
		return err
	}

	res, err = tx.ExecContext(ctx,
		`INSERT INTO financial_records (account_id, property_id, tenant_id, record_type, amount, currency, description, transaction_date)
		 VALUES (?,?,?,?,?,?,?,?)`,
		ledger.AccountID, ledger.PropertyID, ledger.TenantID, ledger.RecordType,
		ledger.Amount, ledger.Currency, ledger.Description, ledger.TransactionDate)
	if err != nil {
		return err
	}
	lid, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ledger.ID = uint64(lid)

	return tx.Commit()
}

func insertDetailTx(ctx context.Context, tx *sql.Tx, rentID uint64, method string, d PaymentDetail) error {
	switch method {
	case model.MethodCash:
		if d.Cash == nil {
			return fmt.Errorf("missing cash detail")
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO rent_cash_details (rent_id, receipt_number, received_by, notes) VALUES (?,?,?,?)",
			rentID, d.Cash.ReceiptNumber, d.Cash.ReceivedBy, d.Cash.Notes)
		return err
	case model.MethodCheque:
		if d.Cheque == nil {
			return fmt.Errorf("missing cheque detail")
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO rent_cheque_details (rent_id, cheque_number, bank_name, cheque_date) VALUES (?,?,?,?)",
			rentID, d.Cheque.ChequeNumber, d.Cheque.BankName, d.Cheque.ChequeDate)
		return err
	case model.MethodOnline:
		if d.Online == nil {
			return fmt.Errorf("missing online detail")
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO rent_online_details (rent_id, transaction_ref, bank_name, transfer_date) VALUES (?,?,?,?)",
			rentID, d.Online.TransactionRef, d.Online.BankName, d.Online.TransferDate)
		return err
	case model.MethodPartial:
		if d.Partial == nil {
			return fmt.Errorf("missing partial detail")
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO rent_partial_details (rent_id, reason, remaining_balance, notes) VALUES (?,?,?,?)",
			rentID, d.Partial.Reason, d.Partial.RemainingBalance, d.Partial.Notes)
		return err
	}
	return fmt.Errorf("unknown payment method %q", method)
}

// ListByAccount returns rent entries of an account, optionally filtered to
// one month, newest first.
func (r *RentRepo) ListByAccount(ctx context.Context, accountID uint64, month string) ([]model.RentEntry, error) {
	query := "SELECT " + rentCols + " FROM rent_tracking WHERE account_id=?"
	args := []any{accountID}
	if month != "" {
		query += " AND rent_month=?"
		args = append(args, month)
	}
	query += " ORDER BY id DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.RentEntry{}
	for rows.Next() {
		e, err := scanRent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetByIDAndAccount fetches one rent entry under the account scope.
func (r *RentRepo) GetByIDAndAccount(ctx context.Context, id, accountID uint64) (model.RentEntry, error) {
	return scanRent(r.DB.QueryRowContext(ctx,
		"SELECT "+rentCols+" FROM rent_tracking WHERE id=? AND account_id=? LIMIT 1",
		id, accountID))
}

// UpdatePayment rewrites the payment fields of an existing entry. Detail
// rows are not touched; changing the method of a recorded payment is not
// supported.
func (r *RentRepo) UpdatePayment(ctx context.Context, e *model.RentEntry) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE rent_tracking SET due_date=?, total_amount=?, payment_amount=?, payment_date=?
		 WHERE id=? AND account_id=?`,
		e.DueDate, e.TotalAmount, e.PaymentAmount, e.PaymentDate, e.ID, e.AccountID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByIDAndAccount(ctx, e.ID, e.AccountID); err != nil {
			return err
		}
	}
	return nil
}
