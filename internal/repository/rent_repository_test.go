package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yhajali/aqari-backend/internal/model"
)

func rentEntryFixture() *model.RentEntry {
	return &model.RentEntry{
		AccountID:     3,
		PropertyID:    5,
		TenantID:      7,
		RentMonth:     "2026-08",
		DueDate:       "2026-08-01",
		TotalAmount:   decimal.NewFromInt(7500),
		PaymentMethod: model.MethodCash,
		PaymentAmount: decimal.NewFromInt(7500),
		PaymentDate:   "2026-08-03",
	}
}

func ledgerFixture() *model.FinancialRecord {
	desc := "Rent payment for 2026-08"
	pid, tid := uint64(5), uint64(7)
	return &model.FinancialRecord{
		AccountID:       3,
		PropertyID:      &pid,
		TenantID:        &tid,
		RecordType:      model.RecordRent,
		Amount:          decimal.NewFromInt(7500),
		Currency:        "AED",
		Description:     &desc,
		TransactionDate: "2026-08-03",
	}
}

func TestCreatePaymentWritesEntryDetailAndLedgerAtomically(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO rent_tracking").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("INSERT INTO rent_cash_details").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO financial_records").
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectCommit()

	repo := NewRentRepo(db)
	entry := rentEntryFixture()
	ledger := ledgerFixture()
	detail := PaymentDetail{Cash: &model.CashDetail{ReceiptNumber: strPtr("R-100")}}

	require.NoError(t, repo.CreatePayment(context.Background(), entry, detail, ledger))
	assert.Equal(t, uint64(11), entry.ID)
	assert.Equal(t, uint64(21), ledger.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePaymentDuplicateMonth(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO rent_tracking").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry"))
	mock.ExpectRollback()

	repo := NewRentRepo(db)
	err = repo.CreatePayment(context.Background(), rentEntryFixture(),
		PaymentDetail{Cash: &model.CashDetail{}}, ledgerFixture())
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePaymentRollsBackWhenLedgerInsertFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO rent_tracking").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("INSERT INTO rent_cash_details").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO financial_records").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	repo := NewRentRepo(db)
	err = repo.CreatePayment(context.Background(), rentEntryFixture(),
		PaymentDetail{Cash: &model.CashDetail{}}, ledgerFixture())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePaymentMissingDetail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO rent_tracking").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectRollback()

	repo := NewRentRepo(db)
	entry := rentEntryFixture()
	entry.PaymentMethod = model.MethodCheque

	err = repo.CreatePayment(context.Background(), entry, PaymentDetail{}, ledgerFixture())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentListByAccountFiltersByMonth(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"id", "account_id", "property_id", "tenant_id", "rent_month",
		"due_date", "total_amount", "payment_method", "payment_amount", "payment_date", "created_at"}
	mock.ExpectQuery("SELECT (.+) FROM rent_tracking WHERE account_id=\\? AND rent_month=\\?").
		WithArgs(uint64(3), "2026-08").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(11, 3, 5, 7, "2026-08", "2026-08-01", "7500", "cash", "7500", "2026-08-03", time.Now()))

	repo := NewRentRepo(db)
	out, err := repo.ListByAccount(context.Background(), 3, "2026-08")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "2026-08", out[0].RentMonth)
	assert.Equal(t, model.MethodCash, out[0].PaymentMethod)
	assert.NoError(t, mock.ExpectationsWereMet())
}
