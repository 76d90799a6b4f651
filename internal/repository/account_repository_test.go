package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yhajali/aqari-backend/internal/model"
)

func TestAccountCreateDuplicateUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO accounts").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'yusuf' for key 'username'"))

	repo := NewAccountRepo(db)
	_, err = repo.Create(context.Background(), "yusuf", "y@example.com", "hash")
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountCreateReturnsInsertID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs("yusuf", "y@example.com", "hash", model.RoleManager).
		WillReturnResult(sqlmock.NewResult(9, 1))

	repo := NewAccountRepo(db)
	id, err := repo.Create(context.Background(), "yusuf", "y@example.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordFailedAttemptBelowThreshold(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE accounts SET failed_attempts=failed_attempts\\+1").
		WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT failed_attempts FROM accounts").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"failed_attempts"}).AddRow(2))

	repo := NewAccountRepo(db)
	attempts, err := repo.RecordFailedAttempt(context.Background(), 9, 5, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Reaching the threshold opens a lockout window and resets the counter.
func TestRecordFailedAttemptLocksAtThreshold(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE accounts SET failed_attempts=failed_attempts\\+1").
		WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT failed_attempts FROM accounts").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"failed_attempts"}).AddRow(5))
	mock.ExpectExec("UPDATE accounts SET locked_until=\\?, failed_attempts=0").
		WithArgs(sqlmock.AnyArg(), uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewAccountRepo(db)
	attempts, err := repo.RecordFailedAttempt(context.Background(), 9, 5, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 5, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountGetByUsernameNormalizes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	cols := []string{"id", "username", "email", "password_hash", "role", "full_name", "phone",
		"failed_attempts", "locked_until", "expires_at", "created_at", "updated_at"}
	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE username=\\?").
		WithArgs("yusuf").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(9, "yusuf", "y@example.com", "hash", "manager", nil, nil, 0, nil, nil, now, now))

	repo := NewAccountRepo(db)
	acc, err := repo.GetByUsername(context.Background(), "  Yusuf ")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), acc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
