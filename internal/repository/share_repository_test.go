package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shareCols = []string{"id", "account_id", "token", "data_type", "recipient_email", "expires_at", "created_at"}

func TestShareGetByTokenUnknown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM data_shares WHERE token=\\?").
		WithArgs("nosuchtoken").
		WillReturnRows(sqlmock.NewRows(shareCols))

	repo := NewShareRepo(db)
	_, err = repo.GetByToken(context.Background(), "nosuchtoken")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShareGetByTokenExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	past := time.Now().UTC().Add(-time.Hour)
	mock.ExpectQuery("SELECT (.+) FROM data_shares WHERE token=\\?").
		WithArgs("oldtoken").
		WillReturnRows(sqlmock.NewRows(shareCols).
			AddRow(1, 3, "oldtoken", "all", nil, past, past.Add(-24*time.Hour)))

	repo := NewShareRepo(db)
	_, err = repo.GetByToken(context.Background(), "oldtoken")
	assert.ErrorIs(t, err, ErrShareExpired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShareGetByTokenLive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	future := time.Now().UTC().Add(24 * time.Hour)
	mock.ExpectQuery("SELECT (.+) FROM data_shares WHERE token=\\?").
		WithArgs("livetoken").
		WillReturnRows(sqlmock.NewRows(shareCols).
			AddRow(1, 3, "livetoken", "properties", nil, future, time.Now()))

	repo := NewShareRepo(db)
	s, err := repo.GetByToken(context.Background(), "livetoken")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), s.AccountID)
	assert.Equal(t, "properties", s.DataType)
	assert.NoError(t, mock.ExpectationsWereMet())
}
