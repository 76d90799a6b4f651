package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yhajali/aqari-backend/internal/model"
)

var propertyTestCols = []string{"id", "account_id", "name", "address", "type", "bedrooms",
	"bathrooms", "area_sqm", "monthly_rent", "currency", "status",
	"electricity_number", "water_number", "created_at", "updated_at"}

func TestPropertyGetScopesByAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM properties WHERE id=\\? AND account_id=\\?").
		WithArgs(uint64(5), uint64(3)).
		WillReturnRows(sqlmock.NewRows(propertyTestCols).
			AddRow(5, 3, "Marina Heights 1204", "Dubai Marina", "apartment", 2, 2,
				"118", "7500", "AED", "occupied", "200312456", nil, now, now))

	repo := NewPropertyRepo(db)
	p, err := repo.GetByIDAndAccount(context.Background(), 5, 3)
	require.NoError(t, err)
	assert.Equal(t, "Marina Heights 1204", p.Name)
	assert.Equal(t, model.PropertyOccupied, p.Status)
	require.NotNil(t, p.ElectricityNumber)
	assert.Equal(t, "200312456", *p.ElectricityNumber)
	assert.Nil(t, p.WaterNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A row owned by another account is indistinguishable from a missing row.
func TestPropertyGetForeignRowIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM properties WHERE id=\\? AND account_id=\\?").
		WithArgs(uint64(5), uint64(999)).
		WillReturnRows(sqlmock.NewRows(propertyTestCols))

	repo := NewPropertyRepo(db)
	_, err = repo.GetByIDAndAccount(context.Background(), 5, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyFindDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	elec := "200312456"
	mock.ExpectQuery("SELECT 1 FROM properties").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	repo := NewPropertyRepo(db)
	dup, err := repo.FindDuplicate(context.Background(), 3, "Marina Heights 1204", &elec, nil, 0)
	require.NoError(t, err)
	assert.True(t, dup)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyFindDuplicateNoMatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT 1 FROM properties").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	repo := NewPropertyRepo(db)
	dup, err := repo.FindDuplicate(context.Background(), 3, "Unknown Villa", nil, nil, 0)
	require.NoError(t, err)
	assert.False(t, dup)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM properties").
		WithArgs(uint64(99), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPropertyRepo(db)
	assert.ErrorIs(t, repo.Delete(context.Background(), 99, 3), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
