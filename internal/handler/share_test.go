package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yhajali/aqari-backend/internal/repository"
)

var shareTestCols = []string{"id", "account_id", "token", "data_type", "recipient_email", "expires_at", "created_at"}

// Unknown and expired tokens produce the same public answer.
func TestShareFetchUnknownToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM data_shares WHERE token=\\?").
		WithArgs("nosuchtoken").
		WillReturnRows(sqlmock.NewRows(shareTestCols))

	h := NewShareHandler(testCfg, repository.NewShareRepo(db), nil, nil, nil, nil)
	c, rec := jsonReq(http.MethodGet, "/api/shared-data/nosuchtoken", "")
	c.SetParamNames("token")
	c.SetParamValues("nosuchtoken")

	require.NoError(t, h.Fetch(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Share not found or expired")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShareFetchExpiredToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	past := time.Now().UTC().Add(-time.Hour)
	mock.ExpectQuery("SELECT (.+) FROM data_shares WHERE token=\\?").
		WithArgs("oldtoken").
		WillReturnRows(sqlmock.NewRows(shareTestCols).
			AddRow(1, 3, "oldtoken", "all", nil, past, past.Add(-time.Hour)))

	h := NewShareHandler(testCfg, repository.NewShareRepo(db), nil, nil, nil, nil)
	c, rec := jsonReq(http.MethodGet, "/api/shared-data/oldtoken", "")
	c.SetParamNames("token")
	c.SetParamValues("oldtoken")

	require.NoError(t, h.Fetch(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Share not found or expired")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShareCreateInvalidScope(t *testing.T) {
	h := NewShareHandler(testCfg, nil, nil, nil, nil, nil)
	c, rec := jsonReq(http.MethodPost, "/api/share-data", `{"data_type":"everything"}`)
	c.Set("account_id", uint64(3))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid data_type")
}

func TestShareImportOwnShareRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	future := time.Now().UTC().Add(24 * time.Hour)
	mock.ExpectQuery("SELECT (.+) FROM data_shares WHERE token=\\?").
		WithArgs("mytoken").
		WillReturnRows(sqlmock.NewRows(shareTestCols).
			AddRow(1, 3, "mytoken", "all", nil, future, time.Now()))

	h := NewShareHandler(testCfg, repository.NewShareRepo(db), nil, nil, nil, nil)
	c, rec := jsonReq(http.MethodPost, "/api/import-shared-data", `{"token":"mytoken"}`)
	c.Set("account_id", uint64(3))

	require.NoError(t, h.Import(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot import your own share")
	assert.NoError(t, mock.ExpectationsWereMet())
}
