package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/yhajali/aqari-backend/internal/model"
)

// ShareRepo persists data-share tokens.
type ShareRepo struct{ DB *sql.DB }

func NewShareRepo(db *sql.DB) *ShareRepo { return &ShareRepo{DB: db} }

// Create inserts a share row and populates the generated id.
func (r *ShareRepo) Create(ctx context.Context, s *model.DataShare) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO data_shares (account_id, token, data_type, recipient_email, expires_at) VALUES (?,?,?,?,?)",
		s.AccountID, s.Token, s.DataType, s.RecipientEmail, s.ExpiresAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByToken resolves a token. An unknown token returns ErrNotFound; a known
// but expired one returns ErrShareExpired. Handlers render both identically
// so a caller cannot probe which tokens ever existed.
func (r *ShareRepo) GetByToken(ctx context.Context, token string) (model.DataShare, error) {
	var s model.DataShare
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, account_id, token, data_type, recipient_email, expires_at, created_at FROM data_shares WHERE token=? LIMIT 1",
		token).Scan(&s.ID, &s.AccountID, &s.Token, &s.DataType, &s.RecipientEmail, &s.ExpiresAt, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	if err != nil {
		return s, err
	}
	if time.Now().UTC().After(s.ExpiresAt) {
		return s, ErrShareExpired
	}
	return s, nil
}

// ListByAccount returns the account's share links, newest first.
func (r *ShareRepo) ListByAccount(ctx context.Context, accountID uint64) ([]model.DataShare, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, account_id, token, data_type, recipient_email, expires_at, created_at FROM data_shares WHERE account_id=? ORDER BY id DESC",
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.DataShare{}
	for rows.Next() {
		var s model.DataShare
		if err := rows.Scan(&s.ID, &s.AccountID, &s.Token, &s.DataType,
			&s.RecipientEmail, &s.ExpiresAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
