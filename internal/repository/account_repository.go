package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/yhajali/aqari-backend/internal/model"
)

// AccountRepo persists accounts and their lockout state.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

const accountCols = "id, username, email, password_hash, role, full_name, phone, failed_attempts, locked_until, expires_at, created_at, updated_at"

func scanAccount(row *sql.Row) (model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role,
		&a.FullName, &a.Phone, &a.FailedAttempts, &a.LockedUntil, &a.ExpiresAt,
		&a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	return a, err
}

// Create inserts a new manager account and returns its id. Duplicate
// username or email surfaces as ErrDuplicate.
func (r *AccountRepo) Create(ctx context.Context, username, email, passwordHash string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO accounts (username, email, password_hash, role) VALUES (?,?,?,?)",
		username, email, passwordHash, model.RoleManager)
	if err != nil {
		if strings.Contains(err.Error(), "1062") { // MySQL duplicate key
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches an account by its normalized username.
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (model.Account, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	return scanAccount(r.DB.QueryRowContext(ctx,
		"SELECT "+accountCols+" FROM accounts WHERE username=? LIMIT 1", username))
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	return scanAccount(r.DB.QueryRowContext(ctx,
		"SELECT "+accountCols+" FROM accounts WHERE id=? LIMIT 1", id))
}

// UpdateProfile sets the mutable contact fields of an account.
func (r *AccountRepo) UpdateProfile(ctx context.Context, id uint64, email string, fullName, phone *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE accounts SET email=?, full_name=?, phone=? WHERE id=?",
		email, fullName, phone, id)
	if err != nil && strings.Contains(err.Error(), "1062") {
		return ErrDuplicate
	}
	return err
}

// UpdatePassword replaces the stored hash.
func (r *AccountRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE accounts SET password_hash=? WHERE id=?", passwordHash, id)
	return err
}

// RecordFailedAttempt increments the failure counter and, once the counter
// reaches maxAttempts, starts a lockout window. It returns the new counter
// value so callers can report remaining attempts.
func (r *AccountRepo) RecordFailedAttempt(ctx context.Context, id uint64, maxAttempts int, cooldown time.Duration) (int, error) {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE accounts SET failed_attempts=failed_attempts+1 WHERE id=?", id); err != nil {
		return 0, err
	}
	var attempts int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT failed_attempts FROM accounts WHERE id=?", id).Scan(&attempts); err != nil {
		return 0, err
	}
	if attempts >= maxAttempts {
		until := time.Now().UTC().Add(cooldown)
		if _, err := r.DB.ExecContext(ctx,
			"UPDATE accounts SET locked_until=?, failed_attempts=0 WHERE id=?", until, id); err != nil {
			return attempts, err
		}
	}
	return attempts, nil
}

// ResetLockout clears the failure counter and any lockout window after a
// successful password confirmation.
func (r *AccountRepo) ResetLockout(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE accounts SET failed_attempts=0, locked_until=NULL WHERE id=?", id)
	return err
}

// List returns every account, newest first. Admin-only.
func (r *AccountRepo) List(ctx context.Context) ([]model.Account, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+accountCols+" FROM accounts ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role,
			&a.FullName, &a.Phone, &a.FailedAttempts, &a.LockedUntil, &a.ExpiresAt,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AdminUpdate edits the admin-visible fields of an account.
func (r *AccountRepo) AdminUpdate(ctx context.Context, id uint64, email, role string, fullName, phone *string, expiresAt *time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE accounts SET email=?, role=?, full_name=?, phone=?, expires_at=? WHERE id=?",
		email, role, fullName, phone, expiresAt, id)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrDuplicate
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish a missing row from a no-op edit
		var exists int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM accounts WHERE id=?", id).Scan(&exists); err == sql.ErrNoRows {
			return ErrNotFound
		}
	}
	return nil
}

// Delete removes an account row. The caller is responsible for resetting
// the account's domain data first; foreign keys will reject otherwise.
func (r *AccountRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM accounts WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
