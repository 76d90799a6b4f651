package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// AdminRepo implements the cross-account control plane: statistics and the
// two destructive resets. Resets touch domain tables only, never accounts.
type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

// SystemStats is the admin dashboard payload.
type SystemStats struct {
	Accounts         int `json:"accounts"`
	AdminAccounts    int `json:"admin_accounts"`
	Properties       int `json:"properties"`
	Tenants          int `json:"tenants"`
	Cheques          int `json:"cheques"`
	Maintenance      int `json:"maintenance_requests"`
	FinancialRecords int `json:"financial_records"`
	RentEntries      int `json:"rent_entries"`
	DataShares       int `json:"data_shares"`
}

// Stats counts rows across every account.
func (r *AdminRepo) Stats(ctx context.Context) (SystemStats, error) {
	var s SystemStats
	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM accounts", &s.Accounts},
		{"SELECT COUNT(*) FROM accounts WHERE role='admin'", &s.AdminAccounts},
		{"SELECT COUNT(*) FROM properties", &s.Properties},
		{"SELECT COUNT(*) FROM tenants", &s.Tenants},
		{"SELECT COUNT(*) FROM cheques", &s.Cheques},
		{"SELECT COUNT(*) FROM maintenance_requests", &s.Maintenance},
		{"SELECT COUNT(*) FROM financial_records", &s.FinancialRecords},
		{"SELECT COUNT(*) FROM rent_tracking", &s.RentEntries},
		{"SELECT COUNT(*) FROM data_shares", &s.DataShares},
	}
	for _, c := range counts {
		if err := r.DB.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return s, err
		}
	}
	return s, nil
}

// domainTables lists the per-account tables in foreign-key-safe delete
// order. Cheques and rent detail rows cascade from their parents.
var domainTables = []string{
	"rent_tracking",
	"financial_records",
	"maintenance_requests",
	"tenants",
	"properties",
	"data_shares",
}

// ResetAccountData deletes one account's rows from every domain table in a
// single transaction. The account row itself is untouched.
func (r *AdminRepo) ResetAccountData(ctx context.Context, accountID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range domainTables {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE account_id=?", table), accountID); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// ResetAllData deletes every account's rows from every domain table in a
// single transaction. Accounts survive; only their data is destroyed.
func (r *AdminRepo) ResetAllData(ctx context.Context) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range domainTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return tx.Commit()
}
