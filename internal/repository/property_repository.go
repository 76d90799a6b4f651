package repository

import (
	"context"
	"database/sql"

	"github.com/yhajali/aqari-backend/internal/model"
)

// PropertyRepo persists properties. Every query is scoped by the owning
// account id; a row owned by another account is reported as ErrNotFound.
type PropertyRepo struct{ DB *sql.DB }

func NewPropertyRepo(db *sql.DB) *PropertyRepo { return &PropertyRepo{DB: db} }

const propertyCols = "id, account_id, name, address, type, bedrooms, bathrooms, area_sqm, monthly_rent, currency, status, electricity_number, water_number, created_at, updated_at"

func scanProperty(sc interface {
	Scan(dest ...any) error
}) (model.Property, error) {
	var p model.Property
	err := sc.Scan(&p.ID, &p.AccountID, &p.Name, &p.Address, &p.Type,
		&p.Bedrooms, &p.Bathrooms, &p.AreaSqm, &p.MonthlyRent, &p.Currency,
		&p.Status, &p.ElectricityNumber, &p.WaterNumber, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	return p, err
}

// Create inserts a property and populates the generated id.
func (r *PropertyRepo) Create(ctx context.Context, p *model.Property) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO properties (account_id, name, address, type, bedrooms, bathrooms, area_sqm, monthly_rent, currency, status, electricity_number, water_number)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.AccountID, p.Name, p.Address, p.Type, p.Bedrooms, p.Bathrooms,
		p.AreaSqm, p.MonthlyRent, p.Currency, p.Status, p.ElectricityNumber, p.WaterNumber)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByIDAndAccount fetches a property owned by the given account.
func (r *PropertyRepo) GetByIDAndAccount(ctx context.Context, id, accountID uint64) (model.Property, error) {
	return scanProperty(r.DB.QueryRowContext(ctx,
		"SELECT "+propertyCols+" FROM properties WHERE id=? AND account_id=? LIMIT 1",
		id, accountID))
}

// ListByAccount returns all properties of an account, newest first.
func (r *PropertyRepo) ListByAccount(ctx context.Context, accountID uint64) ([]model.Property, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+propertyCols+" FROM properties WHERE account_id=? ORDER BY id DESC", accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update rewrites every mutable column of a property owned by the account.
func (r *PropertyRepo) Update(ctx context.Context, p *model.Property) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE properties SET name=?, address=?, type=?, bedrooms=?, bathrooms=?, area_sqm=?, monthly_rent=?, currency=?, status=?, electricity_number=?, water_number=?
		 WHERE id=? AND account_id=?`,
		p.Name, p.Address, p.Type, p.Bedrooms, p.Bathrooms, p.AreaSqm,
		p.MonthlyRent, p.Currency, p.Status, p.ElectricityNumber, p.WaterNumber,
		p.ID, p.AccountID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 for both a missing row and an identical update;
		// re-check existence under the account scope.
		if _, err := r.GetByIDAndAccount(ctx, p.ID, p.AccountID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a property owned by the account.
func (r *PropertyRepo) Delete(ctx context.Context, id, accountID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM properties WHERE id=? AND account_id=?", id, accountID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindDuplicate reports whether the account already has a property with the
// same name and a matching electricity or water account number. Used by both
// the single-record create path and the bulk importer. excludeID skips the
// row being updated (0 on create).
func (r *PropertyRepo) FindDuplicate(ctx context.Context, accountID uint64, name string, electricity, water *string, excludeID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		`SELECT 1 FROM properties
		 WHERE account_id=? AND name=? AND id<>?
		   AND ((electricity_number IS NOT NULL AND electricity_number=?)
		     OR (water_number IS NOT NULL AND water_number=?))
		 LIMIT 1`,
		accountID, name, excludeID, electricity, water).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FindByName resolves a property by exact name within the account. The bulk
// importer references properties by name, not id.
func (r *PropertyRepo) FindByName(ctx context.Context, accountID uint64, name string) (model.Property, error) {
	return scanProperty(r.DB.QueryRowContext(ctx,
		"SELECT "+propertyCols+" FROM properties WHERE account_id=? AND name=? LIMIT 1",
		accountID, name))
}

// SetStatus updates only the occupancy status.
func (r *PropertyRepo) SetStatus(ctx context.Context, id, accountID uint64, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE properties SET status=? WHERE id=? AND account_id=?", status, id, accountID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByIDAndAccount(ctx, id, accountID); err != nil {
			return err
		}
	}
	return nil
}
