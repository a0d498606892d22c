package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/synco-dev/booking-admin-api/internal/models"
)

const discountColumns = "id, type, code, value_type, value, apply_once_per_order, limit_total_uses, limit_per_customer, start_datetime, end_datetime, created_at, updated_at"

// DiscountRepository manages discounts and their application targets.
type DiscountRepository struct {
	db *sqlx.DB
}

// NewDiscountRepository constructs a DiscountRepository.
func NewDiscountRepository(db *sqlx.DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

// List returns all discounts ordered by primary key.
func (r *DiscountRepository) List(ctx context.Context) ([]models.Discount, error) {
	query := fmt.Sprintf("SELECT %s FROM discounts ORDER BY id ASC", discountColumns)
	var discounts []models.Discount
	if err := r.db.SelectContext(ctx, &discounts, query); err != nil {
		return nil, fmt.Errorf("list discounts: %w", err)
	}
	return discounts, nil
}

// FindByID fetches a discount by ID.
func (r *DiscountRepository) FindByID(ctx context.Context, id int64) (*models.Discount, error) {
	query := fmt.Sprintf("SELECT %s FROM discounts WHERE id = $1", discountColumns)
	var discount models.Discount
	if err := r.db.GetContext(ctx, &discount, query, id); err != nil {
		return nil, err
	}
	return &discount, nil
}

// ExistsByCode checks whether another discount already uses the code.
func (r *DiscountRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM discounts WHERE LOWER(code) = LOWER($1)"
	args := []interface{}{code}
	if excludeID > 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check discount code: %w", err)
	}
	return true, nil
}

// Create inserts a discount and its application targets in one transaction.
// Duplicate targets are skipped; a duplicate code surfaces as ErrDuplicate
// from the unique constraint even when two writers race past the pre-check.
func (r *DiscountRepository) Create(ctx context.Context, discount *models.Discount, targets []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create discount: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	discount.CreatedAt = now
	discount.UpdatedAt = now

	const query = `INSERT INTO discounts (type, code, value_type, value, apply_once_per_order, limit_total_uses, limit_per_customer, start_datetime, end_datetime, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	if err := tx.QueryRowxContext(ctx, query,
		discount.Type, discount.Code, discount.ValueType, discount.Value,
		discount.ApplyOncePerOrder, discount.LimitTotalUses, discount.LimitPerCustomer,
		discount.StartDatetime, discount.EndDatetime, discount.CreatedAt, discount.UpdatedAt,
	).Scan(&discount.ID); err != nil {
		return translateUnique(err, "create discount")
	}

	const applyQuery = `INSERT INTO discount_applications (discount_id, target, created_at)
		VALUES ($1, $2, $3) ON CONFLICT (discount_id, target) DO NOTHING`
	for _, target := range targets {
		if _, err := tx.ExecContext(ctx, applyQuery, discount.ID, target, now); err != nil {
			return fmt.Errorf("apply discount to %s: %w", target, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create discount: %w", err)
	}
	return nil
}

// Update rewrites an existing discount.
func (r *DiscountRepository) Update(ctx context.Context, discount *models.Discount) error {
	discount.UpdatedAt = time.Now().UTC()
	const query = `UPDATE discounts SET type = $2, code = $3, value_type = $4, value = $5, apply_once_per_order = $6, limit_total_uses = $7, limit_per_customer = $8, start_datetime = $9, end_datetime = $10, updated_at = $11 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		discount.ID, discount.Type, discount.Code, discount.ValueType, discount.Value,
		discount.ApplyOncePerOrder, discount.LimitTotalUses, discount.LimitPerCustomer,
		discount.StartDatetime, discount.EndDatetime, discount.UpdatedAt,
	); err != nil {
		return translateUnique(err, "update discount")
	}
	return nil
}

// ListTargets returns the application targets for a discount.
func (r *DiscountRepository) ListTargets(ctx context.Context, discountID int64) ([]string, error) {
	var targets []string
	const query = "SELECT target FROM discount_applications WHERE discount_id = $1 ORDER BY id ASC"
	if err := r.db.SelectContext(ctx, &targets, query, discountID); err != nil {
		return nil, fmt.Errorf("list discount targets: %w", err)
	}
	return targets, nil
}

// Delete removes a discount and, via CASCADE, its application rows.
func (r *DiscountRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM discounts WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete discount: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete discount result: %w", err)
	}
	return affected > 0, nil
}
