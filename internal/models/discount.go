package models

import "time"

// Discount is a promotional code. Code is unique at the storage layer.
type Discount struct {
	ID                int64     `db:"id" json:"id"`
	Type              string    `db:"type" json:"type"`
	Code              string    `db:"code" json:"code"`
	ValueType         string    `db:"value_type" json:"valueType"`
	Value             float64   `db:"value" json:"value"`
	ApplyOncePerOrder bool      `db:"apply_once_per_order" json:"applyOncePerOrder"`
	LimitTotalUses    *int      `db:"limit_total_uses" json:"limitTotalUses,omitempty"`
	LimitPerCustomer  *int      `db:"limit_per_customer" json:"limitPerCustomer,omitempty"`
	StartDatetime     time.Time `db:"start_datetime" json:"startDatetime"`
	EndDatetime       time.Time `db:"end_datetime" json:"endDatetime"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}

// DiscountApplication links a discount to one target it applies to. Duplicate
// targets for the same discount are skipped at write time.
type DiscountApplication struct {
	ID         int64     `db:"id" json:"id"`
	DiscountID int64     `db:"discount_id" json:"discountId"`
	Target     string    `db:"target" json:"target"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
