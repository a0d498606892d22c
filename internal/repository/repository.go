// Package repository contains the sqlx persistence layer. All queries use
// PostgreSQL placeholders; serial primary keys come back via RETURNING.
package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrDuplicate reports a storage-layer unique constraint violation. The
// services keep friendlier pre-checks, but the constraint is what makes
// racing writers safe.
var ErrDuplicate = errors.New("duplicate key")

// MissingExercisesError reports levels-document references to exercises that
// do not exist. The ID list must reach the caller verbatim.
type MissingExercisesError struct {
	IDs []int64
}

func (e *MissingExercisesError) Error() string {
	return fmt.Sprintf("missing session exercises: %v", e.IDs)
}

const uniqueViolation = "23505"

func translateUnique(err error, context string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", context, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", context, err)
}
