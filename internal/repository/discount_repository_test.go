package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synco-dev/booking-admin-api/internal/models"
)

func sampleDiscount() *models.Discount {
	return &models.Discount{
		Type:          "order",
		Code:          "SPRING26",
		ValueType:     "percentage",
		Value:         15,
		StartDatetime: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDatetime:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestDiscountRepositoryCreateWithTargets(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDiscountRepository(db)

	discount := sampleDiscount()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO discounts").
		WithArgs(discount.Type, discount.Code, discount.ValueType, discount.Value,
			false, nil, nil, discount.StartDatetime, discount.EndDatetime,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectExec("INSERT INTO discount_applications").
		WithArgs(int64(4), "memberships", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO discount_applications").
		WithArgs(int64(4), "one-off", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), discount, []string{"memberships", "one-off"}))
	assert.Equal(t, int64(4), discount.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscountRepositoryCreateDuplicateCode(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDiscountRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO discounts").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), sampleDiscount(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscountRepositoryExistsByCode(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDiscountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM discounts WHERE LOWER(code) = LOWER($1) LIMIT 1")).
		WithArgs("SPRING26").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsByCode(context.Background(), "SPRING26", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM discounts WHERE LOWER(code) = LOWER($1) AND id <> $2 LIMIT 1")).
		WithArgs("SPRING26", int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err = repo.ExistsByCode(context.Background(), "SPRING26", 4)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscountRepositoryListTargets(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDiscountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT target FROM discount_applications WHERE discount_id = $1 ORDER BY id ASC")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"target"}).AddRow("memberships").AddRow("one-off"))

	targets, err := repo.ListTargets(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"memberships", "one-off"}, targets)
	assert.NoError(t, mock.ExpectationsWereMet())
}
