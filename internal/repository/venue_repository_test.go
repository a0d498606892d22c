package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synco-dev/booking-admin-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func venueRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "area", "name", "address", "facility", "parking_note", "congestion_note", "payment_plan_id", "term_id", "created_at", "updated_at"})
}

func TestVenueRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewVenueRepository(db)

	rows := venueRows().
		AddRow(1, "North", "North Hall", "1 Park Way", models.FacilityIndoor, nil, nil, nil, nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, area, name, address, facility, parking_note, congestion_note, payment_plan_id, term_id, created_at, updated_at FROM venues ORDER BY id ASC")).
		WillReturnRows(rows)

	venues, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, venues, 1)
	assert.Equal(t, "North Hall", venues[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVenueRepositoryCreateReturnsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewVenueRepository(db)

	mock.ExpectQuery("INSERT INTO venues").
		WithArgs("North", "North Hall", "1 Park Way", models.FacilityIndoor, nil, nil, nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	venue := &models.Venue{Area: "North", Name: "North Hall", Address: "1 Park Way", Facility: models.FacilityIndoor}
	require.NoError(t, repo.Create(context.Background(), venue))
	assert.Equal(t, int64(7), venue.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVenueRepositoryExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewVenueRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM venues WHERE id = $1 LIMIT 1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.Exists(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM venues WHERE id = $1 LIMIT 1")).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err = repo.Exists(context.Background(), 8)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVenueRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewVenueRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM venues WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.Delete(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, deleted)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM venues WHERE id = $1")).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err = repo.Delete(context.Background(), 8)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
