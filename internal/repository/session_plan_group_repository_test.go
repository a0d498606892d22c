package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synco-dev/booking-admin-api/internal/models"
)

const verifyExercisesQuery = "SELECT id FROM session_exercises WHERE id = ANY($1) FOR SHARE"

func TestSessionPlanGroupRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionPlanGroupRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(verifyExercisesQuery)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectQuery("INSERT INTO session_plan_groups").
		WithArgs("Foundations", nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	group := &models.SessionPlanGroup{
		GroupName: "Foundations",
		Levels:    types.JSONText(`{"Beginner":[{"sessionExerciseId":[1,2]}]}`),
	}
	require.NoError(t, repo.Create(context.Background(), group, []int64{1, 2}))
	assert.Equal(t, int64(11), group.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionPlanGroupRepositoryCreateMissingExercisesRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionPlanGroupRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(verifyExercisesQuery)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectRollback()

	group := &models.SessionPlanGroup{GroupName: "Foundations", Levels: types.JSONText(`{}`)}
	err := repo.Create(context.Background(), group, []int64{1, 8, 9})
	require.Error(t, err)

	var missing *MissingExercisesError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []int64{8, 9}, missing.IDs)
	assert.Zero(t, group.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionPlanGroupRepositoryCreateWithoutReferencesSkipsVerify(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionPlanGroupRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO session_plan_groups").
		WithArgs("Empty", nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectCommit()

	group := &models.SessionPlanGroup{GroupName: "Empty", Levels: types.JSONText(`{}`)}
	require.NoError(t, repo.Create(context.Background(), group, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionPlanGroupRepositoryUpdateVerifiesInTransaction(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionPlanGroupRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(verifyExercisesQuery)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec("UPDATE session_plan_groups SET").
		WithArgs(int64(11), "Renamed", nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	group := &models.SessionPlanGroup{ID: 11, GroupName: "Renamed", Levels: types.JSONText(`{"Beginner":[{"sessionExerciseId":[3]}]}`)}
	require.NoError(t, repo.Update(context.Background(), group, []int64{3}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionPlanGroupRepositorySetBannerURL(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionPlanGroupRepository(db)

	mock.ExpectExec("UPDATE session_plan_groups SET banner_url").
		WithArgs(int64(11), "session-plan-groups/11/banner.png", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetBannerURL(context.Background(), 11, "session-plan-groups/11/banner.png"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
