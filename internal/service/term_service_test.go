package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/synco-dev/booking-admin-api/internal/models"
	appErrors "github.com/synco-dev/booking-admin-api/pkg/errors"
)

type mockTermRepo struct {
	terms   []models.Term
	byID    *models.Term
	deleted bool

	created *models.Term
	updated *models.Term
}

func (m *mockTermRepo) List(ctx context.Context) ([]models.Term, error) {
	return m.terms, nil
}

func (m *mockTermRepo) FindByID(ctx context.Context, id int64) (*models.Term, error) {
	if m.byID == nil {
		return nil, sql.ErrNoRows
	}
	clone := *m.byID
	return &clone, nil
}

func (m *mockTermRepo) Create(ctx context.Context, term *models.Term) error {
	term.ID = 3
	m.created = term
	return nil
}

func (m *mockTermRepo) Update(ctx context.Context, term *models.Term) error {
	m.updated = term
	return nil
}

func (m *mockTermRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return m.deleted, nil
}

func newTermService(repo *mockTermRepo) *TermService {
	return NewTermService(repo, emptyAssembler(), nil, zap.NewNop())
}

func TestTermServiceCreate(t *testing.T) {
	repo := &mockTermRepo{}
	svc := newTermService(repo)

	view, err := svc.Create(context.Background(), CreateTermRequest{
		TermName:       "Spring 2026",
		StartDate:      "2026-03-01",
		EndDate:        "2026-05-24",
		ExclusionDates: []string{"2026-04-03"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), view.ID)
	assert.Equal(t, "Spring 2026", view.TermName)
	require.NotNil(t, repo.created)
	assert.Equal(t, models.DateList{"2026-04-03"}, repo.created.ExclusionDates)
}

func TestTermServiceCreateRejectsBadDateFormat(t *testing.T) {
	svc := newTermService(&mockTermRepo{})

	_, err := svc.Create(context.Background(), CreateTermRequest{
		TermName:  "Spring 2026",
		StartDate: "01/03/2026",
		EndDate:   "2026-05-24",
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "startDate must be YYYY-MM-DD", appErr.Message)
}

func TestTermServiceCreateRejectsInvertedDates(t *testing.T) {
	svc := newTermService(&mockTermRepo{})

	_, err := svc.Create(context.Background(), CreateTermRequest{
		TermName:  "Spring 2026",
		StartDate: "2026-05-24",
		EndDate:   "2026-03-01",
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "endDate must not be before startDate", appErr.Message)
}

func TestTermServiceUpdateValidatesMergedDates(t *testing.T) {
	repo := &mockTermRepo{byID: &models.Term{
		ID:        3,
		TermName:  "Spring 2026",
		StartDate: "2026-03-01",
		EndDate:   "2026-05-24",
	}}
	svc := newTermService(repo)

	// Moving only the start past the stored end must fail.
	start := "2026-06-01"
	_, err := svc.Update(context.Background(), 3, UpdateTermRequest{StartDate: &start})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Nil(t, repo.updated)

	start = "2026-03-08"
	view, err := svc.Update(context.Background(), 3, UpdateTermRequest{StartDate: &start})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-08", view.StartDate)
	assert.Equal(t, "2026-05-24", view.EndDate)
}

func TestTermServiceUpdateNotFound(t *testing.T) {
	svc := newTermService(&mockTermRepo{})

	name := "Summer 2026"
	_, err := svc.Update(context.Background(), 404, UpdateTermRequest{TermName: &name})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestTermServiceDelete(t *testing.T) {
	require.NoError(t, newTermService(&mockTermRepo{deleted: true}).Delete(context.Background(), 3))

	err := newTermService(&mockTermRepo{}).Delete(context.Background(), 404)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
